package fs

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsaps/internal/cli/model"
)

// setTempCfg перенастраивает пользовательский конфиг‑каталог в temp для изоляции тестов.
func setTempCfg(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

func TestSessionFSStore_SaveLoadClear(t *testing.T) {
	setTempCfg(t)
	st := SessionFSStore{}

	_, err := st.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	want := model.Session{URL: "https://dspace.example/rest", ID: "abc", Email: "a@b.c", FullName: "Ann"}
	require.NoError(t, st.Save(want))

	p, err := sessionPath()
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		fi, err := os.Stat(p)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}

	got, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, st.Clear())
	_, err = st.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	// повторная очистка не ошибка
	assert.NoError(t, st.Clear())
}

func TestSessionFSStore_Errors(t *testing.T) {
	setTempCfg(t)
	st := SessionFSStore{}
	assert.Error(t, st.Save(model.Session{URL: "x"}))

	p, err := sessionPath()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o600))
	_, err = st.Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(p, []byte(`{"url":"x"}`), 0o600))
	_, err = st.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}
