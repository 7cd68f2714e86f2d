package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"dsaps/internal/config"
)

// withTempConfig переопределяет пользовательские каталоги на время теста,
// чтобы артефакты (сессия/журнал/отчёты) создавались в temp.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	t.Setenv("CLIENT_DB_PATH", "")
	return dir
}

// fakeDSpace — минимальный DSpace REST для тестов команд.
type fakeDSpace struct {
	mu       sync.Mutex
	items    map[string][]map[string]string // uuid -> metadata
	files    map[string][]string           // item uuid -> bitstream names
	seq      int
	loggedIn bool
}

func newFakeDSpace(t *testing.T) (*fakeDSpace, *config.Config) {
	t.Helper()
	dir := withTempConfig(t)
	f := &fakeDSpace{items: map[string][]map[string]string{}, files: map[string][]string{}}

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := func(r *http.Request) bool {
		c, err := r.Cookie("JSESSIONID")
		return err == nil && c.Value == "S1"
	}
	mux.HandleFunc("POST /rest/login", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") != "a@b.c" || r.URL.Query().Get("password") != "pw" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		f.loggedIn = true
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "S1", Path: "/"})
	})
	mux.HandleFunc("POST /rest/logout", func(w http.ResponseWriter, r *http.Request) {
		f.loggedIn = false
	})
	mux.HandleFunc("GET /rest/status", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) || !f.loggedIn {
			writeJSON(w, map[string]any{"okay": true, "authenticated": false})
			return
		}
		writeJSON(w, map[string]any{"okay": true, "authenticated": true, "email": "a@b.c", "fullname": "Ann Lee"})
	})
	mux.HandleFunc("GET /rest/handle/{h...}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("h") {
		case "1721.1/1":
			writeJSON(w, map[string]any{"uuid": "comm-1", "type": "community"})
		case "1721.1/2":
			writeJSON(w, map[string]any{"uuid": "coll-1", "type": "collection"})
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("GET /rest/filtered-items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		var items []map[string]string
		if offset == 0 {
			for id := range f.items {
				items = append(items, map[string]string{"link": "/rest/items/" + id})
			}
		}
		writeJSON(w, map[string]any{"items": items})
	})
	mux.HandleFunc("GET /rest/items/{id}/metadata", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		md, ok := f.items[r.PathValue("id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, md)
	})
	mux.HandleFunc("GET /rest/collections/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"uuid": r.PathValue("id"), "name": "Theses", "handle": "1721.1/2", "type": "collection", "items": []any{}})
	})
	mux.HandleFunc("POST /rest/communities/{id}/collections", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"uuid": "coll-new", "handle": "1721.1/3"})
	})
	mux.HandleFunc("POST /rest/collections/{id}/items", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Metadata []map[string]string `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.seq++
		n := f.seq
		id := "item-" + strconv.Itoa(n)
		f.items[id] = body.Metadata
		f.mu.Unlock()
		writeJSON(w, map[string]any{"uuid": id, "handle": "1721.1/" + strconv.Itoa(100+n)})
	})
	mux.HandleFunc("POST /rest/items/{id}/bitstreams", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.files[r.PathValue("id")] = append(f.files[r.PathValue("id")], r.URL.Query().Get("name"))
		f.mu.Unlock()
		writeJSON(w, map[string]any{"uuid": "bs-" + r.URL.Query().Get("name")})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	cfg := &config.Config{
		DSpaceURL:   ts.URL + "/rest",
		HTTPTimeout: 5 * time.Second,
		ReportDir:   filepath.Join(dir, "reports"),
	}
	_ = os.MkdirAll(cfg.ReportDir, 0o700)
	return f, cfg
}
