package commands

import (
	"context"
	"errors"
	"fmt"

	"dsaps/internal/cli/bootstrap"
	fsrepo "dsaps/internal/cli/repo/fs"
	"dsaps/internal/cli/service"
	"dsaps/internal/config"
)

func authService(cfg *config.Config) service.AuthService {
	return service.NewAuthService(fsrepo.SessionFSStore{}, func(id string) service.SessionClient {
		return bootstrap.NewClient(cfg, id, logger)
	})
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Authenticate and store the DSpace session" }
func (loginCmd) Usage() string       { return "login [email password]" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	email, password := cfg.Email, cfg.Password
	switch len(args) {
	case 0:
	case 2:
		email, password = args[0], args[1]
	default:
		return ErrUsage
	}
	if email == "" || password == "" {
		return ErrUsage
	}
	sess, err := authService(cfg).Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in to %s as %s\n", sess.URL, displayName(sess.FullName, sess.Email))
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "End the DSpace session and forget it locally" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := authService(cfg).Logout(ctx); err != nil {
		if errors.Is(err, fsrepo.ErrNoSession) {
			fmt.Fprintln(Out, "Not logged in")
			return nil
		}
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the stored session and ask the server about it" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	c, err := bootstrap.OpenClient(cfg, fsrepo.SessionFSStore{}, logger)
	if err != nil {
		if errors.Is(err, fsrepo.ErrNoSession) {
			fmt.Fprintln(Out, "Not logged in")
			return nil
		}
		return err
	}
	st, err := c.Status(ctx)
	if err != nil {
		return err
	}
	if !st.Authenticated {
		fmt.Fprintf(Out, "Session at %s has expired, run login\n", c.BaseURL())
		return nil
	}
	fmt.Fprintf(Out, "Authenticated at %s as %s\n", c.BaseURL(), displayName(st.FullName, st.Email))
	return nil
}

func displayName(fullName, email string) string {
	switch {
	case fullName != "" && email != "":
		return fmt.Sprintf("%s <%s>", fullName, email)
	case fullName != "":
		return fullName
	default:
		return email
	}
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(statusCmd{})
}
