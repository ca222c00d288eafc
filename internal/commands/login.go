package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/forms"
	"taskboard/internal/service"
)

func init() {
	Register(&LoginCmd{stdin: os.Stdin})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email         string
	password      string
	passwordStdin bool
	stdin         io.Reader
}

// SetCredentials sets email and password (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

// SetStdin sets the reader used by --password-stdin (for testing).
func (c *LoginCmd) SetStdin(r io.Reader) {
	c.stdin = r
	c.passwordStdin = r != nil
}

func (c *LoginCmd) Name() string          { return "login" }
func (c *LoginCmd) Aliases() []string     { return nil }
func (c *LoginCmd) Synopsis() string      { return "Sign in" }
func (c *LoginCmd) Requires() Requirement { return AnonymousService }

func (c *LoginCmd) Usage() string {
	return "taskboard login --email <email> [--password <pw> | --password-stdin]"
}

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.BoolVar(&c.passwordStdin, "password-stdin", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	password := c.password
	if c.passwordStdin {
		pw, err := readSecret(c.stdin)
		if err != nil {
			return report(errOut, usageErrorf("%v", err))
		}
		password = pw
	}

	creds, err := forms.LoginForm{Email: c.email, Password: password}.Credentials()
	if err != nil {
		return report(errOut, err)
	}

	sess, err := svc.Login(ctx, creds)
	if err != nil {
		return report(errOut, err)
	}
	if err := startSession(ctx, cfg, sess); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", sess.User.Name)
	}
	return exitcode.Success
}
