package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"taskboard/internal/avatar"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/forms"
	"taskboard/internal/service"
)

func init() {
	Register(&RegisterCmd{stdin: os.Stdin})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name          string
	email         string
	password      string
	passwordStdin bool
	avatarPath    string
	crop          string
	stdin         io.Reader
}

// SetFields sets the form fields (for testing).
func (c *RegisterCmd) SetFields(name, email, password string) {
	c.name = name
	c.email = email
	c.password = password
}

// SetAvatar sets the avatar file and optional crop (for testing).
func (c *RegisterCmd) SetAvatar(path, crop string) {
	c.avatarPath = path
	c.crop = crop
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskboard register --name <name> --email <email> [--password <pw> | --password-stdin] [--avatar <file>] [--crop <x,y,w,h>]"
}
func (c *RegisterCmd) Requires() Requirement { return AnonymousService }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.name, "n", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.BoolVar(&c.passwordStdin, "password-stdin", false, "")
	fs.StringVar(&c.avatarPath, "avatar", "", "")
	fs.StringVar(&c.crop, "crop", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	in, err := forms.RegisterForm{Name: c.name, Email: c.email, Password: password}.Input()
	if err != nil {
		return report(errOut, err)
	}

	upload, err := loadAvatar(c.avatarPath, c.crop)
	if err != nil {
		return report(errOut, err)
	}
	in.Avatar = upload

	sess, err := svc.Register(ctx, in)
	if err != nil {
		return report(errOut, err)
	}
	if err := startSession(ctx, cfg, sess); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered as %s\n", sess.User.Name)
	}
	return exitcode.Success
}

// loadAvatar reads and optionally crops an avatar. An empty path yields nil.
func loadAvatar(path, crop string) (*service.Upload, error) {
	if path == "" {
		if crop != "" {
			return nil, usageErrorf("--crop requires --avatar")
		}
		return nil, nil
	}

	var rect *avatar.Rect
	if crop != "" {
		r, err := avatar.ParseRect(crop)
		if err != nil {
			return nil, usageErrorf("%v", err)
		}
		rect = &r
	}

	upload, err := avatar.Load(path, rect)
	if err != nil {
		return nil, usageErrorf("%v", err)
	}
	return &upload, nil
}
