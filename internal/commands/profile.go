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
	"taskboard/internal/output"
	"taskboard/internal/service"
)

func init() {
	Register(&ProfileCmd{stdin: os.Stdin})
}

// ProfileCmd implements the profile command.
// Without flags it prints the profile; with flags it updates it.
type ProfileCmd struct {
	name          string
	email         string
	password      string
	passwordStdin bool
	avatarPath    string
	crop          string
	stdin         io.Reader
}

// SetFields sets the form fields (for testing).
func (c *ProfileCmd) SetFields(name, email, password string) {
	c.name = name
	c.email = email
	c.password = password
}

// SetAvatar sets the avatar file and optional crop (for testing).
func (c *ProfileCmd) SetAvatar(path, crop string) {
	c.avatarPath = path
	c.crop = crop
}

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return nil }
func (c *ProfileCmd) Synopsis() string  { return "Show or edit your profile" }
func (c *ProfileCmd) Usage() string {
	return "taskboard profile [--name <name>] [--email <email>] [--password <pw> | --password-stdin] [--avatar <file>] [--crop <x,y,w,h>]"
}
func (c *ProfileCmd) Requires() Requirement { return SessionService }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.name, "n", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.BoolVar(&c.passwordStdin, "password-stdin", false, "")
	fs.StringVar(&c.avatarPath, "avatar", "", "")
	fs.StringVar(&c.crop, "crop", "", "")
}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	if c.name == "" && c.email == "" && password == "" && c.avatarPath == "" && c.crop == "" {
		me, err := svc.Me(ctx)
		if err != nil {
			return report(errOut, err)
		}
		output.FormatProfile(out, me)
		return exitcode.Success
	}

	in, err := forms.ProfileForm{Name: c.name, Email: c.email, Password: password}.Input()
	if err != nil {
		return report(errOut, err)
	}
	upload, err := loadAvatar(c.avatarPath, c.crop)
	if err != nil {
		return report(errOut, err)
	}
	in.Avatar = upload

	if in.Name == "" && in.Email == "" && in.Password == "" && in.Avatar == nil {
		return report(errOut, usageErrorf("nothing to update"))
	}

	user, err := svc.UpdateProfile(ctx, in)
	if err != nil {
		return report(errOut, err)
	}
	refreshSessionUser(cfg, user)

	ok(cfg, out)
	return exitcode.Success
}
