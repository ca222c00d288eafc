package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string          { return "help" }
func (c *HelpCmd) Aliases() []string     { return nil }
func (c *HelpCmd) Synopsis() string      { return "Print usage" }
func (c *HelpCmd) Usage() string         { return "taskboard help" }
func (c *HelpCmd) Requires() Requirement { return NoService }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskboard                                         List all tasks
  taskboard list [--status <status>] [--cached]
  taskboard board [--interactive] [--width <n>]
  taskboard timeline [--date <dd/mm/yyyy>]
  taskboard show <ref>
  taskboard add [--desc <text>] [--status <status>] [--due <dd/mm/yyyy>] <title...>
  taskboard create [--desc <text>] [--status <status>] [--due <dd/mm/yyyy>] <title...>
  taskboard edit [--title <t>] [--desc <text>] [--status <status>] [--due <dd/mm/yyyy>] <ref>
  taskboard move <ref> <status|ref>
  taskboard done <ref>
  taskboard rm <ref>
  taskboard breakdown <ref>
  taskboard login --email <email> [--password <pw> | --password-stdin]
  taskboard register --name <name> --email <email> [--password <pw> | --password-stdin]
                     [--avatar <file>] [--crop <x,y,w,h>]
  taskboard logout
  taskboard whoami
  taskboard profile [--name <name>] [--email <email>] [--password <pw>]
                    [--avatar <file>] [--crop <x,y,w,h>]
  taskboard users
  taskboard role <user> <user|admin>
  taskboard deluser [--force] <user>
  taskboard activity [--limit <n>]
  taskboard help
  taskboard version

Statuses: todo, in-progress, done
Task refs are list numbers or task ids. User refs are numbers, ids or emails.

Common flags:
  --config <dir>    Override config directory
  --api-url <url>   Override the task service URL
  --quiet           Suppress informational output
  --debug           Print debug logs to stderr
`
