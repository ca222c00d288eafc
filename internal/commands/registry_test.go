package commands_test

import (
	"context"
	"flag"
	"io"
	"reflect"
	"testing"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/service"
)

type stubCmd struct {
	name    string
	aliases []string
}

func (c stubCmd) Name() string                   { return c.name }
func (c stubCmd) Aliases() []string              { return c.aliases }
func (c stubCmd) Synopsis() string               { return "" }
func (c stubCmd) Usage() string                  { return "" }
func (c stubCmd) Requires() commands.Requirement { return commands.NoService }
func (c stubCmd) RegisterFlags(fs *flag.FlagSet) {}
func (c stubCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return 0
}

func TestRegistry_RegisterAndFind(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(stubCmd{name: "list", aliases: []string{"ls"}}); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"list", "ls"} {
		cmd, ok := r.Find(name)
		if !ok || cmd.Name() != "list" {
			t.Errorf("Find(%q) = %v, %v", name, cmd, ok)
		}
	}
	if _, ok := r.Find("lis"); ok {
		t.Error("Find should not match prefixes")
	}
}

func TestRegistry_RejectsConflicts(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(stubCmd{name: "rm", aliases: []string{"delete"}}); err != nil {
		t.Fatal(err)
	}

	if err := r.Register(stubCmd{name: "del", aliases: []string{"delete"}}); err == nil {
		t.Error("expected alias conflict")
	}
	if _, ok := r.Find("del"); ok {
		t.Error("a rejected command must not be partly registered")
	}
	if err := r.Register(stubCmd{name: ""}); err == nil {
		t.Error("expected empty name to be rejected")
	}
}

func TestRegistry_AllIsSortedAndUnique(t *testing.T) {
	r := commands.NewRegistry()
	_ = r.Register(stubCmd{name: "users"})
	_ = r.Register(stubCmd{name: "board", aliases: []string{"b"}})

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	if want := []string{"board", "users"}; !reflect.DeepEqual(names, want) {
		t.Errorf("expected %v, got %v", want, names)
	}
}

func TestRegistry_Suggest(t *testing.T) {
	r := commands.NewRegistry()
	_ = r.Register(stubCmd{name: "role"})
	_ = r.Register(stubCmd{name: "rm", aliases: []string{"remove"}})
	_ = r.Register(stubCmd{name: "list", aliases: []string{"ls"}})

	tests := []struct {
		prefix string
		want   []string
	}{
		{"r", []string{"rm", "role"}},
		{"rem", []string{"rm"}},
		{"l", []string{"list"}},
		{"x", []string{}},
		{"", nil},
	}
	for _, tt := range tests {
		got := r.Suggest(tt.prefix)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Suggest(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}
