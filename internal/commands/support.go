package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/tasks"
)

// sessionStore returns the session store for cfg.
func sessionStore(cfg *config.Config) *session.Store {
	return session.NewStore(cfg.SessionPath())
}

// openCache opens the task cache when enabled. Failures are logged and
// yield a nil cache.
func openCache(ctx context.Context, cfg *config.Config) *cache.Cache {
	if !cfg.CacheEnabled {
		return nil
	}
	c, err := cache.Open(ctx, cfg.CachePath())
	if err != nil {
		cfg.Logger().Warn("task cache unavailable", "path", cfg.CachePath(), "error", err)
		return nil
	}
	return c
}

// newManager creates a task manager wired to the cache. The returned
// function releases the cache.
func newManager(ctx context.Context, cfg *config.Config, svc service.Service) (*tasks.Manager, func()) {
	opts := []tasks.Option{tasks.WithLogger(cfg.Logger())}
	c := openCache(ctx, cfg)
	if c != nil {
		opts = append(opts, tasks.WithCache(c))
	}
	release := func() {
		if c != nil {
			_ = c.Close()
		}
	}
	return tasks.NewManager(svc, opts...), release
}

// loadManager is newManager followed by Load.
func loadManager(ctx context.Context, cfg *config.Config, svc service.Service) (*tasks.Manager, func(), error) {
	m, release := newManager(ctx, cfg, svc)
	if err := m.Load(ctx); err != nil {
		release()
		return nil, nil, err
	}
	return m, release, nil
}

// resolveTask loads the task list and resolves the reference in args.
func resolveTask(ctx context.Context, cfg *config.Config, svc service.Service, args []string) (*tasks.Manager, service.Task, func(), error) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			err = usageErrorf("task reference required")
		}
		return nil, service.Task{}, nil, err
	}

	m, release, err := loadManager(ctx, cfg, svc)
	if err != nil {
		return nil, service.Task{}, nil, err
	}
	task, err := ref.Resolve(m.Tasks())
	if err != nil {
		release()
		return nil, service.Task{}, nil, err
	}
	return m, task, release, nil
}

// requireAdmin checks the signed-in user's role with the server.
func requireAdmin(ctx context.Context, svc service.Service) (service.User, error) {
	me, err := svc.Me(ctx)
	if err != nil {
		return service.User{}, err
	}
	if !me.IsAdmin() {
		return service.User{}, service.ErrForbidden
	}
	return me, nil
}

// refreshSessionUser updates the user snapshot stored with the session.
func refreshSessionUser(cfg *config.Config, user service.User) {
	store := sessionStore(cfg)
	sess, err := store.Load()
	if err != nil {
		return
	}
	sess.User = user
	if err := store.Save(sess); err != nil {
		cfg.Logger().Warn("failed to update stored session", "error", err)
	}
}

// ok prints the success marker unless quiet.
func ok(cfg *config.Config, out io.Writer) {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
}

// optString is a string flag that records whether it was set.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(v string) error {
	o.value, o.set = v, true
	return nil
}

// ptr returns the value when set, nil otherwise.
func (o *optString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// readSecret reads the first line of r.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// clearCache drops the cached task list so a different account never sees
// another account's tasks.
func clearCache(ctx context.Context, cfg *config.Config) {
	if _, err := os.Stat(cfg.CachePath()); err != nil {
		return
	}
	c := openCache(ctx, cfg)
	if c == nil {
		return
	}
	defer c.Close()
	if err := c.Clear(ctx); err != nil {
		cfg.Logger().Warn("failed to clear task cache", "error", err)
	}
}

// startSession stores a new session and drops the previous account's cache.
func startSession(ctx context.Context, cfg *config.Config, sess service.Session) error {
	if err := sessionStore(cfg).Save(sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	clearCache(ctx, cfg)
	return nil
}
