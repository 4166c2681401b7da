package cmd

import (
	"context"

	"github.com/ardnew/vxs/cli/cmd/repl"
	"github.com/ardnew/vxs/groups"
	"github.com/ardnew/vxs/lang"
	"github.com/ardnew/vxs/log"
	"github.com/ardnew/vxs/pkg"
)

// Repl renders templates interactively.
type Repl struct {
	Request `embed:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := loadStore(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, repl.Session{
		NewScope:  r.scopeFunc(ctx, store),
		Selection: r.selection(),
		Vars:      mergeVars(store.QueryVars, r.Vars),
		CacheDir:  cacheDir(ctx),
	}, log.Default())
}

// scopeFunc returns a constructor of request scopes for a changing entity
// selection and query variables.
func (r *Repl) scopeFunc(ctx context.Context, store *groups.Store) repl.ScopeFunc {
	return func(sel groups.Selection, vars map[string]string) (*lang.Scope, error) {
		return r.bind(ctx, store, sel, vars)
	}
}

// cacheDir returns the cache directory named by the kong variables, or the
// default cache directory.
func cacheDir(ctx context.Context) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			return dir
		}
	}

	return pkg.CacheDir()
}
