package cmd

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/ardnew/vxs/groups"
	"github.com/ardnew/vxs/lang"
	"github.com/ardnew/vxs/log"
)

// Request selects the entities and formatting of one rendering request.
type Request struct {
	Vars       map[string]string `help:"Set query variable(s) as key=value."                   name:"var"         short:"v"`
	Locale     string            `help:"Locale for dates, numbers and currencies."                                         default:"${defaultLocale}"`
	DateLayout string            `help:"Go time layout for date values."                                                   default:"${defaultDateLayout}"`
	Now        string            `help:"Fix the current time (RFC 3339)."`
	Post       int64             `help:"Render for the post with this ID."`
	User       int64             `help:"Render for the current user with this ID."`
	Order      int64             `help:"Render for the order with this ID."`
	Term       int64             `help:"Render for the term with this ID."`
	Status     int64             `help:"Render for the timeline status with this ID."`
}

func (r Request) selection() groups.Selection {
	return groups.Selection{
		Post:   r.Post,
		User:   r.User,
		Order:  r.Order,
		Term:   r.Term,
		Status: r.Status,
	}
}

// Scope returns a request scope with the selected entities of store bound.
// Query variables given on the command line override those of the store.
func (r Request) Scope(ctx context.Context, store *groups.Store) (*lang.Scope, error) {
	return r.bind(ctx, store, r.selection(), mergeVars(store.QueryVars, r.Vars))
}

// bind returns a scope with query variables vars and the entities of sel
// bound.
func (r Request) bind(
	ctx context.Context,
	store *groups.Store,
	sel groups.Selection,
	vars map[string]string,
) (*lang.Scope, error) {
	now := time.Now()

	if r.Now != "" {
		t, err := time.Parse(time.RFC3339, r.Now)
		if err != nil {
			return nil, ErrInvalidTime.
				With(slog.String("now", r.Now)).
				Wrap(err)
		}

		now = t
	}

	s := lang.NewScope(ctx,
		lang.WithLogger(log.Default()),
		lang.WithRules(groups.Rules()),
		lang.WithQueryVars(vars),
		lang.WithLocale(r.Locale),
		lang.WithDateLayout(r.DateLayout),
		lang.WithNow(now),
	)

	if err := groups.Bind(s, store, sel); err != nil {
		return nil, err
	}

	return s, nil
}

func mergeVars(layers ...map[string]string) map[string]string {
	vars := make(map[string]string)
	for _, l := range layers {
		maps.Copy(vars, l)
	}

	return vars
}

// loadStore loads the fixture files stored in ctx.
func loadStore(ctx context.Context) (*groups.Store, error) {
	paths := dataFilesFrom(ctx)

	store, err := groups.Load(ctx, paths...)
	if err != nil {
		return nil, ErrLoadData.Wrap(err)
	}

	log.DebugContext(ctx, "loaded site data",
		slog.Any("files", paths),
		slog.Int("posts", len(store.Posts)),
		slog.Int("users", len(store.Users)),
	)

	return store, nil
}
