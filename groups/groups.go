package groups

import (
	"log/slog"

	"github.com/ardnew/vxs/lang"
)

// Selection names the entities a request is rendered for. Zero IDs leave the
// corresponding group unregistered.
type Selection struct {
	Post   int64
	User   int64
	Order  int64
	Term   int64
	Status int64
}

// Bind registers the groups of sel on s: "site" always, "post" and "author"
// for the selected post, "user" for the current user, and "order", "term" and
// "status" when selected. Unknown IDs are reported as [ErrNotFound].
func Bind(s *lang.Scope, store *Store, sel Selection) error {
	s.Register(siteGroup(store))

	if sel.Post != 0 {
		p, ok := store.Post(sel.Post)
		if !ok {
			return notFound("post", sel.Post)
		}

		author, _ := store.User(p.Author)

		s.Register(
			postGroup(store, p),
			userGroup("author", "Author", store, author),
		)
	}

	if sel.User != 0 {
		u, ok := store.User(sel.User)
		if !ok {
			return notFound("user", sel.User)
		}

		s.Register(userGroup("user", "Current user", store, u))
	}

	if sel.Order != 0 {
		o, ok := store.Order(sel.Order)
		if !ok {
			return notFound("order", sel.Order)
		}

		s.Register(orderGroup(store, o))
	}

	if sel.Term != 0 {
		t, ok := store.Term(sel.Term)
		if !ok {
			return notFound("term", sel.Term)
		}

		s.Register(termGroup(store, t))
	}

	if sel.Status != 0 {
		st, ok := store.Status(sel.Status)
		if !ok {
			return notFound("status", sel.Status)
		}

		s.Register(statusGroup(store, st))
	}

	s.Logger().DebugContext(s.Context(), "bind",
		slog.Any("groups", s.GroupKeys()),
	)

	return nil
}

func notFound(kind string, id int64) error {
	return ErrNotFound.With(
		slog.String("kind", kind),
		slog.Int64("id", id),
	)
}

// Catalog returns the group types of the store for schema export. Mock
// entities are empty; the taxonomies found in store are listed under each
// post's terms.
func Catalog(store *Store) *lang.Catalog {
	taxonomies := store.Taxonomies()

	return lang.NewCatalog(
		lang.GroupType{
			Key: "site", Label: "Site", Root: true,
			Mock: func(*lang.Scope) *lang.Group { return siteGroup(store) },
		},
		lang.GroupType{
			Key: "post", Label: "Post", Root: true,
			Mock: func(*lang.Scope) *lang.Group {
				return postGroup(store, &Post{}, taxonomies...)
			},
		},
		lang.GroupType{
			Key: "author", Label: "Author", Root: true,
			Mock: func(*lang.Scope) *lang.Group {
				return userGroup("author", "Author", store, &User{})
			},
		},
		lang.GroupType{
			Key: "user", Label: "Current user", Root: true,
			Mock: func(*lang.Scope) *lang.Group {
				return userGroup("user", "Current user", store, &User{})
			},
		},
		lang.GroupType{
			Key: "term", Label: "Term",
			Mock: func(*lang.Scope) *lang.Group { return termGroup(store, &Term{}) },
		},
		lang.GroupType{
			Key: "order", Label: "Order", Root: true,
			Mock: func(*lang.Scope) *lang.Group { return orderGroup(store, &Order{}) },
		},
		lang.GroupType{
			Key: "status", Label: "Status", Root: true,
			Mock: func(*lang.Scope) *lang.Group { return statusGroup(store, &Status{}) },
		},
	)
}
