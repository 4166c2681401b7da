package groups

import (
	"strings"

	"github.com/ardnew/vxs/lang"
)

// termEntity provides the properties of one taxonomy term. A nil term has no
// properties.
type termEntity struct {
	store *Store
	term  *Term
}

func (e termEntity) Properties(s *lang.Scope) lang.Properties {
	t := e.term
	if t == nil {
		return nil
	}

	return lang.Properties{
		"id":          integer("ID", t.ID),
		"label":       text("Label", t.Label),
		"slug":        text("Slug", t.Slug),
		"taxonomy":    text("Taxonomy", t.Taxonomy),
		"description": text("Description", t.Description),
		"color":       text("Color", t.Color),
		"icon":        text("Icon", t.Icon),
		"link": link("Link", strings.TrimSuffix(e.store.Site.URL, "/")+
			"/"+t.Taxonomy+"/"+t.Slug),
		"post_count": integer("Post count", int64(e.store.CountTermPosts(t))),
		"parent":     termObject(s, e.store, t.Parent, "Parent"),
	}
}

// Meta implements [lang.MetaProvider].
func (e termEntity) Meta(_ *lang.Scope, key string) (any, bool) {
	if e.term == nil {
		return nil, false
	}

	return metaValue(e.term.Meta, key)
}

var termAliases = map[string]string{"name": "label", "url": "link"}

// termObject returns the object node of term id. An ID of zero or an unknown
// ID yields an object without properties.
func termObject(s *lang.Scope, store *Store, tid int64, label string) *lang.Object {
	return lang.Instance(s, "term:"+itoa(tid)+":"+label, func() *lang.Object {
		t, _ := store.Term(tid)

		return lang.NewObject(label, termEntity{store: store, term: t},
			lang.WithExports("term"),
			lang.WithAliases(termAliases),
		)
	})
}

// termList returns the object list of the terms ids.
func termList(store *Store, label string, ids []int64) *lang.ObjectList {
	return lang.NewObjectList(label,
		lang.ListerFunc(func(*lang.Scope) []lang.Provider {
			out := make([]lang.Provider, 0, len(ids))

			for _, tid := range ids {
				if t, ok := store.Term(tid); ok {
					out = append(out, termEntity{store: store, term: t})
				}
			}

			return out
		}),
		lang.WithExports("term"),
		lang.WithAliases(termAliases),
	)
}

func termGroup(store *Store, t *Term) *lang.Group {
	return lang.NewGroup("term",
		lang.NewObject("Term", termEntity{store: store, term: t},
			lang.WithAliases(termAliases),
		),
		"meta",
	)
}
