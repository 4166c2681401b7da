package groups

import (
	"time"

	"github.com/ardnew/vxs/lang"
)

// siteEntity provides the "site" group.
type siteEntity struct {
	store *Store
}

func (e siteEntity) Properties(s *lang.Scope) lang.Properties {
	site := e.store.Site

	return lang.Properties{
		"title":    text("Title", site.Title),
		"tagline":  text("Tagline", site.Tagline),
		"url":      link("URL", site.URL),
		"email":    lang.Email("Admin email", func(*lang.Scope) string { return site.Email }),
		"language": text("Language", site.Language),
		"timezone": text("Timezone", site.Timezone),
		"currency": text("Currency", site.Currency),
		"logo":     link("Logo", site.Logo),
		"date": lang.Date("Current date", func(s *lang.Scope) time.Time {
			return s.Now()
		}, lang.WithDescription("Time of the request")),
		"posts": lang.NewObject("Post counts", lang.ProviderFunc(e.counts)),
	}
}

// counts exposes the number of published posts per post type.
func (e siteEntity) counts(*lang.Scope) lang.Properties {
	props := make(lang.Properties)

	for _, p := range e.store.Posts {
		if _, ok := props[p.Type]; ok || p.Type == "" {
			continue
		}

		props[p.Type] = integer(labelOf(p.Type), int64(e.store.CountPosts(p.Type)))
	}

	return props
}

// Meta implements [lang.MetaProvider].
func (e siteEntity) Meta(_ *lang.Scope, key string) (any, bool) {
	return metaValue(e.store.Site.Meta, key)
}

// Count implements [lang.Counter].
func (e siteEntity) Count(_ *lang.Scope, kind string) int {
	return e.store.CountPosts(kind)
}

// siteMethods are the group-bound modifiers of the site group.
var siteMethods = []string{"meta", "math", "query_var", "post_count"}

func siteGroup(store *Store) *lang.Group {
	return lang.NewGroup("site",
		lang.NewObject("Site", siteEntity{store: store},
			lang.WithAliases(map[string]string{"name": "title"}),
		),
		siteMethods...,
	)
}
