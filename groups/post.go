package groups

import (
	"cmp"
	"strings"

	"github.com/ardnew/vxs/lang"
)

// postEntity provides the properties of one post. A nil post has no
// properties.
type postEntity struct {
	store *Store
	post  *Post
	// taxonomies lists the term lists exposed under "terms" in addition to
	// those the post is assigned to.
	taxonomies []string
}

func (e postEntity) Properties(s *lang.Scope) lang.Properties {
	p := e.post
	if p == nil {
		return nil
	}

	permalink := strings.TrimSuffix(e.store.Site.URL, "/") + "/" +
		cmp.Or(p.Type, "post") + "/" + p.Slug

	return lang.Properties{
		"id":       integer("ID", p.ID),
		"title":    text("Title", p.Title),
		"content":  text("Content", p.Content),
		"excerpt":  text("Excerpt", cmp.Or(p.Excerpt, excerpt(p.Content, 55))),
		"slug":     text("Slug", p.Slug),
		"type":     text("Post type", cmp.Or(p.Type, "post")),
		"status":   text("Status", cmp.Or(p.Status, "publish")),
		"link":     link("Permalink", permalink),
		"image":    link("Featured image", p.Image),
		"date":     date("Publish date", p.Date),
		"modified": date("Modified date", p.Modified),
		"author":   userObject(s, e.store, p.Author, "Author"),
		"terms":    lang.NewObject("Terms", lang.ProviderFunc(e.terms)),
		"fields": lang.NewObject("Fields", lang.ProviderFunc(func(*lang.Scope) lang.Properties {
			return fieldProperties(p.Fields)
		}), lang.WithDescription("Custom fields of the post type")),
	}
}

// terms exposes one term list per taxonomy.
func (e postEntity) terms(*lang.Scope) lang.Properties {
	props := make(lang.Properties)

	for _, tax := range e.taxonomies {
		props[tax] = termList(e.store, labelOf(tax), nil)
	}

	for tax, ids := range e.post.Terms {
		props[tax] = termList(e.store, labelOf(tax), ids)
	}

	return props
}

// Meta implements [lang.MetaProvider].
func (e postEntity) Meta(_ *lang.Scope, key string) (any, bool) {
	if e.post == nil {
		return nil, false
	}

	return metaValue(e.post.Meta, key)
}

// excerpt returns the first n words of content.
func excerpt(content string, n int) string {
	words := strings.Fields(content)
	if len(words) <= n {
		return strings.Join(words, " ")
	}

	return strings.Join(words[:n], " ") + "..."
}

var postAliases = map[string]string{
	"name":      "title",
	"permalink": "link",
	"category":  "terms.category",
	"tags":      "terms.tag",
}

// postObject returns the object node of post id, or of an empty entity if no
// such post exists.
func postObject(s *lang.Scope, store *Store, pid int64, label string) *lang.Object {
	return lang.Instance(s, "post:"+itoa(pid)+":"+label, func() *lang.Object {
		p, _ := store.Post(pid)

		return lang.NewObject(label, postEntity{store: store, post: p},
			lang.WithExports("post"),
			lang.WithAliases(postAliases),
		)
	})
}

func postGroup(store *Store, p *Post, taxonomies ...string) *lang.Group {
	return lang.NewGroup("post",
		lang.NewObject("Post",
			postEntity{store: store, post: p, taxonomies: taxonomies},
			lang.WithAliases(postAliases),
		),
		"meta",
	)
}
