package groups

import (
	"strings"

	"github.com/ardnew/vxs/lang"
)

// statusEntity provides the properties of one timeline status. A nil status
// has no properties.
type statusEntity struct {
	store  *Store
	status *Status
}

func (e statusEntity) Properties(s *lang.Scope) lang.Properties {
	st := e.status
	if st == nil {
		return nil
	}

	return lang.Properties{
		"id":      integer("ID", st.ID),
		"content": text("Content", st.Content),
		"created": date("Created", st.Created),
		"likes":   integer("Like count", st.Likes),
		"replies": integer("Reply count", st.Replies),
		"link": link("Link", strings.TrimSuffix(e.store.Site.URL, "/")+
			"/timeline/?status_id="+itoa(st.ID)),
		"author": userObject(s, e.store, st.Author, "Author"),
		"post":   postObject(s, e.store, st.Post, "Post"),
	}
}

func statusGroup(store *Store, st *Status) *lang.Group {
	return lang.NewGroup("status",
		lang.NewObject("Status", statusEntity{store: store, status: st}),
	)
}
