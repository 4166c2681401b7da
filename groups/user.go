package groups

import (
	"cmp"
	"strings"

	"github.com/ardnew/vxs/lang"
)

// userEntity provides the properties of one user. A nil user has no
// properties.
type userEntity struct {
	store *Store
	user  *User
}

func (e userEntity) Properties(*lang.Scope) lang.Properties {
	u := e.user
	if u == nil {
		return nil
	}

	profile := u.URL
	if profile == "" && u.Username != "" {
		profile = strings.TrimSuffix(e.store.Site.URL, "/") + "/members/" + u.Username
	}

	return lang.Properties{
		"id":           integer("ID", u.ID),
		"username":     text("Username", u.Username),
		"display_name": text("Display name", cmp.Or(u.DisplayName, u.Username)),
		"first_name":   text("First name", u.FirstName),
		"last_name":    text("Last name", u.LastName),
		"email":        lang.Email("Email", func(*lang.Scope) string { return u.Email }),
		"url":          link("Profile URL", profile),
		"avatar":       link("Avatar", u.Avatar),
		"bio":          text("Bio", u.Bio),
		"registered":   date("Registration date", u.Registered),
		"birthday":     date("Birthday", u.Birthday),
		"post_count":   integer("Post count", int64(e.store.CountAuthorPosts(u.ID))),
		"roles": lang.NewObjectList("Roles",
			lang.ListerFunc(func(*lang.Scope) []lang.Provider {
				out := make([]lang.Provider, 0, len(u.Roles))
				for _, r := range u.Roles {
					out = append(out, roleEntity(r))
				}

				return out
			}),
			lang.WithTemplate(roleEntity("")),
		),
	}
}

// Meta implements [lang.MetaProvider].
func (e userEntity) Meta(_ *lang.Scope, key string) (any, bool) {
	if e.user == nil {
		return nil, false
	}

	return metaValue(e.user.Meta, key)
}

// roleEntity provides the properties of one role of a user.
type roleEntity string

func (r roleEntity) Properties(*lang.Scope) lang.Properties {
	return lang.Properties{
		"key":   text("Key", string(r)),
		"label": text("Label", labelOf(string(r))),
	}
}

var userAliases = map[string]string{
	"name": "display_name",
	"role": "roles.label",
}

// userObject returns the object node of user id, or of an empty entity if no
// such user exists.
func userObject(s *lang.Scope, store *Store, uid int64, label string) *lang.Object {
	return lang.Instance(s, "user:"+itoa(uid)+":"+label, func() *lang.Object {
		u, _ := store.User(uid)

		return lang.NewObject(label, userEntity{store: store, user: u},
			lang.WithExports("user"),
			lang.WithAliases(userAliases),
		)
	})
}

func userGroup(key, label string, store *Store, u *User) *lang.Group {
	return lang.NewGroup(key,
		lang.NewObject(label, userEntity{store: store, user: u},
			lang.WithAliases(userAliases),
		),
		"meta",
	)
}
