package groups

import (
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/vxs/lang"
)

// Rules returns the builtin visibility rules extended with the rules that
// inspect the groups registered by [Bind].
var Rules = sync.OnceValue(func() *lang.RuleSet {
	rs := lang.DefaultRules().Clone()

	for _, r := range []lang.Rule{
		lang.RuleFunc{
			RuleKey:   "user:logged_in",
			RuleLabel: "User is logged in",
			Fn: func(s *lang.Scope, _ map[string]string) bool {
				return loggedIn(s)
			},
		},
		lang.RuleFunc{
			RuleKey:   "user:logged_out",
			RuleLabel: "User is logged out",
			Fn: func(s *lang.Scope, _ map[string]string) bool {
				return !loggedIn(s)
			},
		},
		lang.RuleFunc{
			RuleKey:   "user:role",
			RuleLabel: "User role is",
			Args:      []lang.Argument{{Key: "value", Label: "Role", Type: "text"}},
			Fn: func(s *lang.Scope, args map[string]string) bool {
				return slices.Contains(roles(s), strings.TrimSpace(args["value"]))
			},
		},
		lang.RuleFunc{
			RuleKey:   "post:type",
			RuleLabel: "Post type is",
			Args:      []lang.Argument{{Key: "value", Label: "Post type", Type: "text"}},
			Fn: func(s *lang.Scope, args map[string]string) bool {
				g, ok := s.Group("post")
				if !ok {
					return false
				}

				res := g.ResolveString(s, "type")

				return res.Found && lang.Stringify(s, res.Value) == strings.TrimSpace(args["value"])
			},
		},
		lang.RuleFunc{
			RuleKey:   "template:query_var",
			RuleLabel: "Query variable",
			Args: []lang.Argument{
				{Key: "key", Label: "Variable name", Type: "text"},
				{Key: "compare", Label: "Comparison", Type: "text"},
				{Key: "value", Label: "Value", Type: "text"},
			},
			Fn: func(s *lang.Scope, args map[string]string) bool {
				if _, ok := s.Group("site"); !ok {
					return false
				}

				tag := "@site().query_var(" + lang.EscapeArg(args["key"]) + ")"

				return lang.CompareTag(s, tag, args["compare"], args["value"])
			},
		},
	} {
		if err := rs.Register(r); err != nil {
			panic(err)
		}
	}

	return rs
})

func loggedIn(s *lang.Scope) bool {
	g, ok := s.Group("user")
	if !ok {
		return false
	}

	res := g.ResolveString(s, "id")
	id, _ := res.Value.(int64)

	return res.Found && id != 0
}

// roles returns the role keys of the current user.
func roles(s *lang.Scope) []string {
	g, ok := s.Group("user")
	if !ok {
		return nil
	}

	list, ok := g.ResolveString(s, "roles").Node.(*lang.ObjectList)
	if !ok {
		return nil
	}

	var keys []string

	_ = lang.Loop(s, list, func(int) error {
		if v, ok := list.Properties(s)["key"].(*lang.Value); ok {
			keys = append(keys, lang.Stringify(s, v.Get(s)))
		}

		return nil
	})

	return keys
}
