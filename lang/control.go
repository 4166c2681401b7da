package lang

import (
	"strings"
)

// condition tests the current value.
type condition struct {
	base

	test func(st *State) bool
}

func (condition) Type() ModifierType { return TypeControl }

func (c condition) Passes(_ bool, st *State) bool { return c.test(st) }

// branch outputs its argument when pass(last) holds.
type branch struct {
	base

	pass func(last bool) bool
}

func (branch) Type() ModifierType { return TypeControl }

func (b branch) Passes(last bool, _ *State) bool { return b.pass(last) }

func (branch) branch() {}

// joiner combines the previous condition with the next one.
type joiner struct {
	base

	join func(last, next bool) bool
}

func (joiner) Type() ModifierType { return TypeControl }

func (joiner) Passes(last bool, _ *State) bool { return last }

func (j joiner) Join(last, next bool) bool { return j.join(last, next) }

var (
	valueArg = Argument{Key: "value", Label: "Value", Type: "text"}
	textArg  = Argument{Key: "text", Label: "Text", Type: "text"}
)

// controls returns the builtin control structures.
func controls() []Modifier {
	return []Modifier{
		condition{
			base: base{key: "is_empty", label: "Is empty"},
			test: func(st *State) bool { return subjectEmpty(st) },
		},
		condition{
			base: base{key: "is_not_empty", label: "Is not empty"},
			test: func(st *State) bool { return !subjectEmpty(st) },
		},
		condition{
			base: base{key: "is_equal_to", label: "Is equal to", args: []Argument{valueArg}},
			test: func(st *State) bool {
				return equalValues(st.Scope, subject(st), st.Arg(0))
			},
		},
		condition{
			base: base{key: "is_not_equal_to", label: "Is not equal to", args: []Argument{valueArg}},
			test: func(st *State) bool {
				return !equalValues(st.Scope, subject(st), st.Arg(0))
			},
		},
		condition{
			base: base{key: "is_greater_than", label: "Is greater than", args: []Argument{valueArg}},
			test: ordered(func(c int) bool { return c > 0 }),
		},
		condition{
			base: base{
				key:   "is_greater_than_or_equal",
				label: "Is greater than or equal to",
				args:  []Argument{valueArg},
			},
			test: ordered(func(c int) bool { return c >= 0 }),
		},
		condition{
			base: base{key: "is_less_than", label: "Is less than", args: []Argument{valueArg}},
			test: ordered(func(c int) bool { return c < 0 }),
		},
		condition{
			base: base{
				key:   "is_less_than_or_equal",
				label: "Is less than or equal to",
				args:  []Argument{valueArg},
			},
			test: ordered(func(c int) bool { return c <= 0 }),
		},
		condition{
			base: base{
				key:   "is_between",
				label: "Is between",
				args: []Argument{
					{Key: "min", Label: "Min", Type: "text"},
					{Key: "max", Label: "Max", Type: "text"},
				},
			},
			test: func(st *State) bool {
				lo, ok := compareValues(st.Scope, subject(st), st.Arg(0))
				if !ok || lo < 0 {
					return false
				}

				hi, ok := compareValues(st.Scope, subject(st), st.Arg(1))

				return ok && hi <= 0
			},
		},
		condition{
			base: base{key: "contains", label: "Contains", args: []Argument{valueArg}},
			test: func(st *State) bool { return contains(st) },
		},
		condition{
			base: base{key: "does_not_contain", label: "Does not contain", args: []Argument{valueArg}},
			test: func(st *State) bool { return !contains(st) },
		},
		condition{
			base: base{key: "is_checked", label: "Is checked"},
			test: func(st *State) bool { return isTruthy(st.Scope, subject(st)) },
		},
		condition{
			base: base{key: "is_unchecked", label: "Is unchecked"},
			test: func(st *State) bool { return !isTruthy(st.Scope, subject(st)) },
		},
		branch{
			base: base{key: "then", label: "Then", args: []Argument{textArg}},
			pass: func(last bool) bool { return last },
		},
		branch{
			base: base{key: "else", label: "Else", args: []Argument{textArg}},
			pass: func(last bool) bool { return !last },
		},
		joiner{
			base: base{key: "and", label: "And"},
			join: func(last, next bool) bool { return last && next },
		},
		joiner{
			base: base{key: "or", label: "Or"},
			join: func(last, next bool) bool { return last || next },
		},
	}
}

// subject returns the value conditions test. A bare object list stands for
// its item count.
func subject(st *State) any {
	if st.Value == nil {
		if l, ok := st.Result.Node.(*ObjectList); ok && st.Result.Found {
			return l.Len(st.Scope)
		}
	}

	return st.Value
}

func subjectEmpty(st *State) bool {
	if st.Value == nil {
		switch n := st.Result.Node.(type) {
		case *ObjectList:
			return n.Len(st.Scope) == 0
		case *Object:
			return !st.Result.Found || len(n.Properties(st.Scope)) == 0
		}
	}

	return isEmpty(st.Scope, st.Value)
}

// ordered builds a comparison test against the first argument. Operands
// that are neither numbers nor dates fail the test.
func ordered(accept func(c int) bool) func(st *State) bool {
	return func(st *State) bool {
		c, ok := compareValues(st.Scope, subject(st), st.Arg(0))

		return ok && accept(c)
	}
}

// contains performs a case-insensitive substring test.
func contains(st *State) bool {
	needle := strings.ToLower(st.Arg(0))
	hay := strings.ToLower(Stringify(st.Scope, subject(st)))

	return strings.Contains(hay, needle)
}
