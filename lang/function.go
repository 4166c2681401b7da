package lang

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// function is a [Function] backed by a plain func.
type function struct {
	base

	apply func(st *State) any
}

func (function) Type() ModifierType { return TypeFunction }

func (f function) Apply(st *State) any { return f.apply(st) }

// functions returns the builtin formatting functions.
func functions() []Modifier {
	return []Modifier{
		function{
			base:  base{key: "fallback", label: "Fallback", args: []Argument{textArg}},
			apply: fallback,
		},
		function{
			base: base{key: "append", label: "Append text", args: []Argument{textArg}},
			apply: func(st *State) any {
				return Stringify(st.Scope, st.Value) + st.Arg(0)
			},
		},
		function{
			base: base{key: "prepend", label: "Prepend text", args: []Argument{textArg}},
			apply: func(st *State) any {
				return st.Arg(0) + Stringify(st.Scope, st.Value)
			},
		},
		function{
			base:  base{key: "capitalize", label: "Capitalize"},
			apply: capitalize,
		},
		function{
			base: base{key: "uppercase", label: "Uppercase"},
			apply: func(st *State) any {
				return cases.Upper(localeTag(st.Scope)).String(Stringify(st.Scope, st.Value))
			},
		},
		function{
			base: base{key: "lowercase", label: "Lowercase"},
			apply: func(st *State) any {
				return cases.Lower(localeTag(st.Scope)).String(Stringify(st.Scope, st.Value))
			},
		},
		function{
			base: base{
				key:   "truncate",
				label: "Truncate text",
				args: []Argument{
					{Key: "length", Label: "Max length", Type: "number"},
					{Key: "ellipsis", Label: "Ellipsis", Type: "text", Default: "..."},
				},
			},
			apply: truncate,
		},
		function{
			base: base{
				key:   "replace",
				label: "Replace text",
				args: []Argument{
					{Key: "search", Label: "Search", Type: "text"},
					{Key: "replace", Label: "Replace with", Type: "text"},
				},
			},
			apply: func(st *State) any {
				text := Stringify(st.Scope, st.Value)
				if st.Arg(0) == "" {
					return text
				}

				return strings.ReplaceAll(text, st.Arg(0), st.Arg(1))
			},
		},
		function{
			base: base{key: "abs", label: "Absolute value"},
			apply: func(st *State) any {
				f, ok := toFloat(st.Value)
				if !ok {
					return st.Value
				}

				return math.Abs(f)
			},
		},
		function{
			base: base{
				key:   "round",
				label: "Round number",
				args:  []Argument{{Key: "decimals", Label: "Decimals", Type: "number", Default: "0"}},
			},
			apply: round,
		},
		function{
			base: base{
				key:   "number_format",
				label: "Format number",
				args:  []Argument{{Key: "decimals", Label: "Decimals", Type: "number", Default: "0"}},
			},
			apply: numberFormat,
		},
		function{
			base: base{
				key:   "currency_format",
				label: "Currency format",
				args: []Argument{
					{
						Key: "currency", Label: "Currency", Type: "text", Default: "USD",
						Choices: []string{"AUD", "CAD", "CHF", "EUR", "GBP", "JPY", "USD"},
					},
				},
			},
			apply: currencyFormat,
		},
		function{
			base: base{
				key:   "date_format",
				label: "Date format",
				args: []Argument{
					{
						Key:         "format",
						Label:       "Format",
						Type:        "text",
						Default:     "F j, Y",
						Description: "PHP date format characters",
					},
				},
			},
			apply: dateFormat,
		},
		function{
			base: base{key: "time_diff", label: "Time difference"},
			apply: func(st *State) any {
				t, ok := toTime(st.Scope, st.Value)
				if !ok {
					return nil
				}

				return TimeDiff(t, st.Scope.Now())
			},
		},
		function{
			base: base{key: "to_age", label: "Age in years"},
			apply: func(st *State) any {
				t, ok := toTime(st.Scope, st.Value)
				if !ok {
					return nil
				}

				return Age(t, st.Scope.Now())
			},
		},
		function{
			base: base{
				key:   "list",
				label: "List all items",
				args: []Argument{
					{Key: "separator", Label: "Separator", Type: "text", Default: ", "},
					{Key: "last_separator", Label: "Last separator", Type: "text"},
				},
			},
			apply: joinList,
		},
		function{
			base:  base{key: "count", label: "Count items"},
			apply: count,
		},
		function{
			base: base{key: "first", label: "First item"},
			apply: func(st *State) any {
				return nth(st, 0)
			},
		},
		function{
			base: base{key: "last", label: "Last item"},
			apply: func(st *State) any {
				return nth(st, -1)
			},
		},
		function{
			base: base{
				key:   "nth",
				label: "Nth item",
				args:  []Argument{{Key: "n", Label: "Position (from 1)", Type: "number", Default: "1"}},
			},
			apply: func(st *State) any {
				n, err := strconv.Atoi(strings.TrimSpace(st.ArgOr(0, "1")))
				if err != nil || n < 1 {
					return nil
				}

				return nth(st, n-1)
			},
		},
		function{
			base: base{key: "urlencode", label: "URL encode"},
			apply: func(st *State) any {
				return url.QueryEscape(Stringify(st.Scope, st.Value))
			},
		},
	}
}

func fallback(st *State) any {
	if subjectEmpty(st) {
		return st.Arg(0)
	}

	return st.Value
}

func capitalize(st *State) any {
	text := Stringify(st.Scope, st.Value)

	r, size := utf8.DecodeRuneInString(text)
	if size == 0 {
		return text
	}

	return cases.Upper(localeTag(st.Scope)).String(string(r)) + text[size:]
}

func truncate(st *State) any {
	text := Stringify(st.Scope, st.Value)

	n, err := strconv.Atoi(strings.TrimSpace(st.Arg(0)))
	if err != nil || n < 0 || utf8.RuneCountInString(text) <= n {
		return text
	}

	ellipsis := "..."
	if st.NumArgs() > 1 {
		ellipsis = st.Arg(1)
	}

	runes := []rune(text)

	return strings.TrimRightFunc(string(runes[:n]), isSpace) + ellipsis
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }

// maxRoundDigits bounds the decimals argument of round.
const maxRoundDigits = 15

func round(st *State) any {
	f, ok := toFloat(st.Value)
	if !ok {
		return st.Value
	}

	d, err := strconv.Atoi(strings.TrimSpace(st.ArgOr(0, "0")))
	if err != nil {
		d = 0
	}

	// Beyond float64 precision 10^d overflows to +Inf or underflows to 0.
	d = min(max(d, -maxRoundDigits), maxRoundDigits)
	p := math.Pow10(d)

	return math.Round(f*p) / p
}

func numberFormat(st *State) any {
	f, ok := toFloat(st.Value)
	if !ok {
		return st.Value
	}

	d, err := strconv.Atoi(strings.TrimSpace(st.ArgOr(0, "0")))
	if err != nil || d < 0 {
		d = 0
	}

	p := message.NewPrinter(localeTag(st.Scope))

	return p.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(d),
		number.MaxFractionDigits(d),
	))
}

func currencyFormat(st *State) any {
	f, ok := toFloat(st.Value)
	if !ok {
		return st.Value
	}

	code := strings.ToUpper(strings.TrimSpace(st.ArgOr(0, "USD")))

	cur, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + strconv.FormatFloat(f, 'f', 2, 64)
	}

	p := message.NewPrinter(localeTag(st.Scope))

	return tightSymbol(p.Sprintf("%v", currency.Symbol(cur.Amount(f))))
}

// tightSymbol removes the space the currency formatter puts between a
// non-alphabetic symbol and the amount, so "$ 5.00" becomes "$5.00" while
// "CHF 5.00" is kept.
func tightSymbol(text string) string {
	sym, amount, ok := strings.Cut(text, " ")
	if !ok || sym == "" {
		return text
	}

	if r, _ := utf8.DecodeLastRuneInString(sym); unicode.IsLetter(r) {
		return text
	}

	return sym + amount
}

func dateFormat(st *State) any {
	t, ok := toTime(st.Scope, st.Value)
	if !ok {
		return nil
	}

	return FormatDate(t, st.ArgOr(0, "F j, Y"), st.Scope.Locale())
}

// listValues resolves the part of the path below the innermost object list
// once for every item of that list.
func listValues(st *State) ([]any, bool) {
	list, rest := st.Result.List, st.Result.Rest
	if list == nil {
		return nil, false
	}

	var out []any

	_ = Loop(st.Scope, list, func(int) error {
		if len(rest) == 0 {
			out = append(out, nil)

			return nil
		}

		out = append(out, resolvePath(st.Scope, list, rest).Value)

		return nil
	})

	return out, true
}

func joinList(st *State) any {
	values, ok := listValues(st)
	if !ok {
		return st.Value
	}

	parts := make([]string, 0, len(values))

	for _, v := range values {
		if text := Stringify(st.Scope, v); text != "" {
			parts = append(parts, text)
		}
	}

	sep := ", "
	if st.NumArgs() > 0 {
		sep = st.Arg(0)
	}

	last := sep
	if st.NumArgs() > 1 {
		last = st.Arg(1)
	}

	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}

	return strings.Join(parts[:len(parts)-1], sep) + last + parts[len(parts)-1]
}

func count(st *State) any {
	if values, ok := listValues(st); ok {
		return len(values)
	}

	if subjectEmpty(st) {
		return 0
	}

	return 1
}

// nth returns the list value at index i; negative i counts from the end.
func nth(st *State, i int) any {
	values, ok := listValues(st)
	if !ok {
		if i == 0 || i == -1 {
			return st.Value
		}

		return nil
	}

	if i < 0 {
		i += len(values)
	}

	if i < 0 || i >= len(values) {
		return nil
	}

	return values[i]
}

// localeTag parses the scope locale, defaulting to American English.
func localeTag(s *Scope) language.Tag {
	tag, err := language.Parse(s.Locale())
	if err != nil {
		return language.AmericanEnglish
	}

	return tag
}
