package groups

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/vxs/lang"
)

func text(label, v string, opts ...lang.NodeOption) *lang.Value {
	return lang.String(label, func(*lang.Scope) string { return v }, opts...)
}

func link(label, v string, opts ...lang.NodeOption) *lang.Value {
	return lang.URL(label, func(*lang.Scope) string { return v }, opts...)
}

func integer(label string, v int64, opts ...lang.NodeOption) *lang.Value {
	return lang.Int(label, func(*lang.Scope) int64 { return v }, opts...)
}

func number(label string, v float64, opts ...lang.NodeOption) *lang.Value {
	return lang.Number(label, func(*lang.Scope) float64 { return v }, opts...)
}

func date(label string, v time.Time, opts ...lang.NodeOption) *lang.Value {
	return lang.Date(label, func(*lang.Scope) time.Time { return v }, opts...)
}

// empty is the provider of a reference whose target does not exist.
var empty = lang.ProviderFunc(func(*lang.Scope) lang.Properties { return nil })

// labelOf turns a key such as "in_stock" into "In stock".
func labelOf(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	if len(words) == 0 {
		return key
	}

	words[0] = cases.Title(language.Und).String(words[0])

	return strings.Join(words, " ")
}

// fieldProperties exposes free-form fixture data as properties, choosing the
// node kind from the decoded value.
func fieldProperties(fields map[string]any) lang.Properties {
	props := make(lang.Properties, len(fields))

	for key, v := range fields {
		props[key] = fieldNode(labelOf(key), v)
	}

	return props
}

func fieldNode(label string, v any) lang.Node {
	switch val := v.(type) {
	case string:
		return text(label, val)
	case bool:
		return lang.Bool(label, func(*lang.Scope) bool { return val })
	case int:
		return integer(label, int64(val))
	case int64:
		return integer(label, val)
	case uint64:
		return integer(label, int64(val))
	case float64:
		return number(label, val)
	case time.Time:
		return date(label, val)
	case map[string]any:
		return lang.NewObject(label, lang.ProviderFunc(func(*lang.Scope) lang.Properties {
			return fieldProperties(val)
		}))
	case []any:
		return fieldList(label, val)
	default:
		return text(label, fmt.Sprint(val))
	}
}

// fieldList exposes a sequence as an object list. Scalar elements become
// items with a single "value" property.
func fieldList(label string, items []any) *lang.ObjectList {
	return lang.NewObjectList(label, lang.ListerFunc(func(*lang.Scope) []lang.Provider {
		out := make([]lang.Provider, 0, len(items))

		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				m = map[string]any{"value": item}
			}

			out = append(out, lang.ProviderFunc(func(*lang.Scope) lang.Properties {
				return fieldProperties(m)
			}))
		}

		return out
	}))
}

// metaValue looks up key in m. Dotted keys descend into nested maps.
func metaValue(m map[string]any, key string) (any, bool) {
	var cur any = m

	for seg := range strings.SplitSeq(key, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}

			cur = v

		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}

			cur = node[i]

		default:
			return nil, false
		}
	}

	return cur, true
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
