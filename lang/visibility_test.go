package lang

import (
	"errors"
	"testing"
)

func TestVisible(t *testing.T) {
	dtag := func(tag, compare, value string) RuleCall {
		return RuleCall{"type": "dtag", "tag": tag, "compare": compare, "value": value}
	}

	tests := []struct {
		name   string
		groups [][]RuleCall
		want   bool
	}{
		{"no rules", nil, true},
		{"only empty groups", [][]RuleCall{{}, {}}, true},
		{"passing rule", [][]RuleCall{{dtag("@post(price)", "is_greater_than", "20")}}, true},
		{"failing rule", [][]RuleCall{{dtag("@post(price)", "is_less_than", "20")}}, false},
		{"and within group", [][]RuleCall{{
			dtag("@post(price)", "is_greater_than", "20"),
			dtag("@post(title)", "contains", "mars"),
		}}, false},
		{"or across groups", [][]RuleCall{
			{dtag("@post(title)", "contains", "mars")},
			{dtag("@post(title)", "contains", "world")},
		}, true},
		{"empty group skipped", [][]RuleCall{{}, {dtag("@post(empty)", "", "")}}, false},
		{"non-empty tag", [][]RuleCall{{dtag("@post(title)", "", "")}}, true},
		{"alias tag", [][]RuleCall{{dtag("@post(writer)", "is_equal_to", "ada")}}, true},
		{"unknown rule", [][]RuleCall{{{"type": "user:nope"}}}, false},
		{"missing type", [][]RuleCall{{{"value": "x"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(testScope(t), tt.groups); got != tt.want {
				t.Errorf("Visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareTag_EscapesValue(t *testing.T) {
	s := testScope(t)

	if !CompareTag(s, "@post(title).append(\\, and more)", "contains", "world, and") {
		t.Error("expected a comma in the value to be matched literally")
	}

	if CompareTag(s, "@post(title)", "is_equal_to", "Hello World)") {
		t.Error("a parenthesis in the value must not close the argument list")
	}
}

func TestEscapeArg(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a,b", `a\,b`},
		{"f(x)", `f\(x\)`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := EscapeArg(tt.in); got != tt.want {
			t.Errorf("EscapeArg(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRuleSet_Register(t *testing.T) {
	rs := DefaultRules().Clone()

	always := RuleFunc{
		RuleKey:   "always",
		RuleLabel: "Always",
		Fn:        func(*Scope, map[string]string) bool { return true },
	}

	if err := rs.Register(always); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := rs.Register(always); !errors.Is(err, ErrDuplicateRule) {
		t.Errorf("expected ErrDuplicateRule, got %v", err)
	}

	if _, ok := DefaultRules().Lookup("always"); ok {
		t.Error("clone leaked into the default rules")
	}

	s := testScope(t, WithRules(rs))
	if !Visible(s, [][]RuleCall{{{"type": "always"}}}) {
		t.Error("expected custom rule to pass")
	}

	var keys []string
	for _, r := range rs.Rules() {
		keys = append(keys, r.Key())
	}

	if len(keys) != 2 || keys[0] != "always" || keys[1] != "dtag" {
		t.Errorf("Rules() keys = %v, want [always dtag]", keys)
	}
}

func TestDynamicTagRule_Choices(t *testing.T) {
	r := DynamicTagRule()

	args := r.Arguments()
	if len(args) != 3 || args[1].Key != "compare" {
		t.Fatalf("unexpected arguments %+v", args)
	}

	for _, key := range args[1].Choices {
		m, ok := DefaultRegistry().Lookup(key)
		if !ok || m.Type() != TypeControl {
			t.Errorf("choice %q is not a registered control", key)
		}
	}
}
