package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/vxs/lang"
)

// Visible evaluates visibility rule groups against the selected entities and
// prints whether the content they guard would be shown.
//
// The rule file is a YAML list of groups, each a list of rule calls:
//
//	- - type: user:logged_in
//	  - type: user:role
//	    value: customer
//	- - type: dtag
//	    tag: "@post(fields.price)"
//	    compare: is_less_than
//	    value: 30
//
// Calls within a group must all pass; any passing group makes the content
// visible.
type Visible struct {
	Request `embed:""`

	Rules string `arg:"" default:"-" help:"Rule file or '-' for stdin." name:"rules"`
}

// Run executes the visible command.
func (v *Visible) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	rules, err := v.readRules(ctx)
	if err != nil {
		return err
	}

	store, err := loadStore(ctx)
	if err != nil {
		return err
	}

	s, err := v.Scope(ctx, store)
	if err != nil {
		return err
	}

	visible := lang.Visible(s, rules)

	if _, err := fmt.Fprintln(outputFrom(ctx), visible); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (v *Visible) readRules(ctx context.Context) ([][]lang.RuleCall, error) {
	var r io.Reader

	if v.Rules == stdinSource {
		r = inputFrom(ctx)
	} else {
		file, err := os.Open(v.Rules)
		if err != nil {
			return nil, ErrReadRules.
				With(slog.String("file", v.Rules)).
				Wrap(err)
		}
		defer file.Close()

		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadRules.With(slog.String("file", v.Rules)).Wrap(err)
	}

	return DecodeRules(ctx, data)
}

// DecodeRules decodes YAML rule groups. Scalar argument values of any type
// are converted to their string form.
func DecodeRules(ctx context.Context, data []byte) ([][]lang.RuleCall, error) {
	var raw [][]map[string]any

	if err := yaml.UnmarshalContext(ctx, data, &raw); err != nil {
		return nil, ErrDecodeRules.Wrap(err)
	}

	groups := make([][]lang.RuleCall, 0, len(raw))

	for _, group := range raw {
		calls := make([]lang.RuleCall, 0, len(group))

		for _, call := range group {
			rc := make(lang.RuleCall, len(call))

			for key, val := range call {
				rc[key] = scalar(val)
			}

			calls = append(calls, rc)
		}

		groups = append(groups, calls)
	}

	return groups, nil
}

func scalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
