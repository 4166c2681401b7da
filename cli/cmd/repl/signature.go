package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/vxs/lang"
)

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// getSignature returns the signature of the modifier registered under key
// and its parameter names. Optional parameters are bracketed and list-valued
// trailing parameters are marked variadic.
func getSignature(r *lang.Registry, key string) (signature string, params []string) {
	if r == nil {
		return "", nil
	}

	m, ok := r.Lookup(key)
	if !ok {
		return "", nil
	}

	for _, arg := range m.Arguments() {
		params = append(params, paramName(arg))
	}

	return key + "(" + strings.Join(params, ", ") + ")", params
}

func paramName(arg lang.Argument) string {
	name := arg.Key

	if arg.Type == "list" {
		name = "..." + name
	}

	if arg.Default != "" {
		name += "=" + arg.Default
	}

	return name
}

// renderSignatureHint renders the modifier signature with the current
// parameter highlighted, followed by the modifier's label.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
	label string,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	name := signature[:openParen]

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// Variadic parameters stay highlighted for every trailing argument.
		isVariadic := strings.HasPrefix(param, "...")

		if (isVariadic && currentArgIdx >= i) || (!isVariadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if label != "" {
		b.WriteString(signatureStyle.Render("  " + label))
	}

	return b.String()
}
