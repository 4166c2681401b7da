package repl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/vxs/log"
)

const defaultEditor = "vi"

// editTemplateCommand implements [tea.ExecCommand]. It writes the template to
// a temp file, opens the user's editor and reads back the result. An empty
// result cancels the edit.
type editTemplateCommand struct {
	template string
	edited   string
	ctxFunc  func() context.Context
	logger   log.Logger
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editTemplateCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editTemplateCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editTemplateCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens the editor on the template.
func (c *editTemplateCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), "vxs-repl-*.vxs")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	if _, err := f.WriteString(c.template); err != nil {
		f.Close()

		return err
	}

	f.Close()

	if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
		return err
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return err
	}

	// Editors append a final newline the template does not carry.
	c.edited = strings.TrimRight(string(data), "\r\n")

	c.logger.TraceContext(
		ctx,
		"editor template",
		slog.Int("content_length", len(c.edited)),
		slog.Bool("changed", c.edited != c.template),
	)

	return nil
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
