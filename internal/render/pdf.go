package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Converter turns an HTML document into a PDF.
type Converter interface {
	Convert(ctx context.Context, html []byte) ([]byte, error)
}

// PageOptions controls the printed page.
type PageOptions struct {
	Size   string
	Margin string
}

// DefaultPageOptions prints on US Letter with 0.75in margins on every side.
var DefaultPageOptions = PageOptions{Size: "Letter", Margin: "0.75in"}

// Wkhtmltopdf converts by running the wkhtmltopdf command on a scratch
// file.
type Wkhtmltopdf struct {
	command string
	page    PageOptions
	dir     string
}

// NewWkhtmltopdf creates a converter. An empty command means
// "wkhtmltopdf" on PATH; empty page fields take the defaults.
func NewWkhtmltopdf(command string, page PageOptions) *Wkhtmltopdf {
	if command == "" {
		command = "wkhtmltopdf"
	}
	if page.Size == "" {
		page.Size = DefaultPageOptions.Size
	}
	if page.Margin == "" {
		page.Margin = DefaultPageOptions.Margin
	}
	return &Wkhtmltopdf{command: command, page: page, dir: os.TempDir()}
}

func (w *Wkhtmltopdf) Convert(ctx context.Context, html []byte) ([]byte, error) {
	base := filepath.Join(w.dir, "invoice-"+uuid.NewString())
	in, out := base+".html", base+".pdf"

	if err := os.WriteFile(in, html, 0o600); err != nil {
		return nil, fmt.Errorf("write scratch html: %w", err)
	}
	defer os.Remove(in)
	defer os.Remove(out)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, w.command, w.args(in, out)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", w.command, err, strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return data, nil
}

func (w *Wkhtmltopdf) args(in, out string) []string {
	return []string{
		"--quiet",
		"--page-size", w.page.Size,
		"--margin-top", w.page.Margin,
		"--margin-bottom", w.page.Margin,
		"--margin-left", w.page.Margin,
		"--margin-right", w.page.Margin,
		in, out,
	}
}
