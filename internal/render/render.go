// Package render writes crawl results to an io.Writer in one of the
// supported output formats, grounded on the factory-of-writers shape
// of the teacher's internal/output/manager.go, generalized from
// record-writing to validation-output-writing.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// Renderer writes a sequence of DocumentOutputs to w.
type Renderer interface {
	Render(w io.Writer, docs []model.DocumentOutput) error
}

// Format names the renderer requested on the command line.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New resolves format to its Renderer, grounded on the teacher's
// output.NewManager format switch.
func New(format Format) (Renderer, error) {
	switch format {
	case FormatText, "":
		return TextRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// TextRenderer prints a one-line summary per document, then one line
// per erroring element.
type TextRenderer struct{}

func (TextRenderer) Render(w io.Writer, docs []model.DocumentOutput) error {
	for _, doc := range docs {
		if _, err := fmt.Fprintf(w, "%s  ok=%d error=%d\n", doc.URL, doc.Metrics.Success, doc.Metrics.Error); err != nil {
			return err
		}
		for _, el := range doc.RetainErrors().Elements {
			for _, result := range el.Results {
				target, _ := el.Element.Attr("href")
				if target == "" {
					target, _ = el.Element.Attr("src")
				}
				if _, err := fmt.Fprintf(w, "  %s <%s> %s: %s\n", result.Err.Kind, el.Element.Tag, target, result.Err.Message); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// JSONRenderer writes the full DocumentOutput slice as pretty-printed
// JSON.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, docs []model.DocumentOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
