// Package alfred renders results in the launcher's script filter JSON
// format: {"items": [{"title", "subtitle", "arg", "icon"}, ...]}.
package alfred

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tsconv/internal/model"
	"tsconv/internal/workflow"
)

// Icons holds icon paths for each item category. A path ending in ".app"
// is shown with the application's own file icon.
type Icons struct {
	Clock    string
	Calendar string
	Error    string
}

type Icon struct {
	Type string `json:"type,omitempty"`
	Path string `json:"path"`
}

type Item struct {
	UID      string `json:"uid,omitempty"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Arg      string `json:"arg,omitempty"`
	Valid    bool   `json:"valid"`
	Icon     *Icon  `json:"icon,omitempty"`
}

// Output is the top-level script filter document.
type Output struct {
	Items []Item `json:"items"`
}

// FromResponse turns a workflow response into script filter items. A parse
// failure becomes a single, non-actionable error item.
func FromResponse(resp workflow.Response, icons Icons) Output {
	if resp.Err != nil {
		return Output{Items: []Item{{
			Title:    "Error",
			Subtitle: fmt.Sprintf("Failed to parse '%s' to a date", resp.Input),
			Valid:    false,
			Icon:     icon(icons.Error),
		}}}
	}

	items := make([]Item, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		items = append(items, Item{
			Title:    c.Title,
			Subtitle: c.Label,
			Arg:      c.Value,
			Valid:    true,
			Icon:     icon(iconFor(c.Kind, icons)),
		})
	}
	return Output{Items: items}
}

// Write encodes out as JSON followed by a newline.
func Write(w io.Writer, out Output) error {
	if out.Items == nil {
		out.Items = []Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("alfred: encode items: %w", err)
	}
	return nil
}

func iconFor(kind model.Kind, icons Icons) string {
	if kind.Epoch() || kind == model.KindRelative {
		return icons.Clock
	}
	return icons.Calendar
}

func icon(path string) *Icon {
	if path == "" {
		return nil
	}
	if strings.HasSuffix(strings.TrimSuffix(path, "/"), ".app") {
		return &Icon{Type: "fileicon", Path: path}
	}
	return &Icon{Path: path}
}
