// Package layout stacks widgets into a dashboard: one forward pass, one
// vertical cursor, no backtracking.
package layout

import (
	"fmt"

	"github.com/yairfalse/taulu/types"
)

// Engine assigns vertical offsets as widgets are appended. Positions are
// assigned exactly once.
type Engine struct {
	widgets []any
	y       int
}

// New creates an empty layout engine with the cursor at the top.
func New() *Engine {
	return &Engine{}
}

// Y returns the current cursor position.
func (e *Engine) Y() int {
	return e.y
}

// Add appends one widget at the cursor and advances by its height, or the
// default when it declares none.
func (e *Engine) Add(w types.Widget) {
	w.Y = e.y
	e.widgets = append(e.widgets, w)
	h := w.Height
	if h == 0 {
		h = types.DefaultWidgetHeight
	}
	e.y += h
}

// AddRow appends widgets that share one row: all pinned to the cursor,
// which advances once by the tallest of them. SLO graph/readout pairs use
// this.
func (e *Engine) AddRow(row []types.Widget) {
	maxH := 0
	for _, w := range row {
		w.Y = e.y
		e.widgets = append(e.widgets, w)
		if w.Height > maxH {
			maxH = w.Height
		}
	}
	if maxH == 0 {
		maxH = types.DefaultWidgetHeight
	}
	e.y += maxH
}

// AddDivider inserts the heading that separates aggregate SLO widgets from
// per-resource ones.
func (e *Engine) AddDivider() {
	e.Add(types.Widget{
		Type:   types.WidgetTypeText,
		X:      0,
		Width:  24,
		Height: 1,
		Properties: types.Properties{
			Markdown: "--- \n ### **Individual Resource Metrics**",
		},
	})
}

// AddCustom appends an externally supplied widget definition verbatim,
// rewriting only its vertical offset and render region.
func (e *Engine) AddCustom(def types.CustomWidget, region string) {
	def.Place(e.y, region)
	e.widgets = append(e.widgets, def)
	e.y += def.HeightOrDefault()
}

// Widgets returns the ordered widget list.
func (e *Engine) Widgets() []any {
	return e.widgets
}

// Placeholder is the single text widget written when discovery finds
// nothing for the configured tag.
func Placeholder(tagKey, tagValue string) types.Widget {
	return types.Widget{
		Type:   types.WidgetTypeText,
		X:      0,
		Y:      0,
		Width:  24,
		Height: 2,
		Properties: types.Properties{
			Markdown: fmt.Sprintf("# No resources found with tag: `%s:%s`", tagKey, tagValue),
		},
	}
}
