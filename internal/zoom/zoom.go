// Package zoom turns a pointer drag over the chart's time axis into a
// committed index range over the live window.
//
// The drag is tracked by category label, as reported by the chart hit test,
// and only resolved to indices on release. Labels are matched first-wins, so
// duplicate labels resolve to their earliest occurrence.
package zoom

import (
	"errors"
)

// Release outcomes that leave the view unchanged.
var (
	ErrNoDrag     = errors.New("no drag in progress")
	ErrUnresolved = errors.New("drag endpoint not on the current axis")
	ErrZeroWidth  = errors.New("drag covers a single category")
)

// Range is an inclusive index range over the live window with Start <= End.
type Range struct {
	Start int
	End   int
}

// Len returns the number of categories covered.
func (r Range) Len() int { return r.End - r.Start + 1 }

// Drag is the transient gesture state between press and release.
type Drag struct {
	Anchor string
	Cursor string
	Active bool
}

// Controller owns the selection, the drag and the presentational zoomed
// flag. The flag only changes the layout; the view is narrowed by the
// selection alone, so the two can disagree after Toggle.
type Controller struct {
	sel    Range
	hasSel bool
	zoomed bool
	drag   Drag
}

// PointerDown starts a drag at label. An empty label (pointer outside the
// plot) is ignored.
func (c *Controller) PointerDown(label string) {
	if label == "" {
		return
	}
	c.drag = Drag{Anchor: label, Active: true}
}

// PointerMove tracks the cursor while a drag is active.
func (c *Controller) PointerMove(label string) {
	if !c.drag.Active || label == "" {
		return
	}
	c.drag.Cursor = label
}

// PointerUp ends the drag and, when both endpoints resolve against labels
// to distinct indices, commits the range between them and sets the zoomed
// flag. The drag is cleared whatever the outcome.
func (c *Controller) PointerUp(labels []string) (Range, error) {
	d := c.drag
	c.drag = Drag{}

	if !d.Active || d.Anchor == "" || d.Cursor == "" {
		return Range{}, ErrNoDrag
	}
	start := IndexOf(labels, d.Anchor)
	end := IndexOf(labels, d.Cursor)
	if start < 0 || end < 0 {
		return Range{}, ErrUnresolved
	}
	if start == end {
		return Range{}, ErrZeroWidth
	}
	if start > end {
		start, end = end, start
	}

	c.sel = Range{Start: start, End: end}
	c.hasSel = true
	c.zoomed = true
	return c.sel, nil
}

// Toggle clears an existing selection (and the flag); without a selection
// it flips the zoomed flag only.
func (c *Controller) Toggle() {
	if c.hasSel {
		c.sel, c.hasSel = Range{}, false
		c.zoomed = false
		return
	}
	c.zoomed = !c.zoomed
}

// Clear drops the selection, the flag and any drag in progress.
func (c *Controller) Clear() {
	*c = Controller{}
}

// Selection returns the committed range, if any.
func (c *Controller) Selection() (Range, bool) { return c.sel, c.hasSel }

// Drag returns the gesture in progress.
func (c *Controller) Drag() Drag { return c.drag }

// Zoomed reports the presentational zoomed flag.
func (c *Controller) Zoomed() bool { return c.zoomed }

// Slice returns items[r.Start..r.End] inclusive, clamped to the slice.
// Without a selection it returns items unchanged.
func Slice[T any](items []T, r Range, ok bool) []T {
	if !ok {
		return items
	}
	start, end := max(r.Start, 0), min(r.End, len(items)-1)
	if start > end {
		return nil
	}
	return items[start : end+1]
}

// IndexOf returns the first index whose label equals label, or -1.
func IndexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
