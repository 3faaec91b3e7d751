// Package tool implements the map tool control: an ordered set of
// interaction tools with exclusive selection, and the tools themselves
// (pan, distance measurement). Tools hold no DOM; they keep typed state
// and ask their host to repaint, so the whole interaction machine is
// testable without a browser.
package tool

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Host is the surface a tool interacts with: the owning map's display
// parameters, cursor control, and a repaint request channel. The SSE
// view layer implements it by patching overlay fragments into the page.
type Host interface {
	Scale() float64
	Unit() string
	SetCursor(name string)
	ClearCursor()
	// Repaint asks the host to re-render tool visuals from tool state.
	Repaint()
}

// Tool is one selectable map interaction mode. Lifecycle hooks mirror
// the control's management: OnAdd/OnRemove bracket membership,
// OnSelected/OnDeselected bracket exclusive selection. Deselection must
// release everything the tool acquired; no state may leak into the
// next selection.
type Tool interface {
	Name() string
	Label() string
	OnAdd(h Host)
	OnRemove()
	OnSelected()
	OnDeselected()
	OnMapClick(p orb.Point)
	OnPointerMove(p orb.Point)
}

// Control hosts an ordered list of tools with exactly one selected at a
// time. The first added tool is the default selection.
type Control struct {
	tools    []Tool
	selected int
	attached bool
}

// NewControl creates a control over the given tools in order.
func NewControl(tools ...Tool) *Control {
	return &Control{tools: tools, selected: -1}
}

// Attach adds all tools to the host and selects the first one.
func (c *Control) Attach(h Host) {
	if c.attached || len(c.tools) == 0 {
		return
	}
	for _, t := range c.tools {
		t.OnAdd(h)
	}
	c.attached = true
	c.selected = 0
	c.tools[0].OnSelected()
}

// Detach deselects the current tool and removes all tools. Safe to call
// more than once.
func (c *Control) Detach() {
	if !c.attached {
		return
	}
	if c.selected >= 0 {
		c.tools[c.selected].OnDeselected()
		c.selected = -1
	}
	for _, t := range c.tools {
		t.OnRemove()
	}
	c.attached = false
}

// Select switches the active tool by name. The previous tool's
// OnDeselected runs before the new tool's OnSelected. Selecting the
// already-active tool is a no-op.
func (c *Control) Select(name string) error {
	if !c.attached {
		return fmt.Errorf("tool control not attached")
	}
	for i, t := range c.tools {
		if t.Name() != name {
			continue
		}
		if i == c.selected {
			return nil
		}
		if c.selected >= 0 {
			c.tools[c.selected].OnDeselected()
		}
		c.selected = i
		t.OnSelected()
		return nil
	}
	return fmt.Errorf("unknown tool %q", name)
}

// Selected returns the active tool, or nil when detached.
func (c *Control) Selected() Tool {
	if c.selected < 0 {
		return nil
	}
	return c.tools[c.selected]
}

// Tools returns the tools in registration order.
func (c *Control) Tools() []Tool {
	return c.tools
}

// MapClick forwards a map click to the active tool.
func (c *Control) MapClick(p orb.Point) {
	if t := c.Selected(); t != nil {
		t.OnMapClick(p)
	}
}

// PointerMove forwards a pointer move to the active tool.
func (c *Control) PointerMove(p orb.Point) {
	if t := c.Selected(); t != nil {
		t.OnPointerMove(p)
	}
}
