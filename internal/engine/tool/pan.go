package tool

import "github.com/paulmach/orb"

// Pan is the default tool. It is stateless: dragging is native map
// behavior, so clicks and moves are ignored.
type Pan struct {
	host Host
}

// NewPan creates the pan tool.
func NewPan() *Pan {
	return &Pan{}
}

func (t *Pan) Name() string  { return "pan" }
func (t *Pan) Label() string { return "Pan" }

func (t *Pan) OnAdd(h Host) { t.host = h }
func (t *Pan) OnRemove()    { t.host = nil }

func (t *Pan) OnSelected()   {}
func (t *Pan) OnDeselected() {}

func (t *Pan) OnMapClick(orb.Point)    {}
func (t *Pan) OnPointerMove(orb.Point) {}
