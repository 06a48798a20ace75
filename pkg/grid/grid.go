// Package grid composes the card interaction model for a list of items.
//
// A [Grid] owns the selection machine and the per-card tilt styles. Hosts
// translate their input events into the four handlers ([Grid.Click],
// [Grid.Dismiss], [Grid.PointerMove], [Grid.PointerLeave]) and read back
// [Grid.Cards] to draw. The grid performs no I/O.
package grid

import (
	"github.com/matzehuels/setlist/pkg/catalog"
	"github.com/matzehuels/setlist/pkg/layering"
	"github.com/matzehuels/setlist/pkg/selection"
	"github.com/matzehuels/setlist/pkg/tilt"
)

// Card is everything needed to draw one item.
type Card struct {
	Item    catalog.Item
	Style   tilt.Style
	Layer   layering.Layer
	Flipped bool
}

// Grid is the interaction state of one rendered collection. It is not safe
// for concurrent use.
type Grid struct {
	items   []catalog.Item
	ids     []string
	machine *selection.Machine
	styles  map[string]tilt.Style
	layers  map[string]layering.Layer
}

// New returns a grid over items in the Idle state.
func New(items []catalog.Item) *Grid {
	g := &Grid{
		machine: selection.NewMachine(),
		styles:  make(map[string]tilt.Style),
	}
	g.SetItems(items)
	return g
}

// SetItems replaces the displayed items. The selection is kept unless the
// selected item is no longer present, in which case it is dismissed.
// Styles of items that remain are kept.
func (g *Grid) SetItems(items []catalog.Item) {
	g.items = append([]catalog.Item(nil), items...)
	g.ids = make([]string, len(items))
	for i, it := range items {
		g.ids[i] = it.ID()
	}
	if id, ok := g.machine.State().ActiveID(); ok && !g.has(id) {
		g.machine.Dispatch(selection.Dismiss{})
	}
	g.relayer()
}

// Items returns the displayed items in order.
func (g *Grid) Items() []catalog.Item { return g.items }

// Len returns the number of items.
func (g *Grid) Len() int { return len(g.items) }

// OnTransition forwards selection changes to fn.
func (g *Grid) OnTransition(fn func(from, to selection.State, e selection.Event)) {
	g.machine.OnTransition(fn)
}

// Click handles a click on the card with the given id.
func (g *Grid) Click(id string) selection.State {
	return g.dispatch(selection.Click{ID: id})
}

// Dismiss handles a click on the dismiss overlay.
func (g *Grid) Dismiss() selection.State {
	return g.dispatch(selection.Dismiss{})
}

func (g *Grid) dispatch(e selection.Event) selection.State {
	s := g.machine.Dispatch(e)
	g.relayer()
	return s
}

// relayer recomputes the layers of every card; elevation is a property of
// the whole grid.
func (g *Grid) relayer() {
	g.layers = layering.Derive(g.machine.State(), g.ids)
}

// PointerMove records a new pointer sample for id, replacing its style.
func (g *Grid) PointerMove(id string, s tilt.Sample) tilt.Style {
	style := tilt.Compute(s)
	g.styles[id] = style
	return style
}

// PointerLeave resets the style of id to the neutral pose.
func (g *Grid) PointerLeave(id string) tilt.Style {
	style := tilt.Neutral()
	g.styles[id] = style
	return style
}

// State returns the current selection.
func (g *Grid) State() selection.State { return g.machine.State() }

// OverlayVisible reports whether the dismiss overlay is shown.
func (g *Grid) OverlayVisible() bool { return !g.machine.State().IsIdle() }

// Style returns the current style of id. Cards that never saw a pointer
// are neutral.
func (g *Grid) Style(id string) tilt.Style {
	if s, ok := g.styles[id]; ok {
		return s
	}
	return tilt.Neutral()
}

// Layers returns the layer of every card.
func (g *Grid) Layers() map[string]layering.Layer {
	out := make(map[string]layering.Layer, len(g.layers))
	for id, l := range g.layers {
		out[id] = l
	}
	return out
}

// Cards returns the drawable state of every item, in item order.
func (g *Grid) Cards() []Card {
	s := g.machine.State()
	out := make([]Card, len(g.items))
	for i, it := range g.items {
		id := g.ids[i]
		out[i] = Card{
			Item:    it,
			Style:   g.Style(id),
			Layer:   g.layers[id],
			Flipped: s.Flipped() && s.IsActive(id),
		}
	}
	return out
}

// Active returns the selected card, if any.
func (g *Grid) Active() (Card, bool) {
	id, ok := g.machine.State().ActiveID()
	if !ok {
		return Card{}, false
	}
	for _, c := range g.Cards() {
		if c.Item.ID() == id {
			return c, true
		}
	}
	return Card{}, false
}

func (g *Grid) has(id string) bool {
	for _, x := range g.ids {
		if x == id {
			return true
		}
	}
	return false
}
