// Package layering derives the stacking order of every card in a grid from
// the current selection.
//
// The selected card is elevated above the dismiss overlay, which in turn sits
// above every other card. Elevation is relative to the whole grid, so the
// layers are always derived for all ids at once.
package layering

import (
	"fmt"

	"github.com/matzehuels/setlist/pkg/selection"
)

// Stacking levels.
const (
	NormalZ   = 15
	OverlayZ  = 30
	ElevatedZ = 50
)

// Positioning is how a card is placed relative to its slot in the grid.
type Positioning int

const (
	// Normal cards stay in the grid flow.
	Normal Positioning = iota
	// Elevated cards are lifted out of the flow above the overlay.
	Elevated
)

func (p Positioning) String() string {
	if p == Elevated {
		return "elevated"
	}
	return "normal"
}

// Layer is the stacking assignment of one card.
type Layer struct {
	Z           int
	Positioning Positioning
}

func (l Layer) String() string {
	return fmt.Sprintf("%d/%s", l.Z, l.Positioning)
}

var (
	normal   = Layer{Z: NormalZ, Positioning: Normal}
	elevated = Layer{Z: ElevatedZ, Positioning: Elevated}
)

// Derive returns the layer of every id under s.
func Derive(s selection.State, ids []string) map[string]Layer {
	out := make(map[string]Layer, len(ids))
	for _, id := range ids {
		if s.IsActive(id) {
			out[id] = elevated
		} else {
			out[id] = normal
		}
	}
	return out
}
