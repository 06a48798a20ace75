// Package selection tracks which card in a grid is active and whether it is
// flipped.
//
// A [State] is one of three kinds:
//
//	Idle                no card is selected
//	Active{id}          id is selected and elevated
//	ActiveFlipped{id}   id is selected, elevated and shows its back face
//
// At most one card is ever active. [Next] is the complete transition table:
// clicking the active card toggles its flip, clicking any other card switches
// the selection to it unflipped, and dismissing returns to Idle from any
// state. There are no undefined transitions and no terminal states.
//
// [Machine] is the single writer of the current state. Events are applied
// synchronously, one at a time, in dispatch order.
package selection
