// Package searchorder implements the tag browser's search-order preference: the order in which
// clicking a tag browser item cycles through its search modes.
package searchorder

import (
	"github.com/fine-structures/ringorder/goring"
	"github.com/fine-structures/ringorder/libring"
)

// PrefKey is the store key holding the persisted search-order graph.
const PrefKey = "tb_search_order"

// Search modes a tag browser item can apply
const (
	Containing goring.ChoiceID = 1 + iota
	ContainingOrChildren
	NotContaining
	NotContainingOrChildren

	NumChoices = 4
)

// Choice describes one search mode.
type Choice struct {
	ID        goring.ChoiceID
	Label     string
	IconState string // tag browser icon shown while this mode is active
}

var gChoices = [NumChoices]Choice{
	{Containing, "Search for books containing the current item", "mark_plus"},
	{ContainingOrChildren, "Search for books containing the current item or its children", "mark_plusplus"},
	{NotContaining, "Search for books not containing the current item", "mark_minus"},
	{NotContainingOrChildren, "Search for books not containing the current item or its children", "mark_minusminus"},
}

// DefaultOrder is the order a fresh install cycles through
var DefaultOrder = goring.Order{Containing, ContainingOrChildren, NotContaining, NotContainingOrChildren}

// Ring is the codec for search orders.
var Ring = libring.MustNewRing(DefaultOrder)

// Choices returns the search modes in ID order.
func Choices() []Choice {
	out := make([]Choice, NumChoices)
	copy(out, gChoices[:])
	return out
}

// LookupChoice returns the Choice having the given ID.
func LookupChoice(id goring.ChoiceID) (Choice, bool) {
	if id < 1 || int(id) > NumChoices {
		return Choice{}, false
	}
	return gChoices[id-1], true
}

// Labels returns the label of each choice in order.
func Labels(order goring.Order) []string {
	labels := make([]string, len(order))
	for i, id := range order {
		if ch, ok := LookupChoice(id); ok {
			labels[i] = ch.Label
		}
	}
	return labels
}
