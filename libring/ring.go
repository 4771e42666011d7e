package libring

import (
	"github.com/fine-structures/ringorder/goring"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Ring is the codec for a fixed set of choices 1..N along with their default ordering.
// A Ring holds no mutable state and is safe to share.
type Ring struct {
	defaults goring.Order
}

var _ goring.Codec = (*Ring)(nil)

// NewRing returns a Ring whose size is len(defaults).
// defaults must be a permutation of 1..len(defaults).
func NewRing(defaults goring.Order) (*Ring, error) {
	if len(defaults) == 0 || len(defaults) > goring.MaxRingSize {
		return nil, errors.Wrapf(goring.ErrInvalidArgument, "ring size must be 1..%d", goring.MaxRingSize)
	}
	if err := defaults.Validate(len(defaults)); err != nil {
		return nil, errors.Wrap(err, "bad default order")
	}
	return &Ring{
		defaults: defaults.Clone(),
	}, nil
}

// MustNewRing is NewRing for package-level rings whose defaults are known to be valid.
func MustNewRing(defaults goring.Order) *Ring {
	ring, err := NewRing(defaults)
	if err != nil {
		panic(err)
	}
	return ring
}

// NaturalOrder returns the Order 1..n
func NaturalOrder(n int) goring.Order {
	order := make(goring.Order, n)
	for i := range order {
		order[i] = goring.ChoiceID(i + 1)
	}
	return order
}

func (ring *Ring) Size() int {
	return len(ring.defaults)
}

func (ring *Ring) Reset() goring.Order {
	return ring.defaults.Clone()
}

// Decode walks next[] from StartNode, appending each choice reached until StartNode recurs.
//
// The walk is capped at Size()+1 steps so a corrupt graph fails rather than loops.
func (ring *Ring) Decode(g goring.SuccessorGraph) (goring.Order, error) {
	N := ring.Size()
	if len(g) != N+1 {
		return nil, ring.corrupt(&goring.IntegrityError{
			Node:   goring.StartNode,
			Reason: goring.SizeMismatch,
		})
	}

	var visited [goring.MaxRingSize + 1]bool
	order := make(goring.Order, 0, N)

	node := goring.StartNode
	for step := 0; step <= N; step++ {
		next := g[node]
		switch {
		case next == goring.NoArc:
			return nil, ring.corrupt(&goring.IntegrityError{Node: node, Reason: goring.MissingArc})
		case int(next) > N:
			return nil, ring.corrupt(&goring.IntegrityError{Node: node, Reason: goring.ArcOutOfRange})
		case next == goring.StartNode:
			if len(order) != N {
				return nil, ring.corrupt(&goring.IntegrityError{Node: node, Reason: goring.CycleTooShort})
			}
			return order, nil
		case visited[next]:
			return nil, ring.corrupt(&goring.IntegrityError{Node: next, Reason: goring.NodeRevisited})
		}
		visited[next] = true
		order = append(order, next)
		node = next
	}

	// unreachable while every choice can be visited only once
	return nil, ring.corrupt(&goring.IntegrityError{Node: node, Reason: goring.WalkUnterminated})
}

func (ring *Ring) corrupt(err *goring.IntegrityError) error {
	klog.V(2).Infof("ring[%d]: %v", ring.Size(), err)
	return err
}

// Encode records next[a] = b for each adjacent pair of (StartNode, order..., StartNode).
func (ring *Ring) Encode(order goring.Order) (goring.SuccessorGraph, error) {
	if err := order.Validate(ring.Size()); err != nil {
		return nil, err
	}

	g := make(goring.SuccessorGraph, len(order)+1)
	node := goring.StartNode
	for _, next := range order {
		g[node] = next
		node = next
	}
	g[node] = goring.StartNode
	return g, nil
}

// Move swaps order[index] with its neighbor in the given direction and returns the result as a new Order.
//
// If index is at the boundary in that direction (or is not a valid index), order is returned as-is along with false.
func (ring *Ring) Move(order goring.Order, index int, dir goring.Direction) (goring.Order, bool) {
	to := index + int(dir)
	if index < 0 || index >= len(order) || to < 0 || to >= len(order) || (dir != goring.Up && dir != goring.Down) {
		return order, false
	}
	moved := order.Clone()
	moved[index], moved[to] = moved[to], moved[index]
	return moved, true
}
