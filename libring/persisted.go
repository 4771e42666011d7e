package libring

import (
	"encoding/json"
	"strconv"

	"github.com/fine-structures/ringorder/goring"
	"github.com/pkg/errors"
)

// GraphFromPersisted converts the stored form of a graph for a ring of size n into a SuccessorGraph.
//
// Nodes without a key are left as goring.NoArc so that Decode can report them.
// A key that is not a node ID in 0..n, or a successor outside 0..n, is a corrupt configuration.
func GraphFromPersisted(pg goring.PersistedGraph, n int) (goring.SuccessorGraph, error) {
	if n < 1 || n > goring.MaxRingSize {
		return nil, errors.Wrapf(goring.ErrInvalidArgument, "ring size %d", n)
	}

	g := make(goring.SuccessorGraph, n+1)
	for i := range g {
		g[i] = goring.NoArc
	}

	for key, next := range pg {
		node, err := strconv.Atoi(key)
		if err != nil || node < 0 || node > n {
			return nil, errors.Wrapf(goring.ErrCorruptConfig, "bad node key %q", key)
		}
		if next < 0 || next > n {
			return nil, &goring.IntegrityError{
				Node:   goring.ChoiceID(node),
				Reason: goring.ArcOutOfRange,
			}
		}
		g[node] = goring.ChoiceID(next)
	}
	return g, nil
}

// DecodePersisted converts and decodes the stored form of a graph.
func (ring *Ring) DecodePersisted(pg goring.PersistedGraph) (goring.Order, error) {
	g, err := GraphFromPersisted(pg, ring.Size())
	if err != nil {
		return nil, err
	}
	return ring.Decode(g)
}

// EncodePersisted encodes order into the stored form of its graph.
func (ring *Ring) EncodePersisted(order goring.Order) (goring.PersistedGraph, error) {
	g, err := ring.Encode(order)
	if err != nil {
		return nil, err
	}
	return g.Persisted(), nil
}

// MarshalGraphJSON returns the stored form of g as JSON, e.g. {"0":1,"1":2,"2":0}
func MarshalGraphJSON(g goring.SuccessorGraph) ([]byte, error) {
	return json.Marshal(g.Persisted())
}

// UnmarshalGraphJSON reads the JSON stored form of a graph for a ring of size n.
func UnmarshalGraphJSON(data []byte, n int) (goring.SuccessorGraph, error) {
	var pg goring.PersistedGraph
	if err := json.Unmarshal(data, &pg); err != nil {
		return nil, errors.Wrap(goring.ErrCorruptConfig, err.Error())
	}
	return GraphFromPersisted(pg, n)
}
