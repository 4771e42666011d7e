package searchorder

import (
	"github.com/fine-structures/ringorder/goring"
	"github.com/fine-structures/ringorder/libring"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Pref binds the search-order preference to a store.
type Pref struct {
	store goring.PrefsStore
}

// NewPref registers the search-order default with the given store.
func NewPref(store goring.PrefsStore) (*Pref, error) {
	if store == nil {
		return nil, errors.Wrap(goring.ErrInvalidArgument, "nil store")
	}
	def, err := Ring.EncodePersisted(Ring.Reset())
	if err != nil {
		return nil, err
	}
	if err = store.SetDefault(PrefKey, def); err != nil {
		return nil, err
	}
	return &Pref{
		store: store,
	}, nil
}

// Graph reads the stored successor graph.  It is not checked for integrity.
func (pref *Pref) Graph() (goring.SuccessorGraph, error) {
	var pg goring.PersistedGraph
	if err := pref.store.Get(PrefKey, &pg); err != nil {
		return nil, err
	}
	g, err := libring.GraphFromPersisted(pg, Ring.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "%q", PrefKey)
	}
	return g, nil
}

// Load reads and decodes the stored search order.
func (pref *Pref) Load() (goring.Order, error) {
	g, err := pref.Graph()
	if err != nil {
		return nil, err
	}
	order, err := Ring.Decode(g)
	if err != nil {
		return nil, errors.Wrapf(err, "%q", PrefKey)
	}
	return order, nil
}

// LoadOrDefault is Load that falls back to the default order if the stored graph is unreadable.
func (pref *Pref) LoadOrDefault() goring.Order {
	order, err := pref.Load()
	if err != nil {
		klog.Warningf("searchorder: using default order: %v", err)
		return Ring.Reset()
	}
	return order
}

// Commit encodes the given order and stores it.
func (pref *Pref) Commit(order goring.Order) error {
	pg, err := Ring.EncodePersisted(order)
	if err != nil {
		return err
	}
	return pref.store.Set(PrefKey, pg)
}

// Reset stores the default order and returns it.
func (pref *Pref) Reset() (goring.Order, error) {
	if err := pref.store.RestoreDefault(PrefKey); err != nil {
		return nil, err
	}
	return Ring.Reset(), nil
}

// NextState returns the search mode that follows current when a tag browser item is clicked.
// goring.StartNode denotes an item with no search applied and is also returned after the last mode.
func (pref *Pref) NextState(current goring.ChoiceID) (goring.ChoiceID, error) {
	if int(current) > NumChoices {
		return 0, errors.Wrapf(goring.ErrInvalidArgument, "search mode %d", current)
	}
	g, err := pref.Graph()
	if err != nil {
		return 0, err
	}
	if _, err = Ring.Decode(g); err != nil {
		return 0, errors.Wrapf(err, "%q", PrefKey)
	}
	return g[current], nil
}
