package goring

const (

	// StartNode is the sentinel node every SuccessorGraph walk begins and ends at.  It is not a choice.
	StartNode ChoiceID = 0

	// NoArc marks a node of a SuccessorGraph that has no recorded successor.
	NoArc ChoiceID = 0xFF

	// MaxRingSize is the largest number of choices a ring can hold (IDs 1..MaxRingSize).
	MaxRingSize = 254
)

// ChoiceID is a one-based index that identifies a choice in a ring (1..N).
type ChoiceID byte

// Order is the displayed linear ordering of a ring's choices.
// A valid Order of a ring of size N is a permutation of 1..N.
type Order []ChoiceID

// SuccessorGraph is the next-pointer encoding of an Order.
//
// Entry i holds the successor of node i, so a graph for N choices has N+1 entries (nodes 0..N).
// Walking from StartNode visits each choice exactly once before returning to StartNode.
type SuccessorGraph []ChoiceID

// PersistedGraph is the stored form of a SuccessorGraph: node IDs as decimal string keys mapped to successor IDs.
//
//	{"0": 1, "1": 2, "2": 3, "3": 4, "4": 0}
type PersistedGraph map[string]int

// Direction says which way Move shifts an element.
type Direction int8

const (
	Up   Direction = -1 // toward index 0
	Down Direction = +1 // toward the end
)

func (dir Direction) String() string {
	switch dir {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "?"
}

// Codec converts between SuccessorGraph and Order for a ring of fixed size.
type Codec interface {

	// Size returns the number of choices in this ring.
	Size() int

	// Decode linearizes the given graph, walking at most Size()+1 steps.
	// A graph that breaks the single cycle invariant returns an *IntegrityError.
	Decode(g SuccessorGraph) (Order, error)

	// Encode forms the SuccessorGraph of the given Order, which must be a permutation of 1..Size().
	Encode(order Order) (SuccessorGraph, error)

	// Move swaps the element at index with its neighbor in the given direction.
	// Returns a new Order and false (with the input unchanged) if index is at the boundary in that direction.
	Move(order Order, index int, dir Direction) (Order, bool)

	// Reset returns a copy of the default ordering.
	Reset() Order
}

// PrefsStore is a key-value store of JSON encoded preference values.
// Every key may also carry a registered default that Get falls back to.
type PrefsStore interface {

	// Get unmarshals the value for key into dst, falling back to the key's default.
	// Returns ErrPrefNotFound if there is neither a value nor a default.
	Get(key string, dst any) error

	// Set marshals val and stores it under key.
	Set(key string, val any) error

	// Delete removes the stored value for key (its default remains).
	Delete(key string) error

	// Has returns true if a value (not just a default) is stored under key.
	Has(key string) bool

	// Keys returns the sorted keys having a stored value or a default.
	Keys() []string

	// SetDefault registers the default value for key.
	SetDefault(key string, val any) error

	// GetDefault unmarshals the default for key into dst.
	GetDefault(key string, dst any) error

	// RestoreDefault overwrites the stored value for key with its default.
	RestoreDefault(key string) error

	// Returns true if this store was opened for read-only access.
	IsReadOnly() bool

	Close() error
}

// StoreOpts specifies params for opening a PrefsStore
type StoreOpts struct {
	DbPathName string // omit for an in-memory store
	ReadOnly   bool   // open in read-only mode
	CacheSize  int    // number of decoded entries to cache (0 denotes a default)
}

// StoreContext is a container for open / active PrefsStore instances.
type StoreContext interface {

	// Attaches the given store to this context.
	AttachStore(store PrefsStore)

	// Detaches the given store from this context.
	DetachStore(store PrefsStore)

	// Closes all open stores then closes.
	Close()

	// Signals when Close() completed and all open stores have been closed
	Done() <-chan struct{}
}
