package goring

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Validate returns an error wrapping ErrInvalidArgument unless order is a permutation of 1..n.
func (order Order) Validate(n int) error {
	if len(order) != n {
		return errors.Wrapf(ErrInvalidArgument, "order has %d choices, ring has %d", len(order), n)
	}
	var seen [MaxRingSize + 1]bool
	for i, id := range order {
		if id == StartNode || int(id) > n {
			return errors.Wrapf(ErrInvalidArgument, "choice %d at index %d is outside 1..%d", id, i, n)
		}
		if seen[id] {
			return errors.Wrapf(ErrInvalidArgument, "choice %d appears more than once", id)
		}
		seen[id] = true
	}
	return nil
}

// Clone returns a copy of this Order that shares no storage with it.
func (order Order) Clone() Order {
	if order == nil {
		return nil
	}
	dup := make(Order, len(order))
	copy(dup, order)
	return dup
}

func (order Order) IsEqual(other Order) bool {
	if len(order) != len(other) {
		return false
	}
	for i, id := range order {
		if other[i] != id {
			return false
		}
	}
	return true
}

// String prints this Order as an order expression, e.g. "[1,2,4,3]"
func (order Order) String() string {
	b := strings.Builder{}
	b.Grow(2 + 4*len(order))
	b.WriteByte('[')
	for i, id := range order {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	b.WriteByte(']')
	return b.String()
}

// Size returns the number of choices this graph links (one less than the number of nodes).
func (g SuccessorGraph) Size() int {
	if len(g) == 0 {
		return 0
	}
	return len(g) - 1
}

func (g SuccessorGraph) IsEqual(other SuccessorGraph) bool {
	if len(g) != len(other) {
		return false
	}
	for i, next := range g {
		if other[i] != next {
			return false
		}
	}
	return true
}

// String prints the arcs of this graph in walk order starting at StartNode, e.g. "{0:1, 1:2, 2:0}".
// Nodes the walk does not reach are appended in ascending order, and missing arcs are omitted.
func (g SuccessorGraph) String() string {
	b := strings.Builder{}
	b.Grow(2 + 6*len(g))
	b.WriteByte('{')

	printed := make([]bool, len(g))
	writeArc := func(node ChoiceID) {
		if printed[node] || g[node] == NoArc {
			printed[node] = true
			return
		}
		if b.Len() > 1 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(int(node)))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(g[node])))
		printed[node] = true
	}

	if len(g) > 0 {
		node := StartNode
		for steps := 0; steps < len(g) && !printed[node]; steps++ {
			writeArc(node)
			next := g[node]
			if int(next) >= len(g) {
				break
			}
			node = next
		}
		for i := range g {
			writeArc(ChoiceID(i))
		}
	}
	b.WriteByte('}')
	return b.String()
}

// Persisted returns the stored form of this graph.  Missing arcs are omitted.
func (g SuccessorGraph) Persisted() PersistedGraph {
	pg := make(PersistedGraph, len(g))
	for node, next := range g {
		if next != NoArc {
			pg[strconv.Itoa(node)] = int(next)
		}
	}
	return pg
}

func NewStoreContext() StoreContext {
	ctx := &storeContext{
		openStores: make(map[PrefsStore]struct{}),
		closing:    make(chan struct{}),
		closed:     make(chan struct{}),
	}
	ctx.openCount.Add(1)
	go func() {
		<-ctx.Closing()
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type storeContext struct {
	mu         sync.Mutex
	openCount  sync.WaitGroup
	openStores map[PrefsStore]struct{}
	closeOnce  sync.Once
	closing    chan struct{}
	closed     chan struct{}
}

func (ctx *storeContext) AttachStore(store PrefsStore) {
	ctx.openCount.Add(1)
	ctx.mu.Lock()
	ctx.openStores[store] = struct{}{}
	ctx.mu.Unlock()
}

func (ctx *storeContext) DetachStore(store PrefsStore) {
	ctx.mu.Lock()
	if _, exists := ctx.openStores[store]; exists {
		delete(ctx.openStores, store)
		ctx.openCount.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *storeContext) Closing() <-chan struct{} {
	return ctx.closing
}

func (ctx *storeContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *storeContext) Close() {
	ctx.closeOnce.Do(func() {
		close(ctx.closing)
		ctx.mu.Lock()
		for store := range ctx.openStores {
			go store.Close()
		}
		ctx.mu.Unlock()
	})
}
