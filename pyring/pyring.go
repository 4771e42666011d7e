// Package pyring registers the "ring" gpython module, giving scripts the search-order codec and preferences store.
//
//	import ring
//	ring.decode("{0:1, 1:2, 2:4, 4:3, 3:0}")   # (1, 2, 4, 3)
//	ring.encode((1, 2, 4, 3))                   # '{0:1, 1:2, 2:4, 4:3, 3:0}'
//	ring.move((1, 2, 3, 4), 2, "down")          # (1, 2, 4, 3)
//
//	st = ring.open_store("/path/to/prefs")
//	st.set_search_order("[2,1,4,3]")
//	st.search_order()                           # (2, 1, 4, 3)
//	st.close()
package pyring

import (
	"errors"
	"sync"

	"github.com/fine-structures/ringorder/goring"
	"github.com/fine-structures/ringorder/libring"
	"github.com/fine-structures/ringorder/libring/prefs"
	"github.com/fine-structures/ringorder/libring/searchorder"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2024.1"
)

// DefaultStoreOpts is used by open_store() when a script gives no pathname.
var DefaultStoreOpts goring.StoreOpts

var (
	pyStoreType = py.NewType("Store", "a preferences store holding the search order")
)

var (
	gMu       sync.Mutex
	gStoreCtx goring.StoreContext // stores opened by scripts; closed with the py context
)

type pyStore struct {
	store goring.PrefsStore
	pref  *searchorder.Pref
}

func (st *pyStore) Type() *py.Type {
	return pyStoreType
}

// exportErr maps an error onto the closest Python exception.
func exportErr(err error) error {
	switch {
	case errors.Is(err, goring.ErrCorruptConfig),
		errors.Is(err, goring.ErrInvalidArgument),
		errors.Is(err, goring.ErrBadExpr):
		return py.ExceptionNewf(py.ValueError, "%v", err)
	case errors.Is(err, goring.ErrReadOnly):
		return py.ExceptionNewf(py.PermissionError, "%v", err)
	case errors.Is(err, goring.ErrPrefNotFound):
		return py.ExceptionNewf(py.KeyError, "%v", err)
	}
	return py.ExceptionNewf(py.RuntimeError, "%v", err)
}

func getString(obj py.Object) (string, error) {
	str, ok := obj.(py.String)
	if !ok {
		return "", py.ExceptionNewf(py.TypeError, "expected str (got %v)", obj.Type().Name)
	}
	return string(str), nil
}

// getOrder reads an Order from an order expression or a tuple or list of ints.
func getOrder(obj py.Object) (goring.Order, error) {
	var items []py.Object
	switch v := obj.(type) {
	case py.String:
		order, err := libring.ParseOrderExpr(string(v))
		if err != nil {
			return nil, exportErr(err)
		}
		return order, nil
	case py.Tuple:
		items = v
	case *py.List:
		items = v.Items
	default:
		return nil, py.ExceptionNewf(py.TypeError, "expected order (got %v)", obj.Type().Name)
	}

	order := make(goring.Order, len(items))
	for i, item := range items {
		id, err := py.GetInt(item)
		if err != nil {
			return nil, err
		}
		if id < 1 || id > goring.MaxRingSize {
			return nil, py.ExceptionNewf(py.ValueError, "choice ID %d is out of range", id)
		}
		order[i] = goring.ChoiceID(id)
	}
	return order, nil
}

func exportOrder(order goring.Order) py.Tuple {
	tuple := make(py.Tuple, len(order))
	for i, id := range order {
		tuple[i] = py.Int(id)
	}
	return tuple
}

func naturalRing(n int) (*libring.Ring, error) {
	ring, err := libring.NewRing(libring.NaturalOrder(n))
	if err != nil {
		return nil, exportErr(err)
	}
	return ring, nil
}

// Arg 1 (str): graph expression
// Arg 2 (int, optional): ring size
func py_decode(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, py.ExceptionNewf(py.TypeError, "decode() takes 1 or 2 arguments (%d given)", len(args))
	}
	expr, err := getString(args[0])
	if err != nil {
		return nil, err
	}
	size := 0
	if len(args) > 1 {
		n, err := py.GetInt(args[1])
		if err != nil {
			return nil, err
		}
		size = int(n)
	}

	g, err := libring.ParseGraphExpr(expr, size)
	if err != nil {
		return nil, exportErr(err)
	}
	ring, err := naturalRing(g.Size())
	if err != nil {
		return nil, err
	}
	order, err := ring.Decode(g)
	if err != nil {
		return nil, exportErr(err)
	}
	return exportOrder(order), nil
}

// Arg 1 (order): displayed order
func py_encode(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "encode() takes 1 argument (%d given)", len(args))
	}
	order, err := getOrder(args[0])
	if err != nil {
		return nil, err
	}
	ring, err := naturalRing(len(order))
	if err != nil {
		return nil, err
	}
	g, err := ring.Encode(order)
	if err != nil {
		return nil, exportErr(err)
	}
	return py.String(g.String()), nil
}

// Arg 1 (order): displayed order
// Arg 2 (int): index
// Arg 3 (str): "up" or "down"
func py_move(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 3 {
		return nil, py.ExceptionNewf(py.TypeError, "move() takes 3 arguments (%d given)", len(args))
	}
	order, err := getOrder(args[0])
	if err != nil {
		return nil, err
	}
	index, err := py.GetInt(args[1])
	if err != nil {
		return nil, err
	}
	dirStr, err := getString(args[2])
	if err != nil {
		return nil, err
	}

	var dir goring.Direction
	switch dirStr {
	case "up":
		dir = goring.Up
	case "down":
		dir = goring.Down
	default:
		return nil, py.ExceptionNewf(py.ValueError, "direction must be 'up' or 'down' (got %q)", dirStr)
	}

	ring, err := naturalRing(len(order))
	if err != nil {
		return nil, err
	}
	if err = order.Validate(ring.Size()); err != nil {
		return nil, exportErr(err)
	}
	moved, _ := ring.Move(order, int(index), dir)
	return exportOrder(moved), nil
}

// Arg 1 (str, optional): store pathname; "" for an in-memory store
func py_open_store(module py.Object, args py.Tuple) (py.Object, error) {
	opts := DefaultStoreOpts
	if len(args) > 0 {
		pathname, err := getString(args[0])
		if err != nil {
			return nil, err
		}
		opts = goring.StoreOpts{
			DbPathName: pathname,
		}
	}

	gMu.Lock()
	if gStoreCtx == nil {
		gStoreCtx = goring.NewStoreContext()
	}
	ctx := gStoreCtx
	gMu.Unlock()

	store, err := prefs.OpenStore(ctx, opts)
	if err != nil {
		return nil, exportErr(err)
	}
	pref, err := searchorder.NewPref(store)
	if err != nil {
		store.Close()
		return nil, exportErr(err)
	}
	return &pyStore{
		store: store,
		pref:  pref,
	}, nil
}

func py_Store_search_order(self py.Object, args py.Tuple) (py.Object, error) {
	st := self.(*pyStore)
	order, err := st.pref.Load()
	if err != nil {
		return nil, exportErr(err)
	}
	return exportOrder(order), nil
}

func py_Store_set_search_order(self py.Object, args py.Tuple) (py.Object, error) {
	st := self.(*pyStore)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "set_search_order() takes 1 argument (%d given)", len(args))
	}
	order, err := getOrder(args[0])
	if err != nil {
		return nil, err
	}
	if err = st.pref.Commit(order); err != nil {
		return nil, exportErr(err)
	}
	return py.None, nil
}

func py_Store_reset_search_order(self py.Object, args py.Tuple) (py.Object, error) {
	st := self.(*pyStore)
	order, err := st.pref.Reset()
	if err != nil {
		return nil, exportErr(err)
	}
	return exportOrder(order), nil
}

// Arg 1 (int): current search mode (0 for none)
func py_Store_next_state(self py.Object, args py.Tuple) (py.Object, error) {
	st := self.(*pyStore)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "next_state() takes 1 argument (%d given)", len(args))
	}
	cur, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	if cur < 0 || cur > goring.MaxRingSize {
		return nil, py.ExceptionNewf(py.ValueError, "search mode %d is out of range", cur)
	}
	next, err := st.pref.NextState(goring.ChoiceID(cur))
	if err != nil {
		return nil, exportErr(err)
	}
	return py.Int(next), nil
}

func py_Store_close(self py.Object, args py.Tuple) (py.Object, error) {
	st := self.(*pyStore)
	if err := st.store.Close(); err != nil {
		return nil, exportErr(err)
	}
	return py.None, nil
}

func closeScriptStores() {
	gMu.Lock()
	ctx := gStoreCtx
	gStoreCtx = nil
	gMu.Unlock()

	if ctx != nil {
		ctx.Close()
		<-ctx.Done()
	}
}

func init() {

	/////////////////////////////////
	// Store
	{
		pyStoreType.Dict["search_order"] = py.MustNewMethod("search_order", py_Store_search_order, 0, "returns the stored search order")
		pyStoreType.Dict["set_search_order"] = py.MustNewMethod("set_search_order", py_Store_set_search_order, 0, "stores the given search order")
		pyStoreType.Dict["reset_search_order"] = py.MustNewMethod("reset_search_order", py_Store_reset_search_order, 0, "restores and returns the default search order")
		pyStoreType.Dict["next_state"] = py.MustNewMethod("next_state", py_Store_next_state, 0, "returns the search mode following the given one")
		pyStoreType.Dict["close"] = py.MustNewMethod("close", py_Store_close, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("decode", py_decode, 0, "returns the displayed order of a successor graph expression"),
			py.MustNewMethod("encode", py_encode, 0, "returns the successor graph expression of a displayed order"),
			py.MustNewMethod("move", py_move, 0, "returns an order with the given index moved 'up' or 'down'"),
			py.MustNewMethod("open_store", py_open_store, 0, "opens a preferences store"),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"START_NODE":  py.Int(goring.StartNode),
			"NUM_CHOICES": py.Int(searchorder.NumChoices),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "ring",
				Doc:  "ordered-choice ring codec and search-order preferences",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				closeScriptStores()
			},
		})
	}
}
