package prefs

import (
	"errors"
	"path"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/fine-structures/ringorder/goring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) goring.PrefsStore {
	t.Helper()
	st, err := OpenStore(nil, goring.StoreOpts{})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSetGet(t *testing.T) {
	st := openMem(t)

	var font []any
	err := st.Get("font", &font)
	require.True(t, errors.Is(err, goring.ErrPrefNotFound), "%v", err)
	assert.False(t, st.Has("font"))

	require.NoError(t, st.Set("font", []any{"Sans", 10}))
	require.NoError(t, st.Get("font", &font))
	assert.Equal(t, []any{"Sans", float64(10)}, font)
	assert.True(t, st.Has("font"))

	require.NoError(t, st.Set("font", []any{"Serif", 12}))
	require.NoError(t, st.Get("font", &font))
	assert.Equal(t, "Serif", font[0])

	require.NoError(t, st.Delete("font"))
	assert.False(t, st.Has("font"))
	err = st.Get("font", &font)
	assert.True(t, errors.Is(err, goring.ErrPrefNotFound))
}

func TestDefaults(t *testing.T) {
	st := openMem(t)

	require.NoError(t, st.SetDefault("tb_search_order", goring.PersistedGraph{"0": 1, "1": 2, "2": 0}))

	var pg goring.PersistedGraph
	require.NoError(t, st.Get("tb_search_order", &pg))
	assert.Equal(t, goring.PersistedGraph{"0": 1, "1": 2, "2": 0}, pg)
	assert.False(t, st.Has("tb_search_order"))

	require.NoError(t, st.Set("tb_search_order", goring.PersistedGraph{"0": 2, "2": 1, "1": 0}))
	require.NoError(t, st.Get("tb_search_order", &pg))
	assert.Equal(t, 2, pg["0"])

	require.NoError(t, st.GetDefault("tb_search_order", &pg))
	assert.Equal(t, 1, pg["0"])

	require.NoError(t, st.RestoreDefault("tb_search_order"))
	assert.True(t, st.Has("tb_search_order"))
	require.NoError(t, st.Get("tb_search_order", &pg))
	assert.Equal(t, 1, pg["0"])

	err := st.RestoreDefault("nope")
	assert.True(t, errors.Is(err, goring.ErrPrefNotFound))
	err = st.GetDefault("nope", &pg)
	assert.True(t, errors.Is(err, goring.ErrPrefNotFound))
}

func TestKeysSorted(t *testing.T) {
	st := openMem(t)

	require.NoError(t, st.Set("zeta", 1))
	require.NoError(t, st.Set("alpha", 2))
	require.NoError(t, st.SetDefault("mid", 3))
	require.NoError(t, st.SetDefault("alpha", 4))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, st.Keys())
}

func TestCorruptValue(t *testing.T) {
	st := openMem(t)
	require.NoError(t, st.Set("cover_grid_color", []int{80, 80, 80}))

	var n int
	err := st.Get("cover_grid_color", &n)
	assert.True(t, errors.Is(err, goring.ErrCorruptConfig), "%v", err)

	err = st.Set("bad", make(chan int))
	assert.True(t, errors.Is(err, goring.ErrInvalidArgument), "%v", err)
}

func TestPersistsAcrossOpen(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "prefs")

	st, err := OpenStore(nil, goring.StoreOpts{DbPathName: dbPath})
	require.NoError(t, err)
	require.NoError(t, st.Set("gui_layout", "wide"))
	require.NoError(t, st.Close())
	require.NoError(t, st.Close())

	st, err = OpenStore(nil, goring.StoreOpts{DbPathName: dbPath, ReadOnly: true})
	require.NoError(t, err)
	defer st.Close()

	assert.True(t, st.IsReadOnly())
	var layout string
	require.NoError(t, st.Get("gui_layout", &layout))
	assert.Equal(t, "wide", layout)

	assert.True(t, errors.Is(st.Set("gui_layout", "narrow"), goring.ErrReadOnly))
	assert.True(t, errors.Is(st.Delete("gui_layout"), goring.ErrReadOnly))
}

func TestBadOpts(t *testing.T) {
	_, err := OpenStore(nil, goring.StoreOpts{ReadOnly: true})
	assert.True(t, errors.Is(err, goring.ErrBadStoreParam))
}

func TestIncompatibleVersion(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "prefs")

	dbOpts := badger.DefaultOptions(dbPath)
	dbOpts.Logger = nil
	db, err := badger.Open(dbOpts)
	require.NoError(t, err)
	future := storeState{MajorVers: kMajorVers + 1}
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set(gStoreStateKey, future.Marshal())
	}))
	require.NoError(t, db.Close())

	_, err = OpenStore(nil, goring.StoreOpts{DbPathName: dbPath})
	assert.True(t, errors.Is(err, goring.ErrIncompatibleVers), "%v", err)
}

func TestStoreState(t *testing.T) {
	src := storeState{MajorVers: kMajorVers, MinorVers: 300}
	var dst storeState
	require.NoError(t, dst.Unmarshal(src.Marshal()))
	assert.Equal(t, src, dst)

	assert.Error(t, dst.Unmarshal(nil))
	assert.Error(t, dst.Unmarshal([]byte{0x80}))
}

func TestClosedStore(t *testing.T) {
	st, err := OpenStore(nil, goring.StoreOpts{})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	var v int
	assert.True(t, errors.Is(st.Get("x", &v), goring.ErrStoreClosed))
	assert.True(t, errors.Is(st.Set("x", 1), goring.ErrStoreClosed))
	assert.False(t, st.Has("x"))
	assert.Nil(t, st.Keys())
}

func TestContextClosesStores(t *testing.T) {
	ctx := goring.NewStoreContext()

	st1, err := OpenStore(ctx, goring.StoreOpts{})
	require.NoError(t, err)
	st2, err := OpenStore(ctx, goring.StoreOpts{})
	require.NoError(t, err)
	require.NoError(t, st1.Close())

	ctx.Close()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("store context did not close")
	}

	var v int
	assert.True(t, errors.Is(st2.Get("x", &v), goring.ErrStoreClosed))
}
