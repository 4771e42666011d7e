package prefs

import (
	"encoding/json"
	"runtime"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/fine-structures/ringorder/goring"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Store database format:

	gStoreStateKey => storeState (varint MajorVers, varint MinorVers)

	gValuePrefix, key (utf8)  => JSON encoded value
	...

Defaults are not persisted: each process registers them on startup, so a stored value is
only ever a deliberate user choice and a changed default takes effect for unset keys.

***/

var (
	gStoreStateKey = []byte{0x00, 0x00, 0x01}
	gValuePrefix   = []byte{'p', '/'}
)

const (
	kMajorVers        = 2024
	kMinorVers        = 1
	kDefaultCacheSize = 256
)

// store is a badger db wrapper holding preference values
type store struct {
	ctx      goring.StoreContext
	readOnly bool
	state    storeState
	dirty    bool
	db       *badger.DB
	cache    *lru.Cache[string, []byte]

	mu       sync.RWMutex // guards db against Close()
	closed   bool
	defMu    sync.Mutex
	defaults *redblacktree.Tree // key => JSON encoded default
}

// OpenStore opens a new or existing preferences store.  If ctx is given, the store is attached to it until closed.
func OpenStore(ctx goring.StoreContext, opts goring.StoreOpts) (goring.PrefsStore, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = kDefaultCacheSize
	}

	st := &store{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
		defaults: redblacktree.NewWithStringComparator(),
	}

	var err error
	st.cache, err = lru.New[string, []byte](opts.CacheSize)
	if err != nil {
		return nil, errors.Wrap(goring.ErrBadStoreParam, err.Error())
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer per key; not needed
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(goring.ErrBadStoreParam, "DbPathName must be specified for a read-only store")
		}
		dbOpts.InMemory = true
	}

	st.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	err = st.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		st.dirty = !st.readOnly
		st.state.MajorVers = kMajorVers
		st.state.MinorVers = kMinorVers
	}
	if err == nil && (st.state.MajorVers != kMajorVers || st.state.MinorVers > kMinorVers) {
		err = errors.Wrapf(goring.ErrIncompatibleVers, "found v%d.%d", st.state.MajorVers, st.state.MinorVers)
	}
	if err == nil {
		err = st.flushState()
	}
	if err != nil {
		st.db.Close()
		return nil, err
	}

	if ctx != nil {
		ctx.AttachStore(st)
	}
	klog.V(2).Infof("prefs: opened store %q (read-only: %v)", opts.DbPathName, st.readOnly)

	return st, nil
}

func (st *store) loadState() error {
	return st.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gStoreStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return st.state.Unmarshal(val)
		})
	})
}

func (st *store) flushState() error {
	if !st.dirty {
		return nil
	}
	err := st.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gStoreStateKey, st.state.Marshal())
	})
	if err == nil {
		st.dirty = false
	}
	return err
}

func formValueKey(key string) []byte {
	buf := make([]byte, 0, len(gValuePrefix)+len(key))
	buf = append(buf, gValuePrefix...)
	return append(buf, key...)
}

func (st *store) IsReadOnly() bool {
	return st.readOnly
}

// readValue returns the stored JSON for key or badger.ErrKeyNotFound.  Caller holds st.mu.
func (st *store) readValue(key string) ([]byte, error) {
	if buf, ok := st.cache.Get(key); ok {
		return buf, nil
	}

	var buf []byte
	err := st.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(formValueKey(key))
		if err != nil {
			return err
		}
		buf, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	st.cache.Add(key, buf)
	return buf, nil
}

func (st *store) readDefault(key string) ([]byte, bool) {
	st.defMu.Lock()
	defer st.defMu.Unlock()

	val, found := st.defaults.Get(key)
	if !found {
		return nil, false
	}
	return val.([]byte), true
}

func (st *store) Get(key string, dst any) error {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.closed {
		return goring.ErrStoreClosed
	}

	buf, err := st.readValue(key)
	if err == badger.ErrKeyNotFound {
		var found bool
		if buf, found = st.readDefault(key); !found {
			return errors.Wrapf(goring.ErrPrefNotFound, "%q", key)
		}
	} else if err != nil {
		return err
	}

	if err = json.Unmarshal(buf, dst); err != nil {
		return errors.Wrapf(goring.ErrCorruptConfig, "%q: %v", key, err)
	}
	return nil
}

func (st *store) Set(key string, val any) error {
	buf, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(goring.ErrInvalidArgument, "%q: %v", key, err)
	}
	return st.setRaw(key, buf)
}

func (st *store) setRaw(key string, buf []byte) error {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.closed {
		return goring.ErrStoreClosed
	}
	if st.readOnly {
		return goring.ErrReadOnly
	}

	err := st.db.Update(func(txn *badger.Txn) error {
		return txn.Set(formValueKey(key), buf)
	})
	if err != nil {
		st.cache.Remove(key)
		return err
	}
	st.cache.Add(key, buf)
	return nil
}

func (st *store) Delete(key string) error {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.closed {
		return goring.ErrStoreClosed
	}
	if st.readOnly {
		return goring.ErrReadOnly
	}

	st.cache.Remove(key)
	return st.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(formValueKey(key))
	})
}

func (st *store) Has(key string) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.closed {
		return false
	}
	_, err := st.readValue(key)
	return err == nil
}

func (st *store) Keys() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.closed {
		return nil
	}

	all := redblacktree.NewWithStringComparator()

	st.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: false,
			Prefix:         gValuePrefix,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			all.Put(string(key[len(gValuePrefix):]), nil)
		}
		return nil
	})

	st.defMu.Lock()
	for _, key := range st.defaults.Keys() {
		all.Put(key, nil)
	}
	st.defMu.Unlock()

	keys := make([]string, 0, all.Size())
	for it := all.Iterator(); it.Next(); {
		keys = append(keys, it.Key().(string))
	}
	return keys
}

func (st *store) SetDefault(key string, val any) error {
	buf, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(goring.ErrInvalidArgument, "%q: %v", key, err)
	}

	st.defMu.Lock()
	st.defaults.Put(key, buf)
	st.defMu.Unlock()
	return nil
}

func (st *store) GetDefault(key string, dst any) error {
	buf, found := st.readDefault(key)
	if !found {
		return errors.Wrapf(goring.ErrPrefNotFound, "no default for %q", key)
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return errors.Wrapf(goring.ErrInvalidArgument, "%q: %v", key, err)
	}
	return nil
}

func (st *store) RestoreDefault(key string) error {
	buf, found := st.readDefault(key)
	if !found {
		return errors.Wrapf(goring.ErrPrefNotFound, "no default for %q", key)
	}
	return st.setRaw(key, buf)
}

func (st *store) Close() error {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return nil
	}
	st.closed = true
	err := st.flushState()
	if dbErr := st.db.Close(); err == nil {
		err = dbErr
	}
	st.db = nil
	st.cache.Purge()
	st.mu.Unlock()

	if st.ctx != nil {
		st.ctx.DetachStore(st)
	}
	klog.V(2).Infof("prefs: closed store")
	return err
}
