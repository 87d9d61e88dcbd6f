package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/b11005/blink-idl-diff/internal/domain/record"
)

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func makeTestRecords() *record.FileRecords {
	parent := "EventTarget"
	return &record.FileRecords{
		Path: "core/dom/Node.idl",
		Bases: []*record.InterfaceRecord{{
			Name:     "Node",
			FilePath: "core/dom/Node.idl",
			Inherit:  &parent,
			Attributes: []record.AttributeRecord{
				{Name: "nodeName", Type: "DOMString", Readonly: true, ExtAttributes: []record.ExtAttributeRecord{}},
			},
			Operations: []record.OperationRecord{{
				Name:          "appendChild",
				Type:          "Node",
				Arguments:     []record.ArgumentRecord{{Name: "node", Type: "Node"}},
				ExtAttributes: []record.ExtAttributeRecord{{Name: "CEReactions"}},
			}},
			Consts:        []record.ConstRecord{},
			ExtAttributes: []record.ExtAttributeRecord{},
		}},
		Partials:   []*record.InterfaceRecord{},
		Inclusions: []record.Inclusion{{Target: "Node", Source: "NodeMixin", Keyword: "implements", Path: "core/dom/Node.idl"}},
	}
}

func TestStore_StoreLookup_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	fr := makeTestRecords()

	require.NoError(t, store.Store("core/dom/Node.idl", "d1", fr))

	got, ok, err := store.Lookup("core/dom/Node.idl", "d1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fr, got)

	// empty lists stay empty lists so the encoded output does not change
	assert.NotNil(t, got.Bases[0].Consts)
	assert.NotNil(t, got.Bases[0].Attributes[0].ExtAttributes)
}

func TestStore_Lookup_Misses(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Store("A.idl", "d1", makeTestRecords()))

	_, ok, err := store.Lookup("A.idl", "d2")
	require.NoError(t, err)
	assert.False(t, ok, "digest mismatch is a miss")

	_, ok, err = store.Lookup("B.idl", "d1")
	require.NoError(t, err)
	assert.False(t, ok, "unknown path is a miss")
}

func TestStore_StoreReplaces(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Store("A.idl", "d1", makeTestRecords()))
	require.NoError(t, store.Store("A.idl", "d2", &record.FileRecords{Path: "A.idl"}))

	_, ok, err := store.Lookup("A.idl", "d1")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := store.Lookup("A.idl", "d2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A.idl", got.Path)
	assert.Empty(t, got.Bases)
}

func TestStore_StoreNil(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Store("A.idl", "d1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A.idl")
}

func TestStore_OtherVersionIsMiss(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte("A.idl"), []byte(`{"v":0,"digest":"d1","records":{"path":"A.idl"}}`))
	}))

	_, ok, err := store.Lookup("A.idl", "d1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CorruptEntry(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte("A.idl"), []byte("not json"))
	}))

	_, ok, err := store.Lookup("A.idl", "d1")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "cache lookup A.idl")
}

func TestStore_ClearAndStats(t *testing.T) {
	store, _ := newTestStore(t)

	st, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, st.Entries)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Store(fmt.Sprintf("F%d.idl", i), "d", makeTestRecords()))
	}
	st, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, st.Entries)
	assert.Greater(t, st.Bytes, int64(0))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clear is idempotent")
	st, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, st.Entries)

	_, ok, err := store.Lookup("F0.idl", "d")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restart.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store("A.idl", "d1", makeTestRecords()))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	got, ok, err := store2.Lookup("A.idl", "d1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Node", got.Bases[0].Name)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("F%d.idl", i)
			if err := store.Store(path, "d", makeTestRecords()); err != nil {
				errs <- err
				return
			}
			if _, ok, err := store.Lookup(path, "d"); err != nil || !ok {
				errs <- fmt.Errorf("lookup %s: ok=%v err=%v", path, ok, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	st, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 20, st.Entries)
}

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	// A second open of a locked database fails after the configured timeout.
	path := filepath.Join(t.TempDir(), "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2)
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
}
