// Package store persists linked-list nodes in a Pebble database.
//
// The key is the node's own 64-bit key, big-endian so iteration order matches
// numeric order. The value is a FlatBuffers NodeRecord. On disk a prev of -1
// (or any negative value) means the node has no predecessor; the Node model
// exposes that as HasPrev=false instead of a sentinel.
package store

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	flatbuffers "github.com/google/flatbuffers/go"

	"linklint/internal/types"
)

const (
	// keySize is the encoded size of a node key.
	keySize = 8

	// defaultSyncInterval is the default interval between WAL syncs.
	defaultSyncInterval = 100 * time.Millisecond
)

// Node is one record of a generated linked list.
type Node struct {
	Key     uint64 // Key is the node's own identifier
	Prev    uint64 // Prev is the key of the expected predecessor, valid iff HasPrev
	HasPrev bool   // HasPrev reports whether the node declares a predecessor
	Count   uint64 // Count is the generator's running node count when this node was written
	Client  string // Client identifies the generator run that wrote the node
}

// Store provides node persistence backed by Pebble.
// Writes are non-blocking (NoSync) and a background goroutine
// periodically syncs the WAL to disk for durability.
type Store struct {
	db       *pebble.DB    // db is the underlying Pebble database
	stopSync chan struct{} // stopSync signals the sync goroutine to stop
	wg       sync.WaitGroup
}

// Open opens (or creates) a node store at the given path.
// It starts a background goroutine that syncs the WAL periodically.
func Open(path string) (*Store, error) {
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(32 << 20), // 32 MB cache
		MemTableSize:                16 << 20,                  // 16 MB memtable
		MemTableStopWritesThreshold: 2,
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:       db,
		stopSync: make(chan struct{}),
	}

	s.startSyncLoop()

	return s, nil
}

// Put stores a single node, overwriting any existing record with the same key.
func (s *Store) Put(n Node) error {
	return s.db.Set(encodeKey(n.Key), encodeNode(n), pebble.NoSync)
}

// PutBatch atomically stores multiple nodes.
// Either all nodes are written or none.
func (s *Store) PutBatch(nodes []Node) error {
	batch := s.db.NewBatch()
	defer batch.Close()

	for _, n := range nodes {
		if err := batch.Set(encodeKey(n.Key), encodeNode(n), nil); err != nil {
			return err
		}
	}

	return batch.Commit(pebble.NoSync)
}

// Get retrieves the node with the given key.
// The second return value is false if no such node exists.
func (s *Store) Get(key uint64) (Node, bool, error) {
	value, closer, err := s.db.Get(encodeKey(key))
	if err == pebble.ErrNotFound {
		return Node{}, false, nil
	}
	if err != nil {
		return Node{}, false, err
	}
	defer closer.Close()

	return decodeNode(key, value), true, nil
}

// Delete removes a node from the store.
func (s *Store) Delete(key uint64) error {
	return s.db.Delete(encodeKey(key), pebble.NoSync)
}

// Scan calls fn for every node in the store, in ascending key order.
// If fn returns an error, iteration stops and the error is returned.
func (s *Store) Scan(fn func(Node) error) error {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != keySize {
			continue
		}

		value, err := iter.ValueAndErr()
		if err != nil {
			return err
		}

		if err := fn(decodeNode(binary.BigEndian.Uint64(key), value)); err != nil {
			return err
		}
	}

	return iter.Error()
}

// ScanFrom calls fn for every node with key >= start, in ascending key
// order.
func (s *Store) ScanFrom(start uint64, fn func(Node) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: encodeKey(start)})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != keySize {
			continue
		}

		value, err := iter.ValueAndErr()
		if err != nil {
			return err
		}

		if err := fn(decodeNode(binary.BigEndian.Uint64(key), value)); err != nil {
			return err
		}
	}

	return iter.Error()
}

// SeekCeiling returns the first node whose key is >= the given key,
// wrapping around to the lowest key if none is. The second return value
// is false only when the store is empty.
func (s *Store) SeekCeiling(key uint64) (Node, bool, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return Node{}, false, err
	}
	defer iter.Close()

	if !iter.SeekGE(encodeKey(key)) && !iter.First() {
		if err := iter.Error(); err != nil {
			return Node{}, false, err
		}
		return Node{}, false, nil
	}

	value, err := iter.ValueAndErr()
	if err != nil {
		return Node{}, false, err
	}

	return decodeNode(binary.BigEndian.Uint64(iter.Key()), value), true, nil
}

// Count returns the number of nodes in the store.
func (s *Store) Count() (uint64, error) {
	var n uint64

	err := s.Scan(func(Node) error {
		n++
		return nil
	})

	return n, err
}

// Close stops the sync goroutine and closes the database.
// It performs a final sync before closing to ensure durability.
func (s *Store) Close() error {
	close(s.stopSync)
	s.wg.Wait()

	// Final sync before closing
	if err := s.sync(); err != nil {
		return err
	}

	return s.db.Close()
}

// encodeKey encodes a node key as 8 big-endian bytes.
func encodeKey(key uint64) []byte {
	buf := make([]byte, keySize)
	binary.BigEndian.PutUint64(buf, key)

	return buf
}

// encodeNode serializes a node into a FlatBuffers NodeRecord.
// A node without a predecessor is stored with prev = -1.
func encodeNode(n Node) []byte {
	builder := flatbuffers.NewBuilder(64)

	client := builder.CreateString(n.Client)

	prev := int64(-1)
	if n.HasPrev {
		prev = int64(n.Prev)
	}

	types.NodeRecordStart(builder)
	types.NodeRecordAddPrev(builder, prev)
	types.NodeRecordAddCount(builder, int64(n.Count))
	types.NodeRecordAddClient(builder, client)
	builder.Finish(types.NodeRecordEnd(builder))

	return builder.FinishedBytes()
}

// decodeNode deserializes a FlatBuffers NodeRecord.
// Any negative prev decodes as "no predecessor"; only -1 is ever written,
// but corrupted records must not surface a bogus predecessor.
func decodeNode(key uint64, value []byte) Node {
	rec := types.GetRootAsNodeRecord(value, 0)

	n := Node{
		Key:    key,
		Count:  uint64(rec.Count()),
		Client: string(rec.Client()),
	}

	if prev := rec.Prev(); prev >= 0 {
		n.Prev = uint64(prev)
		n.HasPrev = true
	}

	return n
}

// startSyncLoop starts the background goroutine that periodically syncs the WAL.
func (s *Store) startSyncLoop() {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(defaultSyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_ = s.sync()
			case <-s.stopSync:
				return
			}
		}
	}()
}

// sync forces a WAL sync to disk.
func (s *Store) sync() error {
	return s.db.LogData(nil, pebble.Sync)
}
