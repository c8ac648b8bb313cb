// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

// Key layout of the pebble store. Entries are keyed by big-endian
// metahandle so iteration yields them in creation order.
var (
	keyMetaPrefix         = []byte("m/")
	keyJournalPrefix      = []byte("j/")
	keyInvalidationPrefix = []byte("i/")
	keyShareInfo          = []byte("info")
	keyMaxMetahandle      = []byte("maxmeta")
)

// PebbleStore keeps the directory and the invalidation state in one pebble
// database. It implements both [directory.BackingStore] and
// [invalidation.StateStore].
type PebbleStore struct {
	db     *pebble.DB
	logger *logger.Logger
}

var (
	_ directory.BackingStore  = (*PebbleStore)(nil)
	_ invalidation.StateStore = (*PebbleStore)(nil)
)

// OpenPebbleStore opens (or creates) the database at path. opts may be nil.
func OpenPebbleStore(path string, opts *pebble.Options, log *logger.Logger) (*PebbleStore, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		log.Err(err).Str("func", "OpenPebbleStore").Str("path", path).Msg("error opening pebble database")
		return nil, fmt.Errorf("%w: %w", ErrPebble, err)
	}
	return &PebbleStore{db: db, logger: log}, nil
}

func metaKey(h int64) []byte {
	return binary.BigEndian.AppendUint64(bytes.Clone(keyMetaPrefix), uint64(h))
}

func journalKey(id directory.ID) []byte {
	return append(bytes.Clone(keyJournalPrefix), id...)
}

func invalidationKey(s invalidation.UnackedState) []byte {
	return fmt.Appendf(bytes.Clone(keyInvalidationPrefix), "%d/%s", s.ObjectID.Source, s.ObjectID.Name)
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	end[len(end)-1]++
	return end
}

func (s *PebbleStore) Load(_ context.Context) (*directory.LoadedState, error) {
	state := &directory.LoadedState{Info: directory.PersistedKernelInfo{}.Clone()}

	err := s.scan(keyMetaPrefix, func(key, value []byte) error {
		var k directory.EntryKernel
		if err := json.Unmarshal(value, &k); err != nil {
			return fmt.Errorf("%w: %x: %w", ErrCorruptedKernel, key, err)
		}
		state.Entries = append(state.Entries, k)
		return nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*PebbleStore.Load").Msg("failed to load entries")
		return nil, err
	}

	err = s.scan(keyJournalPrefix, func(key, value []byte) error {
		var k directory.EntryKernel
		if err := json.Unmarshal(value, &k); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorruptedKernel, key, err)
		}
		state.DeleteJournals = append(state.DeleteJournals, k)
		return nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*PebbleStore.Load").Msg("failed to load delete journals")
		return nil, err
	}

	if err = s.get(keyShareInfo, func(value []byte) error {
		var info directory.PersistedKernelInfo
		if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptedInfo, err)
		}
		state.Info = info.Clone()
		return nil
	}); err != nil {
		s.logger.Err(err).Str("func", "*PebbleStore.Load").Msg("failed to load share info")
		return nil, err
	}

	if err = s.get(keyMaxMetahandle, func(value []byte) error {
		if len(value) != 8 {
			return fmt.Errorf("%w: max metahandle of %d bytes", ErrCorruptedInfo, len(value))
		}
		state.MaxMetahandle = int64(binary.BigEndian.Uint64(value))
		return nil
	}); err != nil {
		s.logger.Err(err).Str("func", "*PebbleStore.Load").Msg("failed to load max metahandle")
		return nil, err
	}

	s.logger.Debug().
		Str("func", "*PebbleStore.Load").
		Int("entries", len(state.Entries)).
		Int("delete_journals", len(state.DeleteJournals)).
		Msg("directory loaded")
	return state, nil
}

// SaveChanges writes the snapshot as one synced batch.
func (s *PebbleStore) SaveChanges(_ context.Context, snapshot *directory.SaveChangesSnapshot) error {
	b := s.db.NewBatch()
	defer b.Close()

	for _, k := range snapshot.DirtyMetas {
		value, err := json.Marshal(k)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptedKernel, err)
		}
		if err = b.Set(metaKey(k.Metahandle), value, nil); err != nil {
			return fmt.Errorf("%w: %w", ErrPebble, err)
		}
	}
	for _, h := range snapshot.MetahandlesToPurge {
		if err := b.Delete(metaKey(h), nil); err != nil {
			return fmt.Errorf("%w: %w", ErrPebble, err)
		}
	}
	for _, k := range snapshot.DeleteJournals {
		value, err := json.Marshal(k)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptedKernel, err)
		}
		if err = b.Set(journalKey(k.ID), value, nil); err != nil {
			return fmt.Errorf("%w: %w", ErrPebble, err)
		}
	}
	for _, id := range snapshot.DeleteJournalsToPurge {
		if err := b.Delete(journalKey(id), nil); err != nil {
			return fmt.Errorf("%w: %w", ErrPebble, err)
		}
	}
	if snapshot.InfoDirty {
		value, err := json.Marshal(snapshot.Info)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptedInfo, err)
		}
		if err = b.Set(keyShareInfo, value, nil); err != nil {
			return fmt.Errorf("%w: %w", ErrPebble, err)
		}
	}

	maxMeta := snapshot.MaxMetahandle
	if err := s.get(keyMaxMetahandle, func(value []byte) error {
		if len(value) == 8 {
			maxMeta = max(maxMeta, int64(binary.BigEndian.Uint64(value)))
		}
		return nil
	}); err != nil {
		return err
	}
	if err := b.Set(keyMaxMetahandle, binary.BigEndian.AppendUint64(nil, uint64(maxMeta)), nil); err != nil {
		return fmt.Errorf("%w: %w", ErrPebble, err)
	}

	if err := b.Commit(pebble.Sync); err != nil {
		s.logger.Err(err).Str("func", "*PebbleStore.SaveChanges").
			Int("dirty", len(snapshot.DirtyMetas)).
			Msg("failed to commit batch")
		return fmt.Errorf("%w: %w", ErrPebble, err)
	}
	return nil
}

func (s *PebbleStore) LoadInvalidationState(_ context.Context) ([]invalidation.UnackedState, error) {
	var states []invalidation.UnackedState
	err := s.scan(keyInvalidationPrefix, func(key, value []byte) error {
		var state invalidation.UnackedState
		if err := json.Unmarshal(value, &state); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorruptedInvalidations, key, err)
		}
		states = append(states, state)
		return nil
	})
	if err != nil {
		s.logger.Err(err).Str("func", "*PebbleStore.LoadInvalidationState").Msg("failed to load invalidations")
		return nil, err
	}
	return states, nil
}

// SaveInvalidationState replaces everything stored with states.
func (s *PebbleStore) SaveInvalidationState(_ context.Context, states []invalidation.UnackedState) error {
	b := s.db.NewBatch()
	defer b.Close()

	if err := b.DeleteRange(keyInvalidationPrefix, prefixUpperBound(keyInvalidationPrefix), nil); err != nil {
		return fmt.Errorf("%w: %w", ErrPebble, err)
	}
	for _, state := range states {
		value, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorruptedInvalidations, err)
		}
		if err = b.Set(invalidationKey(state), value, nil); err != nil {
			return fmt.Errorf("%w: %w", ErrPebble, err)
		}
	}

	if err := b.Commit(pebble.Sync); err != nil {
		s.logger.Err(err).Str("func", "*PebbleStore.SaveInvalidationState").Msg("failed to commit batch")
		return fmt.Errorf("%w: %w", ErrPebble, err)
	}
	return nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func (s *PebbleStore) scan(prefix []byte, fn func(key, value []byte) error) error {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPebble, err)
	}
	defer it.Close()

	for valid := it.First(); valid; valid = it.Next() {
		if err = fn(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	if err = it.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPebble, err)
	}
	return nil
}

// get calls fn with the value of key. A missing key is not an error.
func (s *PebbleStore) get(key []byte, fn func(value []byte) error) error {
	value, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPebble, err)
	}
	defer closer.Close()
	return fn(value)
}
