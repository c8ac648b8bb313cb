package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/validators"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/stretchr/testify/require"
)

const (
	bookmarksRootWireID = "bookmarks_root_id"
	defaultKeyName      = "default"
)

var errUnknownKey = errors.New("unknown key")

// fakeEncryption "encrypts" by moving the plaintext into the blob under the
// default key name. Keys listed in missing cannot be decrypted.
type fakeEncryption struct {
	encrypted models.ModelTypeSet
	pending   bool
	missing   map[string]bool

	nigori   []models.NigoriSpecifics
	keystore [][]byte
}

func (f *fakeEncryption) CanDecrypt(data models.EncryptedData) bool {
	return !f.missing[data.KeyName]
}

func (f *fakeEncryption) IsEncryptedWithDefaultKey(data models.EncryptedData) bool {
	return data.KeyName == defaultKeyName
}

func (f *fakeEncryption) Decrypt(data models.EncryptedData) ([]byte, error) {
	if !f.CanDecrypt(data) {
		return nil, errUnknownKey
	}
	return []byte(data.Blob), nil
}

func (f *fakeEncryption) EncryptSpecifics(s models.EntitySpecifics) (models.EntitySpecifics, error) {
	if !f.encrypted.Has(s.Type) || s.IsEncrypted() || s.Type == models.Nigori {
		return s, nil
	}
	return encryptedSpecifics(s.Type, defaultKeyName, string(s.Data)), nil
}

func (f *fakeEncryption) GetEncryptedTypes() models.ModelTypeSet { return f.encrypted }
func (f *fakeEncryption) HasPendingKeys() bool                   { return f.pending }
func (f *fakeEncryption) NeedKeystoreKey() bool                  { return false }

func (f *fakeEncryption) ApplyNigoriUpdate(_ *directory.WriteTransaction, nigori models.NigoriSpecifics) {
	f.nigori = append(f.nigori, nigori)
}

func (f *fakeEncryption) SetKeystoreKeys(_ *directory.WriteTransaction, keys [][]byte) {
	f.keystore = keys
}

func encryptedSpecifics(t models.ModelType, keyName, blob string) models.EntitySpecifics {
	return models.EntitySpecifics{Type: t, Encrypted: &models.EncryptedData{KeyName: keyName, Blob: blob}}
}

func bookmarkSpecifics(payload string) models.EntitySpecifics {
	return models.NewSpecifics(models.Bookmarks, []byte(`"`+payload+`"`))
}

// pipeline bundles a directory with every pipeline stage.
type pipeline struct {
	dir        *directory.Directory
	enc        *fakeEncryption
	root       directory.ID
	processor  *UpdateProcessor
	applicator *UpdateApplicator
	builder    *CommitBuilder
	committer  *CommitResponseProcessor
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	dir, err := directory.Open(context.Background(), "test", directory.NewInMemoryBackingStore(), logger.Nop())
	require.NoError(t, err)

	root := directory.IDFromServer(bookmarksRootWireID)
	require.NoError(t, dir.Write(directory.WriterUnittest, func(tx *directory.WriteTransaction) error {
		_, err := tx.CreatePermanentFolder(models.Bookmarks, root)
		return err
	}))

	enc := &fakeEncryption{missing: map[string]bool{}}
	v := validators.NewSyncEntityValidator()
	return &pipeline{
		dir:        dir,
		enc:        enc,
		root:       root,
		processor:  NewUpdateProcessor(v, logger.Nop()),
		applicator: NewUpdateApplicator(enc, logger.Nop()),
		builder:    NewCommitBuilder(enc, DefaultMaxCommitBatchSize, logger.Nop()),
		committer:  NewCommitResponseProcessor(v, logger.Nop()),
	}
}

func (p *pipeline) write(t *testing.T, fn func(tx *directory.WriteTransaction)) {
	t.Helper()
	require.NoError(t, p.dir.Write(directory.WriterUnittest, func(tx *directory.WriteTransaction) error {
		fn(tx)
		return nil
	}))
}

func (p *pipeline) read(t *testing.T, fn func(tx *directory.ReadTransaction)) {
	t.Helper()
	require.NoError(t, p.dir.Read(func(tx *directory.ReadTransaction) error {
		fn(tx)
		return nil
	}))
}

// store runs the updates through the update processor.
func (p *pipeline) store(t *testing.T, updates ...models.SyncEntity) DownloadCounters {
	t.Helper()
	var c DownloadCounters
	p.write(t, func(tx *directory.WriteTransaction) {
		c = p.processor.ProcessUpdates(context.Background(), tx, updates)
	})
	return c
}

func (p *pipeline) apply(t *testing.T) UpdateCounters {
	t.Helper()
	var c UpdateCounters
	p.write(t, func(tx *directory.WriteTransaction) {
		c = p.applicator.ApplyUpdates(tx, models.ProtocolTypes())
	})
	return c
}

// storeAndApply brings server items into a synced local state.
func (p *pipeline) storeAndApply(t *testing.T, updates ...models.SyncEntity) UpdateCounters {
	t.Helper()
	p.store(t, updates...)
	return p.apply(t)
}

// newLocalItem creates an unsynced bookmark under parent.
func newLocalItem(tx *directory.WriteTransaction, parent directory.ID, name string, folder bool) *directory.MutableEntry {
	e := tx.CreateEntry(models.Bookmarks, parent, name)
	e.PutIsDir(folder)
	e.PutSpecifics(bookmarkSpecifics(name))
	e.PutIsUnsynced(true)
	return e
}

func bookmarkUpdate(id, parent, name string, version int64, folder bool) models.SyncEntity {
	return models.SyncEntity{
		IDString:       id,
		ParentIDString: parent,
		Version:        version,
		Name:           name,
		Folder:         folder,
		Specifics:      bookmarkSpecifics(name),
		Mtime:          1000 * version,
		Ctime:          1000,
	}
}

func deletionUpdate(id string, version int64) models.SyncEntity {
	return models.SyncEntity{IDString: id, Version: version, Deleted: true}
}

// successResponse answers every item of req with a server id of the form
// "srv-<n>" and the given version.
func successResponse(req models.CommitRequest, version int64) models.CommitResponse {
	resp := models.CommitResponse{Entries: make([]models.CommitResponseEntry, len(req.Entries))}
	for i, e := range req.Entries {
		id := e.IDString
		if e.Version == 0 {
			id = "srv-" + e.NonUniqueName
		}
		resp.Entries[i] = models.CommitResponseEntry{
			ResponseType: models.CommitSuccess,
			IDString:     id,
			Version:      version,
		}
	}
	return resp
}
