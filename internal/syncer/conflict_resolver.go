package syncer

import (
	"bytes"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// ConflictResolver resolves simple conflicts: the server state wins.
type ConflictResolver struct {
	enc EncryptionHandler
	log *logger.Logger
}

func NewConflictResolver(enc EncryptionHandler, log *logger.Logger) *ConflictResolver {
	return &ConflictResolver{enc: enc, log: log}
}

// ResolveSimpleConflicts adopts the server state of every entry and returns
// the number of entries it resolved.
func (r *ConflictResolver) ResolveSimpleConflicts(tx *directory.WriteTransaction, handles []int64) int {
	resolved := 0
	for _, h := range handles {
		entry := tx.GetMutableByHandle(h)
		if !entry.Good() || !entry.IsUnappliedUpdate() {
			continue
		}
		r.processSimpleConflict(tx, entry)
		resolved++
	}
	return resolved
}

func (r *ConflictResolver) processSimpleConflict(tx *directory.WriteTransaction, entry *directory.MutableEntry) {
	if r.identicalToServer(entry) {
		// nothing left to commit
		entry.PutBaseVersion(entry.ServerVersion())
		entry.PutIsUnsynced(false)
		entry.PutIsUnappliedUpdate(false)
		r.log.Debug().Str("func", "*ConflictResolver.processSimpleConflict").
			Int64("metahandle", entry.Metahandle()).
			Msg("local and server state are identical")
		return
	}

	UpdateLocalDataFromServerData(tx, entry)
	recommit := r.needsRecommit(entry)
	entry.PutIsUnsynced(recommit)
	r.log.Debug().Str("func", "*ConflictResolver.processSimpleConflict").
		Int64("metahandle", entry.Metahandle()).
		Bool("recommit", recommit).
		Msg("server wins")
}

// needsRecommit reports whether the adopted server state has to be sent
// back: an encrypted type whose payload is plaintext or uses an old key.
func (r *ConflictResolver) needsRecommit(entry *directory.MutableEntry) bool {
	t := entry.ModelType()
	if entry.IsDel() || t == models.Nigori || !r.enc.GetEncryptedTypes().Has(t) {
		return false
	}
	s := entry.Specifics()
	if !s.IsEncrypted() {
		return true
	}
	return !r.enc.IsEncryptedWithDefaultKey(*s.Encrypted)
}

func (r *ConflictResolver) identicalToServer(entry *directory.MutableEntry) bool {
	if entry.IsDel() != entry.ServerIsDel() {
		return false
	}
	if entry.IsDel() {
		return true
	}
	if entry.NonUniqueName() != entry.ServerNonUniqueName() ||
		entry.ParentID() != entry.ServerParentID() ||
		entry.IsDir() != entry.ServerIsDir() {
		return false
	}
	if entry.ShouldMaintainPosition() && !entry.UniquePosition().Equals(entry.ServerUniquePosition()) {
		return false
	}
	return r.samePayload(entry.Specifics(), entry.ServerSpecifics())
}

// samePayload compares the plaintext of two payloads when both can be
// decrypted.
func (r *ConflictResolver) samePayload(local, server models.EntitySpecifics) bool {
	if local.Equal(server) {
		return true
	}
	if local.Type != server.Type || local.Nigori != nil || server.Nigori != nil {
		return false
	}
	a, ok := r.plaintext(local)
	if !ok {
		return false
	}
	b, ok := r.plaintext(server)
	return ok && bytes.Equal(a, b)
}

func (r *ConflictResolver) plaintext(s models.EntitySpecifics) ([]byte, bool) {
	if !s.IsEncrypted() {
		return s.Data, true
	}
	data, err := r.enc.Decrypt(*s.Encrypted)
	if err != nil {
		return nil, false
	}
	return data, true
}
