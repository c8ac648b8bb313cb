// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package encryption owns the Nigori keybag and the passphrase type state
// machine.
//
// Passphrase types only move forward: IMPLICIT may become KEYSTORE,
// FROZEN_IMPLICIT or CUSTOM, KEYSTORE may become FROZEN_IMPLICIT or CUSTOM,
// and CUSTOM is terminal. A Nigori record older than the local state never
// regresses it; the manager rewrites the record instead so the next commit
// overwrites the remote copy.
//
// Key material never leaves the manager. The update pipeline only asks
// whether a payload can be decrypted and for its plaintext.
package encryption

import (
	"encoding/base64"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/crypto"
	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// Manager is the encryption manager of one directory.
type Manager struct {
	dir    *directory.Directory
	crypto crypto.Cryptographer
	log    *logger.Logger
	now    func() time.Time

	mu                    sync.Mutex
	initialized           bool
	passphraseType        models.PassphraseType
	encryptEverything     bool
	encryptedTypes        models.ModelTypeSet
	keystoreKeys          [][]byte
	keystoreMigrationTime int64
	customPassphraseTime  int64
	customPassphraseSalt  []byte
	decryptorToken        models.EncryptedData

	obsMu     sync.RWMutex
	observers []Observer
	// queued holds notifications collected under mu.
	queued []func(Observer)
}

// NewManager returns a manager for dir using c for key material. Keys
// already installed in c are kept.
func NewManager(dir *directory.Directory, c crypto.Cryptographer, log *logger.Logger) *Manager {
	return &Manager{
		dir:            dir,
		crypto:         c,
		log:            log,
		now:            time.Now,
		passphraseType: models.ImplicitPassphrase,
		encryptedTypes: models.SensitiveTypes(),
	}
}

// AddObserver registers o.
func (m *Manager) AddObserver(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.observers = append(m.observers, o)
}

// RemoveObserver unregisters o.
func (m *Manager) RemoveObserver(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	for i, obs := range m.observers {
		if obs == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

// queue records a notification; the caller holds mu.
func (m *Manager) queue(fn func(Observer)) {
	m.queued = append(m.queued, fn)
}

// unlockAndNotify releases mu and delivers the queued notifications.
func (m *Manager) unlockAndNotify() {
	queued := m.queued
	m.queued = nil
	m.mu.Unlock()

	if len(queued) == 0 {
		return
	}
	m.obsMu.RLock()
	observers := slices.Clone(m.observers)
	m.obsMu.RUnlock()
	for _, fn := range queued {
		for _, o := range observers {
			fn(o)
		}
	}
}

// Init loads the encryption state from the Nigori node and finishes any
// migration the loaded state calls for.
func (m *Manager) Init() error {
	return m.dir.Write(directory.WriterEncryption, func(tx *directory.WriteTransaction) error {
		m.mu.Lock()
		defer m.unlockAndNotify()

		upToDate := true
		node := tx.GetByServerTag(models.Nigori.RootTag())
		if node.Good() {
			if specifics := node.Specifics(); specifics.Nigori != nil {
				upToDate = m.applyNigori(*specifics.Nigori)
			}
		}

		switch {
		case m.shouldTriggerMigration():
			m.migrate(tx)
		case !upToDate:
			m.log.Debug().Str("func", "*Manager.Init").Msg("local encryption state is newer than nigori node")
			m.writeNigori(tx)
		}

		m.initialized = true
		types, everything := m.encryptedTypes, m.encryptEverything
		m.queue(func(o Observer) { o.OnEncryptedTypesChanged(types, everything) })
		m.log.Info().Str("func", "*Manager.Init").
			Stringer("passphrase_type", m.passphraseType).
			Bool("migrated", m.migratedLocked()).
			Bool("pending_keys", m.crypto.HasPendingKeys()).
			Msg("encryption manager initialized")
		return nil
	})
}

// GetPassphraseType returns the current passphrase type.
func (m *Manager) GetPassphraseType() models.PassphraseType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.passphraseType
}

// EncryptEverythingEnabled reports whether every user type is encrypted.
func (m *Manager) EncryptEverythingEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.encryptEverything
}

// GetEncryptedTypes returns the types whose payloads are encrypted.
func (m *Manager) GetEncryptedTypes() models.ModelTypeSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.encryptedTypes
}

// MigratedToKeystore reports whether the local state completed the
// keystore migration.
func (m *Manager) MigratedToKeystore() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.migratedLocked()
}

// HasPendingKeys reports whether a keybag waits for a passphrase.
func (m *Manager) HasPendingKeys() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.crypto.HasPendingKeys()
}

// NeedKeystoreKey reports whether the next download should ask the server
// for keystore keys.
func (m *Manager) NeedKeystoreKey() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keystoreKeys) == 0
}

// CanDecrypt reports whether the key data was encrypted with is known.
func (m *Manager) CanDecrypt(data models.EncryptedData) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.crypto.CanDecrypt(data)
}

// IsEncryptedWithDefaultKey reports whether data uses the current default
// key.
func (m *Manager) IsEncryptedWithDefaultKey(data models.EncryptedData) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.crypto.CanDecryptUsingDefaultKey(data)
}

// Decrypt returns the plaintext of data.
func (m *Manager) Decrypt(data models.EncryptedData) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.crypto.Decrypt(data)
}

// EncryptSpecifics encrypts s when its type is encrypted. Already
// encrypted specifics and Nigori specifics are returned as they are.
func (m *Manager) EncryptSpecifics(s models.EntitySpecifics) (models.EntitySpecifics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.encryptSpecificsLocked(s)
}

func (m *Manager) encryptSpecificsLocked(s models.EntitySpecifics) (models.EntitySpecifics, error) {
	if s.IsEncrypted() || s.Type == models.Nigori || !m.encryptedTypes.Has(s.Type) {
		return s, nil
	}
	if m.crypto.HasPendingKeys() {
		return s, ErrPendingKeys
	}
	enc, err := m.crypto.Encrypt(s.Data)
	if err != nil {
		return s, err
	}
	return models.EntitySpecifics{Type: s.Type, Encrypted: &enc}, nil
}

// DecryptSpecifics returns the plaintext form of s.
func (m *Manager) DecryptSpecifics(s models.EntitySpecifics) (models.EntitySpecifics, error) {
	if !s.IsEncrypted() {
		return s, nil
	}
	plaintext, err := m.Decrypt(*s.Encrypted)
	if err != nil {
		return s, err
	}
	return models.NewSpecifics(s.Type, plaintext), nil
}

// migratedLocked mirrors NigoriSpecifics.IsMigratedToKeystore for the
// local state.
func (m *Manager) migratedLocked() bool {
	if m.keystoreMigrationTime == 0 {
		return false
	}
	switch m.passphraseType {
	case models.KeystorePassphrase:
		return !m.encryptEverything
	case models.FrozenImplicitPassphrase, models.CustomPassphrase:
		return m.encryptEverything
	}
	return false
}

func (m *Manager) setPassphraseType(t models.PassphraseType) {
	if m.passphraseType == t {
		return
	}
	m.log.Info().Str("func", "*Manager.setPassphraseType").
		Stringer("from", m.passphraseType).
		Stringer("to", t).
		Msg("passphrase type changed")
	m.passphraseType = t
	explicitTime := m.customPassphraseTime
	m.queue(func(o Observer) { o.OnPassphraseTypeChanged(t, explicitTime) })
}

func (m *Manager) mergeEncryptedTypes(types models.ModelTypeSet, encryptEverything bool) {
	merged := m.encryptedTypes.Union(types)
	if encryptEverything {
		merged = merged.Union(models.EncryptableUserTypes())
	}
	everything := m.encryptEverything || encryptEverything
	if merged == m.encryptedTypes && everything == m.encryptEverything {
		return
	}
	m.encryptedTypes = merged
	m.encryptEverything = everything
	m.queue(func(o Observer) { o.OnEncryptedTypesChanged(merged, everything) })
}

// keystorePassphrase turns a raw keystore key into the passphrase its
// Nigori key is derived from.
func keystorePassphrase(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

func keystoreParams(key []byte) crypto.KeyParams {
	return crypto.KeyParams{Derivation: crypto.Pbkdf2Params(), Password: keystorePassphrase(key)}
}
