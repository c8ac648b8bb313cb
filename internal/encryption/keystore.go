package encryption

import (
	"bytes"
	"slices"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/models"
)

// SetKeystoreKeys installs the keystore keys returned by the server, the
// newest last. Receiving keys while unmigrated triggers the keystore
// migration; receiving more than one key after migration rotates the
// keybag to the newest key. Keys set before Init are only recorded; Init
// runs the migration once the Nigori node has been read.
func (m *Manager) SetKeystoreKeys(tx *directory.WriteTransaction, keys [][]byte) {
	if len(keys) == 0 {
		return
	}

	m.mu.Lock()
	defer m.unlockAndNotify()

	changed := !slices.EqualFunc(m.keystoreKeys, keys, bytes.Equal)
	m.keystoreKeys = make([][]byte, 0, len(keys))
	for _, k := range keys {
		m.keystoreKeys = append(m.keystoreKeys, bytes.Clone(k))
	}

	if !m.initialized {
		return
	}
	if m.crypto.HasPendingKeys() && m.tryDecryptorToken() {
		m.queue(func(o Observer) { o.OnPassphraseAccepted() })
	}

	switch {
	case m.shouldTriggerMigration():
		m.migrate(tx)
	case changed && len(keys) > 1 && m.migratedLocked():
		m.rotate(tx)
	}
}

func (m *Manager) shouldTriggerMigration() bool {
	if len(m.keystoreKeys) == 0 || m.crypto.HasPendingKeys() {
		return false
	}
	return !m.migratedLocked()
}

// migrate moves the local state to keystore semantics. A custom or frozen
// passphrase keeps its default key and forces encrypt-everything; an
// implicit passphrase becomes FROZEN_IMPLICIT when everything is encrypted
// and KEYSTORE otherwise.
func (m *Manager) migrate(tx *directory.WriteTransaction) {
	current := m.keystoreKeys[len(m.keystoreKeys)-1]
	m.addKeystoreKeysAsNonDefault()

	switch m.passphraseType {
	case models.CustomPassphrase, models.FrozenImplicitPassphrase:
		m.mergeEncryptedTypes(0, true)
	default:
		if m.encryptEverything {
			m.setPassphraseType(models.FrozenImplicitPassphrase)
			if !m.crypto.CanEncrypt() {
				_, _ = m.crypto.AddKey(keystoreParams(current))
			}
			break
		}
		if _, err := m.crypto.AddKey(keystoreParams(current)); err != nil {
			m.log.Err(err).Str("func", "*Manager.migrate").Msg("error installing keystore key")
			return
		}
		token, err := makeDecryptorToken(current)
		if err != nil {
			m.log.Err(err).Str("func", "*Manager.migrate").Msg("error building keystore decryptor token")
			return
		}
		m.decryptorToken = token
		m.setPassphraseType(models.KeystorePassphrase)
	}

	if m.keystoreMigrationTime == 0 {
		m.keystoreMigrationTime = m.now().UnixMilli()
	}
	m.log.Info().Str("func", "*Manager.migrate").
		Stringer("passphrase_type", m.passphraseType).
		Bool("encrypt_everything", m.encryptEverything).
		Msg("migrated to keystore")

	m.writeNigori(tx)
	m.reEncryptLocked(tx)
}

// rotate makes the newest keystore key the default of a keystore
// passphrase. Other passphrase types keep their default key; the keybag is
// rewritten either way so it carries the new key.
func (m *Manager) rotate(tx *directory.WriteTransaction) {
	current := m.keystoreKeys[len(m.keystoreKeys)-1]
	m.addKeystoreKeysAsNonDefault()

	if m.passphraseType == models.KeystorePassphrase {
		name, err := m.crypto.AddKey(keystoreParams(current))
		if err != nil {
			m.log.Err(err).Str("func", "*Manager.rotate").Msg("error installing rotated keystore key")
			return
		}
		token, err := makeDecryptorToken(current)
		if err != nil {
			m.log.Err(err).Str("func", "*Manager.rotate").Msg("error building keystore decryptor token")
			return
		}
		m.decryptorToken = token
		m.log.Info().Str("func", "*Manager.rotate").Str("default_key", name).Msg("keystore key rotated")
	}

	m.writeNigori(tx)
	m.reEncryptLocked(tx)
}

func (m *Manager) addKeystoreKeysAsNonDefault() {
	for _, k := range m.keystoreKeys {
		if _, err := m.crypto.AddNonDefaultKey(keystoreParams(k)); err != nil {
			m.log.Err(err).Str("func", "*Manager.addKeystoreKeysAsNonDefault").Msg("error installing keystore key")
		}
	}
}
