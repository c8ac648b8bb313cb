package encryption

import (
	"github.com/MKhiriev/go-sync-engine/internal/crypto"
	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/models"
)

// passphraseRank orders passphrase types along the one-way migration path.
func passphraseRank(t models.PassphraseType) int {
	switch t {
	case models.ImplicitPassphrase:
		return 1
	case models.KeystorePassphrase:
		return 2
	case models.FrozenImplicitPassphrase:
		return 3
	case models.CustomPassphrase:
		return 4
	}
	return 0
}

// ApplyNigoriUpdate merges a Nigori record received from the server. When
// the record is older than the local state the node is rewritten and
// marked unsynced, so the next commit overwrites the remote copy.
func (m *Manager) ApplyNigoriUpdate(tx *directory.WriteTransaction, nigori models.NigoriSpecifics) {
	m.mu.Lock()
	defer m.unlockAndNotify()

	upToDate := m.applyNigori(nigori)
	switch {
	case m.shouldTriggerMigration():
		m.migrate(tx)
		return
	case !upToDate:
		m.log.Info().Str("func", "*Manager.ApplyNigoriUpdate").
			Stringer("remote_passphrase_type", nigori.PassphraseType).
			Stringer("local_passphrase_type", m.passphraseType).
			Msg("nigori record is stale, scheduling overwrite")
		m.writeNigori(tx)
	}
	m.reEncryptLocked(tx)
}

// applyNigori merges nigori into the local state and reports whether the
// record already reflects everything known locally.
func (m *Manager) applyNigori(nigori models.NigoriSpecifics) bool {
	upToDate := true

	if nigori.IsMigratedToKeystore() {
		if m.keystoreMigrationTime == 0 {
			m.keystoreMigrationTime = nigori.KeystoreMigrationTime
		}
	} else if m.migratedLocked() {
		upToDate = false
	}

	switch remote, local := passphraseRank(nigori.PassphraseType), passphraseRank(m.passphraseType); {
	case remote > local:
		if nigori.PassphraseType == models.CustomPassphrase {
			m.customPassphraseTime = nigori.CustomPassphraseTime
			m.customPassphraseSalt = append([]byte(nil), nigori.CustomPassphraseSalt...)
		}
		m.setPassphraseType(nigori.PassphraseType)
	case remote < local:
		upToDate = false
	}
	if m.passphraseType == models.KeystorePassphrase && !nigori.KeystoreDecryptorToken.IsEmpty() {
		m.decryptorToken = nigori.KeystoreDecryptorToken
	}

	m.mergeEncryptedTypes(nigori.EncryptedTypes, nigori.EncryptEverything)
	if !nigori.EncryptedTypes.HasAll(m.encryptedTypes) || nigori.EncryptEverything != m.encryptEverything {
		upToDate = false
	}

	keybag := nigori.EncryptionKeybag
	switch {
	case keybag.IsEmpty():
		if m.crypto.CanEncrypt() {
			upToDate = false
		}
	case m.crypto.CanDecrypt(keybag):
		previous := m.crypto.DefaultKeyName()
		if err := m.crypto.InstallKeys(keybag); err != nil {
			m.log.Err(err).Str("func", "*Manager.applyNigori").Msg("error installing nigori keybag")
			return false
		}
		if m.crypto.KeybagIsStale(keybag) {
			// a stale keybag must not move the default key back
			if previous != "" {
				_ = m.crypto.SetDefaultKey(previous)
			}
			upToDate = false
		}
	default:
		m.crypto.SetPendingKeys(keybag)
		if m.tryDecryptorToken() {
			m.queue(func(o Observer) { o.OnPassphraseAccepted() })
			break
		}
		m.log.Info().Str("func", "*Manager.applyNigori").
			Str("key_name", keybag.KeyName).
			Msg("nigori keybag cannot be decrypted, passphrase required")
		m.queue(func(o Observer) { o.OnPassphraseRequired(keybag) })
	}
	return upToDate
}

// tryDecryptorToken unlocks a pending keystore keybag with the decryptor
// token and the known keystore keys.
func (m *Manager) tryDecryptorToken() bool {
	if m.passphraseType != models.KeystorePassphrase || m.decryptorToken.IsEmpty() {
		return false
	}
	for i := len(m.keystoreKeys) - 1; i >= 0; i-- {
		n, err := crypto.NewNigori(keystoreParams(m.keystoreKeys[i]))
		if err != nil || n.Name() != m.decryptorToken.KeyName {
			continue
		}
		passphrase, err := n.Decrypt(m.decryptorToken.Blob)
		if err != nil {
			m.log.Err(err).Str("func", "*Manager.tryDecryptorToken").Msg("error decrypting keystore decryptor token")
			return false
		}
		params := crypto.KeyParams{Derivation: crypto.Pbkdf2Params(), Password: string(passphrase)}
		if err = m.crypto.DecryptPendingKeys(params); err != nil {
			m.log.Err(err).Str("func", "*Manager.tryDecryptorToken").Msg("decryptor token does not unlock pending keys")
			return false
		}
		return true
	}
	return false
}

// makeDecryptorToken encrypts the passphrase of the keystore default key
// with the keystore key itself.
func makeDecryptorToken(key []byte) (models.EncryptedData, error) {
	n, err := crypto.NewNigori(keystoreParams(key))
	if err != nil {
		return models.EncryptedData{}, err
	}
	blob, err := n.Encrypt([]byte(keystorePassphrase(key)))
	if err != nil {
		return models.EncryptedData{}, err
	}
	return models.EncryptedData{KeyName: n.Name(), Blob: blob}, nil
}

// buildNigori renders the local state as a Nigori record. current is the
// record in the node; its keybag is reused when it already holds every key.
func (m *Manager) buildNigori(current *models.NigoriSpecifics) (models.NigoriSpecifics, error) {
	n := models.NigoriSpecifics{
		KeybagIsFrozen:       m.migratedLocked(),
		EncryptEverything:    m.encryptEverything,
		EncryptedTypes:       m.encryptedTypes,
		PassphraseType:       m.passphraseType,
		CustomPassphraseTime: m.customPassphraseTime,
		CustomPassphraseSalt: append([]byte(nil), m.customPassphraseSalt...),
	}
	if n.KeybagIsFrozen {
		n.KeystoreMigrationTime = m.keystoreMigrationTime
	}
	if m.passphraseType == models.KeystorePassphrase {
		n.KeystoreDecryptorToken = m.decryptorToken
	}
	if len(n.CustomPassphraseSalt) == 0 {
		n.CustomPassphraseSalt = nil
	}

	if current != nil && !current.EncryptionKeybag.IsEmpty() &&
		m.crypto.CanDecryptUsingDefaultKey(current.EncryptionKeybag) &&
		!m.crypto.KeybagIsStale(current.EncryptionKeybag) {
		n.EncryptionKeybag = current.EncryptionKeybag
		return n, nil
	}
	keybag, err := m.crypto.GetKeys()
	if err != nil {
		return n, err
	}
	n.EncryptionKeybag = keybag
	return n, nil
}

// writeNigori stores the local state in the Nigori node and marks it
// unsynced when it changed. Nothing is written while keys are pending or
// before the node was downloaded.
func (m *Manager) writeNigori(tx *directory.WriteTransaction) {
	if m.crypto.HasPendingKeys() || !m.crypto.CanEncrypt() {
		return
	}
	node := tx.GetMutableByServerTag(models.Nigori.RootTag())
	if !node.Good() {
		m.log.Debug().Str("func", "*Manager.writeNigori").Msg("nigori node not downloaded yet")
		return
	}

	current := node.Specifics().Nigori
	nigori, err := m.buildNigori(current)
	if err != nil {
		m.log.Err(err).Str("func", "*Manager.writeNigori").Msg("error building nigori record")
		return
	}
	if current != nil && current.Equal(nigori) {
		return
	}
	node.PutSpecifics(models.EntitySpecifics{Type: models.Nigori, Nigori: &nigori})
	node.PutIsUnsynced(true)
}
