package encryption

import (
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/crypto"
	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/models"
)

// SetEncryptionPassphrase switches the account to a custom passphrase. The
// new key becomes the default, every user type gets encrypted and all
// entries are re-encrypted.
func (m *Manager) SetEncryptionPassphrase(passphrase string) error {
	return m.dir.Write(directory.WriterEncryption, func(tx *directory.WriteTransaction) error {
		m.mu.Lock()
		defer m.unlockAndNotify()

		if m.crypto.HasPendingKeys() {
			return ErrPendingKeys
		}
		if m.passphraseType.IsExplicit() {
			return ErrExplicitPassphraseSet
		}

		salt, err := crypto.GenerateSalt()
		if err != nil {
			return fmt.Errorf("generate passphrase salt: %w", err)
		}
		if _, err = m.crypto.AddKey(crypto.KeyParams{Derivation: crypto.Argon2idParams(salt), Password: passphrase}); err != nil {
			return err
		}

		m.customPassphraseSalt = salt
		m.customPassphraseTime = m.now().UnixMilli()
		m.decryptorToken = models.EncryptedData{}
		m.mergeEncryptedTypes(0, true)
		m.setPassphraseType(models.CustomPassphrase)
		if len(m.keystoreKeys) > 0 {
			m.addKeystoreKeysAsNonDefault()
			if m.keystoreMigrationTime == 0 {
				m.keystoreMigrationTime = m.now().UnixMilli()
			}
		}

		m.writeNigori(tx)
		m.reEncryptLocked(tx)
		m.queue(func(o Observer) { o.OnPassphraseAccepted() })
		return nil
	})
}

// SetDecryptionPassphrase supplies the passphrase of a pending keybag. On
// success the keys are installed, a due keystore migration runs and all
// entries are re-encrypted with the default key.
func (m *Manager) SetDecryptionPassphrase(passphrase string) error {
	return m.dir.Write(directory.WriterEncryption, func(tx *directory.WriteTransaction) error {
		m.mu.Lock()
		defer m.unlockAndNotify()

		if !m.crypto.HasPendingKeys() {
			return ErrNoPendingKeys
		}
		if err := m.crypto.DecryptPendingKeys(m.passphraseParams(passphrase)); err != nil {
			pending := m.crypto.PendingKeys()
			m.queue(func(o Observer) { o.OnPassphraseRequired(pending) })
			return fmt.Errorf("%w: %w", ErrWrongPassphrase, err)
		}
		m.queue(func(o Observer) { o.OnPassphraseAccepted() })
		m.log.Info().Str("func", "*Manager.SetDecryptionPassphrase").Msg("pending keys decrypted")

		if m.shouldTriggerMigration() {
			m.migrate(tx)
			return nil
		}
		m.writeNigori(tx)
		m.reEncryptLocked(tx)
		return nil
	})
}

// passphraseParams picks the derivation a user passphrase was set with.
func (m *Manager) passphraseParams(passphrase string) crypto.KeyParams {
	if m.passphraseType == models.CustomPassphrase && len(m.customPassphraseSalt) > 0 {
		return crypto.KeyParams{Derivation: crypto.Argon2idParams(m.customPassphraseSalt), Password: passphrase}
	}
	return crypto.KeyParams{Derivation: crypto.Pbkdf2Params(), Password: passphrase}
}

// EnableEncryptEverything encrypts every user type from now on. A keystore
// passphrase cannot cover every type and becomes FROZEN_IMPLICIT.
func (m *Manager) EnableEncryptEverything() error {
	return m.dir.Write(directory.WriterEncryption, func(tx *directory.WriteTransaction) error {
		m.mu.Lock()
		defer m.unlockAndNotify()

		if m.encryptEverything {
			return nil
		}
		if m.crypto.HasPendingKeys() {
			return ErrPendingKeys
		}

		m.mergeEncryptedTypes(0, true)
		if m.passphraseType == models.KeystorePassphrase {
			m.decryptorToken = models.EncryptedData{}
			m.setPassphraseType(models.FrozenImplicitPassphrase)
		}

		if m.shouldTriggerMigration() {
			m.migrate(tx)
			return nil
		}
		m.writeNigori(tx)
		m.reEncryptLocked(tx)
		return nil
	})
}

// ReEncryptEverything re-encrypts every entry of an encrypted type that is
// plaintext or uses a key other than the default.
func (m *Manager) ReEncryptEverything() error {
	return m.dir.Write(directory.WriterEncryption, func(tx *directory.WriteTransaction) error {
		m.mu.Lock()
		defer m.unlockAndNotify()
		m.reEncryptLocked(tx)
		return nil
	})
}

func (m *Manager) reEncryptLocked(tx *directory.WriteTransaction) {
	if m.crypto.HasPendingKeys() || !m.crypto.CanEncrypt() {
		return
	}

	count := 0
	for _, h := range tx.GetAllMetaHandles() {
		e := tx.GetMutableByHandle(h)
		t := e.ModelType()
		if !m.encryptedTypes.Has(t) || e.IsRoot() || e.IsDel() || e.UniqueServerTag() != "" || e.IsUnappliedUpdate() {
			continue
		}

		specifics := e.Specifics()
		if specifics.IsEncrypted() {
			if m.crypto.CanDecryptUsingDefaultKey(*specifics.Encrypted) {
				continue
			}
			plaintext, err := m.crypto.Decrypt(*specifics.Encrypted)
			if err != nil {
				m.log.Err(err).Str("func", "*Manager.reEncryptLocked").Int64("metahandle", h).Msg("error decrypting entry")
				continue
			}
			specifics = models.NewSpecifics(t, plaintext)
		}

		encrypted, err := m.encryptSpecificsLocked(specifics)
		if err != nil {
			m.log.Err(err).Str("func", "*Manager.reEncryptLocked").Int64("metahandle", h).Msg("error encrypting entry")
			continue
		}
		e.PutSpecifics(encrypted)
		e.PutIsUnsynced(true)
		count++
	}
	if count > 0 {
		m.log.Info().Str("func", "*Manager.reEncryptLocked").Int("entries", count).Msg("entries re-encrypted")
	}
}
