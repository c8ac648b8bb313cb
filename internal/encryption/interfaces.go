package encryption

import "github.com/MKhiriev/go-sync-engine/models"

// Observer is told about encryption state changes. Notifications are
// delivered after the manager lock is released but may arrive while the
// caller still holds a directory write transaction, so observers must not
// open directory transactions themselves.
type Observer interface {
	// OnPassphraseRequired is called when a keybag cannot be decrypted with
	// any known key.
	OnPassphraseRequired(pending models.EncryptedData)
	// OnPassphraseAccepted is called once pending keys were decrypted.
	OnPassphraseAccepted()
	// OnEncryptedTypesChanged is called when the encrypted type set grows.
	OnEncryptedTypesChanged(types models.ModelTypeSet, encryptEverything bool)
	// OnPassphraseTypeChanged is called on every passphrase type
	// transition.
	OnPassphraseTypeChanged(passphraseType models.PassphraseType, explicitPassphraseTime int64)
}
