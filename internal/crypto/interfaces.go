package crypto

import "github.com/MKhiriev/go-sync-engine/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/cryptographer_mock.go -package=mock

// Cryptographer holds the installed Nigori keys and encrypts and decrypts
// payloads with them. Exactly one installed key is the default; new
// payloads are always encrypted with it.
//
// A keybag that arrives encrypted with an unknown key is kept as pending
// until the passphrase of that key is supplied through DecryptPendingKeys.
//
// Implementations are not safe for concurrent use; the encryption manager
// serializes access.
type Cryptographer interface {
	// AddKey derives a key from params, installs it and makes it the
	// default. Returns the key name.
	AddKey(params KeyParams) (string, error)

	// AddNonDefaultKey derives and installs a key without changing the
	// default.
	AddNonDefaultKey(params KeyParams) (string, error)

	// HasKey reports whether a key with name is installed.
	HasKey(name string) bool

	// SetDefaultKey selects an installed key as the default.
	SetDefaultKey(name string) error

	// DefaultKeyName returns the name of the default key, or an empty
	// string before any key is installed.
	DefaultKeyName() string

	// KeyNames returns the names of every installed key.
	KeyNames() []string

	// CanEncrypt reports whether a default key is installed.
	CanEncrypt() bool

	// CanDecrypt reports whether the key data was encrypted with is
	// installed.
	CanDecrypt(data models.EncryptedData) bool

	// CanDecryptUsingDefaultKey reports whether data is encrypted with the
	// current default key.
	CanDecryptUsingDefaultKey(data models.EncryptedData) bool

	// Encrypt seals plaintext with the default key.
	Encrypt(plaintext []byte) (models.EncryptedData, error)

	// Decrypt opens data with the key it names.
	Decrypt(data models.EncryptedData) ([]byte, error)

	// GetKeys returns every installed key as a keybag encrypted with the
	// default key.
	GetKeys() (models.EncryptedData, error)

	// KeybagIsStale reports whether keybag lacks any installed key or
	// cannot be decrypted at all.
	KeybagIsStale(keybag models.EncryptedData) bool

	// InstallKeys merges a keybag encrypted with an installed key. The key
	// that encrypted the keybag becomes the default.
	InstallKeys(keybag models.EncryptedData) error

	// SetPendingKeys stores a keybag that cannot be decrypted yet.
	SetPendingKeys(keybag models.EncryptedData)

	// HasPendingKeys reports whether a keybag is waiting for its
	// passphrase.
	HasPendingKeys() bool

	// PendingKeys returns the waiting keybag.
	PendingKeys() models.EncryptedData

	// DecryptPendingKeys derives a key from params and uses it to install
	// the pending keybag. On success the pending state is cleared.
	DecryptPendingKeys(params KeyParams) error
}
