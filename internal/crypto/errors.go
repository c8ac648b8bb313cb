package crypto

import "errors"

var (
	// ErrCiphertextTooShort is returned when a blob is shorter than the
	// AES-GCM nonce.
	ErrCiphertextTooShort = errors.New("ciphertext too short")

	// ErrDecrypt is returned when authentication of a blob fails, which
	// almost always means the wrong key.
	ErrDecrypt = errors.New("decryption failed")

	// ErrUnknownKey is returned when no installed key carries the name a
	// blob was encrypted with.
	ErrUnknownKey = errors.New("unknown encryption key")

	// ErrNoDefaultKey is returned by Encrypt before any key is installed.
	ErrNoDefaultKey = errors.New("no default encryption key")

	// ErrNoPendingKeys is returned by DecryptPendingKeys when nothing is
	// pending.
	ErrNoPendingKeys = errors.New("no pending keys")

	// ErrEmptyPassphrase is returned when a key is derived from an empty
	// passphrase.
	ErrEmptyPassphrase = errors.New("empty passphrase")
)
