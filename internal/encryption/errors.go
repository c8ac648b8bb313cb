package encryption

import "errors"

var (
	// ErrPendingKeys is returned when an operation needs every key but the
	// keybag is still waiting for its passphrase.
	ErrPendingKeys = errors.New("encryption keys are pending a passphrase")

	// ErrNoPendingKeys is returned by SetDecryptionPassphrase when nothing
	// is waiting for a passphrase.
	ErrNoPendingKeys = errors.New("no encryption keys pending")

	// ErrWrongPassphrase is returned when a passphrase does not decrypt the
	// pending keybag.
	ErrWrongPassphrase = errors.New("wrong passphrase")

	// ErrExplicitPassphraseSet is returned when a custom passphrase is set
	// while an explicit passphrase is already in use.
	ErrExplicitPassphraseSet = errors.New("explicit passphrase already set")
)
