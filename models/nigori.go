// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "bytes"

// PassphraseType tells how the default encryption key of an account was
// obtained.
type PassphraseType int

const (
	PassphraseUnknown PassphraseType = iota
	// ImplicitPassphrase keys are derived from the account credentials.
	ImplicitPassphrase
	// KeystorePassphrase keys are derived from server-issued keystore keys.
	KeystorePassphrase
	// FrozenImplicitPassphrase is a former implicit passphrase kept as an
	// explicit one.
	FrozenImplicitPassphrase
	// CustomPassphrase keys are derived from a passphrase the user chose.
	CustomPassphrase
)

func (p PassphraseType) String() string {
	switch p {
	case ImplicitPassphrase:
		return "IMPLICIT_PASSPHRASE"
	case KeystorePassphrase:
		return "KEYSTORE_PASSPHRASE"
	case FrozenImplicitPassphrase:
		return "FROZEN_IMPLICIT_PASSPHRASE"
	case CustomPassphrase:
		return "CUSTOM_PASSPHRASE"
	default:
		return "UNKNOWN"
	}
}

// IsExplicit reports whether the user has to type the passphrase on every
// new device.
func (p PassphraseType) IsExplicit() bool {
	return p == FrozenImplicitPassphrase || p == CustomPassphrase
}

// NigoriSpecifics is the encryption metadata record shared by all clients of
// an account.
type NigoriSpecifics struct {
	// EncryptionKeybag is the serialized keybag encrypted with the default key.
	EncryptionKeybag EncryptedData `json:"encryption_keybag"`
	// KeybagIsFrozen is set once the record has been migrated to keystore
	// semantics; frozen records never lose keys.
	KeybagIsFrozen    bool           `json:"keybag_is_frozen"`
	EncryptEverything bool           `json:"encrypt_everything"`
	EncryptedTypes    ModelTypeSet   `json:"encrypted_types"`
	PassphraseType    PassphraseType `json:"passphrase_type"`
	// KeystoreDecryptorToken is the default key encrypted with the current
	// keystore key. Present only for keystore passphrase records.
	KeystoreDecryptorToken EncryptedData `json:"keystore_decryptor_token"`
	// KeystoreMigrationTime is the unix time in milliseconds of the migration.
	KeystoreMigrationTime int64 `json:"keystore_migration_time,omitempty"`
	CustomPassphraseTime  int64 `json:"custom_passphrase_time,omitempty"`
	// CustomPassphraseSalt is the key derivation salt of a custom passphrase.
	CustomPassphraseSalt []byte `json:"custom_passphrase_salt,omitempty"`
}

// IsMigratedToKeystore reports whether n describes a record written by a
// client that completed the keystore migration.
func (n NigoriSpecifics) IsMigratedToKeystore() bool {
	if n.PassphraseType == PassphraseUnknown || n.KeystoreMigrationTime == 0 || !n.KeybagIsFrozen {
		return false
	}
	switch n.PassphraseType {
	case ImplicitPassphrase:
		return false
	case KeystorePassphrase:
		return !n.EncryptEverything
	case FrozenImplicitPassphrase, CustomPassphrase:
		return n.EncryptEverything
	}
	return false
}

// Clone returns a deep copy of n.
func (n NigoriSpecifics) Clone() NigoriSpecifics {
	out := n
	if n.CustomPassphraseSalt != nil {
		out.CustomPassphraseSalt = append([]byte(nil), n.CustomPassphraseSalt...)
	}
	return out
}

// Equal reports whether n and other are identical.
func (n NigoriSpecifics) Equal(other NigoriSpecifics) bool {
	return n.EncryptionKeybag == other.EncryptionKeybag &&
		n.KeybagIsFrozen == other.KeybagIsFrozen &&
		n.EncryptEverything == other.EncryptEverything &&
		n.EncryptedTypes == other.EncryptedTypes &&
		n.PassphraseType == other.PassphraseType &&
		n.KeystoreDecryptorToken == other.KeystoreDecryptorToken &&
		n.KeystoreMigrationTime == other.KeystoreMigrationTime &&
		n.CustomPassphraseTime == other.CustomPassphraseTime &&
		bytes.Equal(n.CustomPassphraseSalt, other.CustomPassphraseSalt)
}
