// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

// KeyDerivationMethod selects how a passphrase is stretched into a key.
type KeyDerivationMethod int

const (
	// Pbkdf2 derives implicit and keystore keys with a fixed salt, so
	// every client derives the same key from the same passphrase.
	Pbkdf2 KeyDerivationMethod = iota
	// Argon2id derives custom passphrase keys with a per-account salt.
	Argon2id
)

func (m KeyDerivationMethod) String() string {
	if m == Argon2id {
		return "ARGON2ID"
	}
	return "PBKDF2"
}

const (
	pbkdf2Iterations = 1003
	pbkdf2Salt       = "saltsalt"
	keyLen           = 32
	keyNameLen       = 16
	hkdfInfo         = "nigori"

	// Argon2id parameters recommended by OWASP (2024).
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024 // 64 MiB
	argonThreads uint8  = 4
)

// KeyDerivationParams describe how a key was derived.
type KeyDerivationParams struct {
	Method KeyDerivationMethod `json:"method"`
	// Salt is only used by Argon2id.
	Salt []byte `json:"salt,omitempty"`
}

// Pbkdf2Params returns the parameters of implicit and keystore keys.
func Pbkdf2Params() KeyDerivationParams {
	return KeyDerivationParams{Method: Pbkdf2}
}

// Argon2idParams returns the parameters of a custom passphrase key.
func Argon2idParams(salt []byte) KeyDerivationParams {
	return KeyDerivationParams{Method: Argon2id, Salt: append([]byte(nil), salt...)}
}

// GenerateSalt reads 16 random bytes for Argon2id.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// KeyParams is a passphrase together with its derivation parameters.
type KeyParams struct {
	Derivation KeyDerivationParams
	Password   string
}

// Nigori is one symmetric key of the keybag. Its name is derived from the
// key material, so two clients deriving the same key agree on the name.
type Nigori struct {
	name string
	key  []byte
}

// NewNigori derives a key from params.
func NewNigori(params KeyParams) (*Nigori, error) {
	if params.Password == "" {
		return nil, ErrEmptyPassphrase
	}

	var master []byte
	switch params.Derivation.Method {
	case Argon2id:
		master = argon2.IDKey([]byte(params.Password), params.Derivation.Salt,
			argonTime, argonMemory, argonThreads, keyLen)
	default:
		master = pbkdf2.Key([]byte(params.Password), []byte(pbkdf2Salt), pbkdf2Iterations, keyLen, sha256.New)
	}

	r := hkdf.New(sha256.New, master, nil, []byte(hkdfInfo))
	key := make([]byte, keyLen)
	nameSeed := make([]byte, keyNameLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	if _, err := io.ReadFull(r, nameSeed); err != nil {
		return nil, fmt.Errorf("derive key name: %w", err)
	}
	return &Nigori{name: base64.RawURLEncoding.EncodeToString(nameSeed), key: key}, nil
}

func nigoriFromRaw(name string, key []byte) *Nigori {
	return &Nigori{name: name, key: append([]byte(nil), key...)}
}

// Name returns the key name stored next to every blob it encrypts.
func (n *Nigori) Name() string {
	return n.name
}

// Encrypt seals plaintext with AES-256-GCM and returns the base64 of
// nonce || ciphertext.
func (n *Nigori) Encrypt(plaintext []byte) (string, error) {
	gcm, err := newGCM(n.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)), nil
}

// Decrypt opens a blob produced by Encrypt.
func (n *Nigori) Decrypt(blobB64 string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(blobB64)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	gcm, err := newGCM(n.key)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
