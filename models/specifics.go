package models

import (
	"bytes"
	"encoding/json"
)

// EncryptedData is a payload encrypted with the key named KeyName.
// Blob is base64(nonce || ciphertext).
type EncryptedData struct {
	KeyName string `json:"key_name"`
	Blob    string `json:"blob"`
}

// IsEmpty reports whether no encrypted payload is present.
func (e EncryptedData) IsEmpty() bool {
	return e.KeyName == "" && e.Blob == ""
}

// EntitySpecifics is the typed payload of an Entry. Exactly one of Data,
// Encrypted or Nigori is meaningful:
//   - Data holds the model-specific plaintext value (opaque to the engine);
//   - Encrypted holds the encrypted form of a Data payload;
//   - Nigori holds the encryption metadata record for the Nigori type.
//
// Type is always set, even when the payload is encrypted, so the engine
// can route entries without decrypting them.
type EntitySpecifics struct {
	Type      ModelType        `json:"type"`
	Data      json.RawMessage  `json:"data,omitempty"`
	Encrypted *EncryptedData   `json:"encrypted,omitempty"`
	Nigori    *NigoriSpecifics `json:"nigori,omitempty"`
}

// NewSpecifics returns plaintext specifics of type t.
func NewSpecifics(t ModelType, data []byte) EntitySpecifics {
	return EntitySpecifics{Type: t, Data: append(json.RawMessage(nil), data...)}
}

// DefaultSpecifics returns empty specifics tagged with t.
func DefaultSpecifics(t ModelType) EntitySpecifics {
	return EntitySpecifics{Type: t}
}

// IsEncrypted reports whether the payload is encrypted.
func (s EntitySpecifics) IsEncrypted() bool {
	return s.Encrypted != nil && !s.Encrypted.IsEmpty()
}

// IsEmpty reports whether s carries no type at all.
func (s EntitySpecifics) IsEmpty() bool {
	return s.Type == Unspecified
}

// Clone returns a deep copy of s.
func (s EntitySpecifics) Clone() EntitySpecifics {
	out := EntitySpecifics{Type: s.Type}
	if s.Data != nil {
		out.Data = append(json.RawMessage(nil), s.Data...)
	}
	if s.Encrypted != nil {
		enc := *s.Encrypted
		out.Encrypted = &enc
	}
	if s.Nigori != nil {
		n := s.Nigori.Clone()
		out.Nigori = &n
	}
	return out
}

// Equal reports whether s and other hold the same payload.
func (s EntitySpecifics) Equal(other EntitySpecifics) bool {
	if s.Type != other.Type || !bytes.Equal(s.Data, other.Data) {
		return false
	}
	if (s.Encrypted == nil) != (other.Encrypted == nil) {
		return false
	}
	if s.Encrypted != nil && *s.Encrypted != *other.Encrypted {
		return false
	}
	if (s.Nigori == nil) != (other.Nigori == nil) {
		return false
	}
	return s.Nigori == nil || s.Nigori.Equal(*other.Nigori)
}
