package crypto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/cespare/xxhash"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultDecryptCacheSize bounds the number of cached plaintexts.
const DefaultDecryptCacheSize = 1024

type cryptographer struct {
	keys        map[string]*Nigori
	defaultName string
	pending     *models.EncryptedData

	// cache maps blobs to their plaintext; blobs are immutable and carry a
	// random nonce, so entries never go stale.
	cache *lru.Cache[uint64, []byte]
}

// keyRecord is the serialized form of one keybag key.
type keyRecord struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// NewCryptographer returns an empty [Cryptographer] caching up to
// cacheSize decrypted payloads. A non-positive size disables the cache.
func NewCryptographer(cacheSize int) Cryptographer {
	c := &cryptographer{keys: make(map[string]*Nigori)}
	if cacheSize > 0 {
		c.cache, _ = lru.New[uint64, []byte](cacheSize)
	}
	return c
}

func (c *cryptographer) AddKey(params KeyParams) (string, error) {
	name, err := c.AddNonDefaultKey(params)
	if err != nil {
		return "", err
	}
	c.defaultName = name
	return name, nil
}

func (c *cryptographer) AddNonDefaultKey(params KeyParams) (string, error) {
	n, err := NewNigori(params)
	if err != nil {
		return "", err
	}
	c.keys[n.Name()] = n
	return n.Name(), nil
}

func (c *cryptographer) HasKey(name string) bool {
	_, ok := c.keys[name]
	return ok
}

func (c *cryptographer) SetDefaultKey(name string) error {
	if !c.HasKey(name) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	c.defaultName = name
	return nil
}

func (c *cryptographer) DefaultKeyName() string {
	return c.defaultName
}

func (c *cryptographer) KeyNames() []string {
	names := make([]string, 0, len(c.keys))
	for name := range c.keys {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *cryptographer) CanEncrypt() bool {
	return c.defaultName != ""
}

func (c *cryptographer) CanDecrypt(data models.EncryptedData) bool {
	return c.HasKey(data.KeyName)
}

func (c *cryptographer) CanDecryptUsingDefaultKey(data models.EncryptedData) bool {
	return c.defaultName != "" && data.KeyName == c.defaultName
}

func (c *cryptographer) Encrypt(plaintext []byte) (models.EncryptedData, error) {
	if !c.CanEncrypt() {
		return models.EncryptedData{}, ErrNoDefaultKey
	}
	n := c.keys[c.defaultName]
	blob, err := n.Encrypt(plaintext)
	if err != nil {
		return models.EncryptedData{}, err
	}
	return models.EncryptedData{KeyName: n.Name(), Blob: blob}, nil
}

func (c *cryptographer) Decrypt(data models.EncryptedData) ([]byte, error) {
	n, ok := c.keys[data.KeyName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, data.KeyName)
	}

	var cacheKey uint64
	if c.cache != nil {
		cacheKey = xxhash.Sum64String(data.KeyName + "\x00" + data.Blob)
		if plaintext, hit := c.cache.Get(cacheKey); hit {
			return slices.Clone(plaintext), nil
		}
	}

	plaintext, err := n.Decrypt(data.Blob)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(cacheKey, slices.Clone(plaintext))
	}
	return plaintext, nil
}

func (c *cryptographer) GetKeys() (models.EncryptedData, error) {
	records := make([]keyRecord, 0, len(c.keys))
	for _, name := range c.KeyNames() {
		records = append(records, keyRecord{
			Name: name,
			Key:  base64.StdEncoding.EncodeToString(c.keys[name].key),
		})
	}
	plaintext, err := json.Marshal(records)
	if err != nil {
		return models.EncryptedData{}, fmt.Errorf("marshal keybag: %w", err)
	}
	return c.Encrypt(plaintext)
}

func (c *cryptographer) KeybagIsStale(keybag models.EncryptedData) bool {
	records, err := c.readKeybag(keybag)
	if err != nil {
		return true
	}
	return len(records) < len(c.keys)
}

func (c *cryptographer) readKeybag(keybag models.EncryptedData) ([]keyRecord, error) {
	plaintext, err := c.Decrypt(keybag)
	if err != nil {
		return nil, err
	}
	var records []keyRecord
	if err = json.Unmarshal(plaintext, &records); err != nil {
		return nil, fmt.Errorf("unmarshal keybag: %w", err)
	}
	return records, nil
}

func (c *cryptographer) InstallKeys(keybag models.EncryptedData) error {
	records, err := c.readKeybag(keybag)
	if err != nil {
		return err
	}
	for _, r := range records {
		key, err := base64.StdEncoding.DecodeString(r.Key)
		if err != nil {
			return fmt.Errorf("decode keybag key %s: %w", r.Name, err)
		}
		if _, ok := c.keys[r.Name]; !ok {
			c.keys[r.Name] = nigoriFromRaw(r.Name, key)
		}
	}
	c.defaultName = keybag.KeyName
	return nil
}

func (c *cryptographer) SetPendingKeys(keybag models.EncryptedData) {
	kb := keybag
	c.pending = &kb
}

func (c *cryptographer) HasPendingKeys() bool {
	return c.pending != nil
}

func (c *cryptographer) PendingKeys() models.EncryptedData {
	if c.pending == nil {
		return models.EncryptedData{}
	}
	return *c.pending
}

func (c *cryptographer) DecryptPendingKeys(params KeyParams) error {
	if c.pending == nil {
		return ErrNoPendingKeys
	}
	n, err := NewNigori(params)
	if err != nil {
		return err
	}
	if n.Name() != c.pending.KeyName {
		return fmt.Errorf("%w: passphrase does not match pending keys", ErrDecrypt)
	}

	known := c.HasKey(n.Name())
	c.keys[n.Name()] = n
	if err = c.InstallKeys(*c.pending); err != nil {
		if !known {
			delete(c.keys, n.Name())
		}
		return err
	}
	c.pending = nil
	return nil
}
