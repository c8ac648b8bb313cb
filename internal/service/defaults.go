package service

import (
	"encoding/json"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/MKhiriev/go-sync-engine/models"
)

// DefaultValues holds the payload a model type starts with when the server
// sends an item without specifics. It satisfies syncer.DefaultFieldValuer.
type DefaultValues struct {
	values *xsync.MapOf[models.ModelType, json.RawMessage]
}

func NewDefaultValues() *DefaultValues {
	return &DefaultValues{values: xsync.NewMapOf[models.ModelType, json.RawMessage]()}
}

// Register sets the default payload of t. A nil payload removes it.
func (d *DefaultValues) Register(t models.ModelType, data json.RawMessage) {
	if data == nil {
		d.values.Delete(t)
		return
	}
	d.values.Store(t, append(json.RawMessage(nil), data...))
}

// AddDefaultFieldValue tags s with t and fills its payload from the
// registered default when s carries none.
func (d *DefaultValues) AddDefaultFieldValue(t models.ModelType, s *models.EntitySpecifics) {
	s.Type = t
	if s.IsEncrypted() || s.Nigori != nil || len(s.Data) > 0 {
		return
	}
	if data, ok := d.values.Load(t); ok {
		s.Data = append(json.RawMessage(nil), data...)
	}
}
