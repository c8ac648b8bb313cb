package client

import (
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// encryptionObserver logs encryption state changes and nudges the types
// whose entries were re-encrypted so they get committed.
type encryptionObserver struct {
	nudger nudger
	logger *logger.Logger
}

func (o *encryptionObserver) OnPassphraseRequired(pending models.EncryptedData) {
	o.logger.Warn().Str("func", "*encryptionObserver.OnPassphraseRequired").
		Str("key_name", pending.KeyName).
		Msg("encryption keys are pending, a passphrase is required")
}

func (o *encryptionObserver) OnPassphraseAccepted() {
	o.logger.Info().Str("func", "*encryptionObserver.OnPassphraseAccepted").Msg("passphrase accepted")
	o.nudger.ScheduleLocalNudge(models.UserTypes())
}

func (o *encryptionObserver) OnEncryptedTypesChanged(types models.ModelTypeSet, encryptEverything bool) {
	o.logger.Info().Str("func", "*encryptionObserver.OnEncryptedTypesChanged").
		Stringer("types", types).
		Bool("encrypt_everything", encryptEverything).
		Msg("encrypted types changed")
	if user := types.Intersection(models.UserTypes()); !user.Empty() {
		o.nudger.ScheduleLocalNudge(user)
	}
}

func (o *encryptionObserver) OnPassphraseTypeChanged(passphraseType models.PassphraseType, explicitPassphraseTime int64) {
	o.logger.Info().Str("func", "*encryptionObserver.OnPassphraseTypeChanged").
		Stringer("passphrase_type", passphraseType).
		Int64("explicit_passphrase_time", explicitPassphraseTime).
		Msg("passphrase type changed")
}

// changeLogger reports item changes made by local edits and applied
// updates.
type changeLogger struct {
	logger *logger.Logger
}

func (c changeLogger) OnItemsChanged(t models.ModelType, changes []models.ItemChange) {
	var created, updated, deleted int
	for _, ch := range changes {
		switch {
		case ch.Before == nil:
			created++
		case ch.After == nil:
			deleted++
		default:
			updated++
		}
	}
	c.logger.Debug().Str("func", "changeLogger.OnItemsChanged").
		Stringer("type", t).
		Int("created", created).
		Int("updated", updated).
		Int("deleted", deleted).
		Msg("items changed")
}
