// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/validators"
	"github.com/MKhiriev/go-sync-engine/models"
)

const (
	maxGetUpdatesRounds = 100
	maxCommitRounds     = 100
)

// CycleStatus is the snapshot of one finished sync cycle.
type CycleStatus struct {
	Origin     models.GetUpdatesOrigin `json:"origin"`
	Types      models.ModelTypeSet     `json:"types"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`

	DownloadResult models.SyncerError `json:"download_result"`
	CommitResult   models.SyncerError `json:"commit_result"`

	Download DownloadCounters `json:"download"`
	Updates  UpdateCounters   `json:"updates"`
	Commit   CommitCounters   `json:"commit"`

	ItemsCommitted int `json:"items_committed"`
	// ProtocolError is set when the server answered with an error status.
	ProtocolError *models.SyncProtocolError `json:"protocol_error,omitempty"`
}

// Succeeded reports whether neither half of the cycle failed.
func (s CycleStatus) Succeeded() bool {
	return !s.DownloadResult.IsActualError() && !s.CommitResult.IsActualError()
}

// Syncer runs sync cycles: download and store updates, apply them, then
// commit local changes. A cycle blocks the caller for its whole duration.
type Syncer struct {
	dir       *directory.Directory
	transport Transport
	enc       EncryptionHandler

	processor       *UpdateProcessor
	applicator      *UpdateApplicator
	builder         *CommitBuilder
	commitProcessor *CommitResponseProcessor

	recorder CycleRecorder
	log      *logger.Logger

	mu   sync.RWMutex
	last CycleStatus
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithMaxCommitBatchSize overrides DefaultMaxCommitBatchSize.
func WithMaxCommitBatchSize(n int) Option {
	return func(s *Syncer) {
		s.builder = NewCommitBuilder(s.enc, n, s.log)
	}
}

// WithCycleRecorder registers r to receive every cycle status.
func WithCycleRecorder(r CycleRecorder) Option {
	return func(s *Syncer) {
		s.recorder = r
	}
}

// WithDefaultFieldValues lets d fill in untyped incoming specifics.
func WithDefaultFieldValues(d DefaultFieldValuer) Option {
	return func(s *Syncer) {
		s.processor.defaults = d
	}
}

func NewSyncer(dir *directory.Directory, transport Transport, enc EncryptionHandler, validator validators.Validator, log *logger.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		dir:             dir,
		transport:       transport,
		enc:             enc,
		processor:       NewUpdateProcessor(validator, log),
		applicator:      NewUpdateApplicator(enc, log),
		builder:         NewCommitBuilder(enc, DefaultMaxCommitBatchSize, log),
		commitProcessor: NewCommitResponseProcessor(validator, log),
		log:             log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LastStatus returns the status of the most recent cycle.
func (s *Syncer) LastStatus() CycleStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// NormalSyncShare downloads and applies updates of types, then commits
// their local changes.
func (s *Syncer) NormalSyncShare(ctx context.Context, types models.ModelTypeSet) error {
	status := s.begin(models.OriginNormal, types)
	defer s.finish(status)

	if err := s.downloadAndApply(ctx, types, status); err != nil {
		return err
	}
	return s.commitAll(ctx, types, status)
}

// ConfigureSyncShare downloads and applies updates of types without
// committing. origin tells the server why the types are being fetched.
func (s *Syncer) ConfigureSyncShare(ctx context.Context, types models.ModelTypeSet, origin models.GetUpdatesOrigin) error {
	status := s.begin(origin, types)
	defer s.finish(status)

	return s.downloadAndApply(ctx, types, status)
}

// PollSyncShare is a periodic download of types.
func (s *Syncer) PollSyncShare(ctx context.Context, types models.ModelTypeSet) error {
	status := s.begin(models.OriginPeriodic, types)
	defer s.finish(status)

	return s.downloadAndApply(ctx, types, status)
}

func (s *Syncer) begin(origin models.GetUpdatesOrigin, types models.ModelTypeSet) *CycleStatus {
	return &CycleStatus{Origin: origin, Types: types, StartedAt: time.Now()}
}

func (s *Syncer) finish(status *CycleStatus) {
	status.FinishedAt = time.Now()

	s.mu.Lock()
	s.last = *status
	s.mu.Unlock()

	s.log.Debug().Str("func", "*Syncer.finish").
		Stringer("origin", status.Origin).
		Stringer("types", status.Types).
		Stringer("download_result", status.DownloadResult).
		Stringer("commit_result", status.CommitResult).
		Int("updates_applied", status.Updates.UpdatesApplied).
		Int("items_committed", status.ItemsCommitted).
		Dur("took", status.FinishedAt.Sub(status.StartedAt)).
		Msg("sync cycle finished")

	if s.recorder != nil {
		s.recorder.RecordCycle(*status)
	}
}

// ── Download ─────────────────────────────────────────────────────────────────

func (s *Syncer) downloadAndApply(ctx context.Context, types models.ModelTypeSet, status *CycleStatus) error {
	result, err := s.download(ctx, types, status)
	status.DownloadResult = result
	if err != nil {
		return err
	}

	return s.dir.Write(directory.WriterSyncer, func(tx *directory.WriteTransaction) error {
		if types.Has(models.Nigori) {
			status.Updates.Add(s.applicator.ApplyControlUpdates(tx))
		}
		status.Updates.Add(s.applicator.ApplyUpdates(tx, types))
		return nil
	})
}

func (s *Syncer) download(ctx context.Context, types models.ModelTypeSet, status *CycleStatus) (models.SyncerError, error) {
	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return models.CannotDoWork, err
		}

		req := s.buildGetUpdatesRequest(types, status.Origin)
		resp, err := s.transport.GetUpdates(ctx, req)
		if err == nil && resp == nil {
			err = ErrNilResponse
		}
		if err != nil {
			s.log.Err(err).Str("func", "*Syncer.download").Int("round", round).Msg("get updates failed")
			result := syncerErrorFrom(err)
			return result, classified(result, err)
		}
		if resp.ErrorCode != models.ProtocolSuccess {
			return s.protocolFailure(resp.ResponseStatus, status)
		}

		var birthdayMismatch bool
		err = s.dir.Write(directory.WriterSyncer, func(tx *directory.WriteTransaction) error {
			if birthday := resp.StoreBirthday; birthday != "" {
				switch tx.StoreBirthday() {
				case "":
					tx.SetStoreBirthday(birthday)
				case birthday:
				default:
					birthdayMismatch = true
					return nil
				}
			}

			status.Download.Add(s.processor.ProcessUpdates(ctx, tx, resp.Entries))
			for t, marker := range resp.NewProgressMarkers {
				if types.Has(t) {
					tx.SetDownloadProgress(t, marker)
				}
			}
			if len(resp.EncryptionKeys) > 0 {
				s.enc.SetKeystoreKeys(tx, resp.EncryptionKeys)
			}
			return nil
		})
		if err != nil {
			return models.CannotDoWork, err
		}
		if birthdayMismatch {
			return s.protocolFailure(models.ResponseStatus{
				ErrorCode:        models.NotMyBirthday,
				ErrorDescription: "store birthday changed",
			}, status)
		}

		if resp.ChangesRemaining <= 0 {
			return models.SyncerOK, nil
		}
		if round >= maxGetUpdatesRounds {
			// the next cycle picks up where this one stopped
			return models.ServerMoreToDownload, nil
		}
	}
}

func (s *Syncer) buildGetUpdatesRequest(types models.ModelTypeSet, origin models.GetUpdatesOrigin) models.GetUpdatesRequest {
	req := models.GetUpdatesRequest{
		Origin:            origin,
		Types:             types,
		ProgressMarkers:   make(map[models.ModelType]string, types.Len()),
		NeedEncryptionKey: s.enc.NeedKeystoreKey(),
	}
	_ = s.dir.Read(func(tx *directory.ReadTransaction) error {
		req.CacheGUID = tx.CacheGUID()
		req.StoreBirthday = tx.StoreBirthday()
		for _, t := range types.Slice() {
			if marker := tx.DownloadProgress(t); marker != "" {
				req.ProgressMarkers[t] = marker
			}
		}
		return nil
	})
	return req
}

// ── Commit ───────────────────────────────────────────────────────────────────

// commitAll commits batches until a batch comes back smaller than the batch
// limit, which means nothing committable is left.
func (s *Syncer) commitAll(ctx context.Context, types models.ModelTypeSet, status *CycleStatus) error {
	status.CommitResult = models.SyncerOK
	for round := 1; round <= maxCommitRounds; round++ {
		if err := ctx.Err(); err != nil {
			status.CommitResult = models.CannotDoWork
			return err
		}

		var (
			set *OrderedCommitSet
			req models.CommitRequest
		)
		err := s.dir.Write(directory.WriterSyncer, func(tx *directory.WriteTransaction) error {
			set = s.builder.GetCommitIDs(tx, types)
			if set.Empty() {
				return nil
			}
			var err error
			req, err = s.builder.BuildCommitMessage(tx, set)
			return err
		})
		if err != nil {
			s.log.Err(err).Str("func", "*Syncer.commitAll").Msg("error building commit message")
			status.CommitResult = models.CannotDoWork
			return err
		}
		if set.Empty() {
			return nil
		}

		resp, err := s.transport.Commit(ctx, req)
		if err == nil && resp == nil {
			err = ErrNilResponse
		}
		if err != nil {
			s.log.Err(err).Str("func", "*Syncer.commitAll").Int("items", set.Size()).Msg("commit failed")
			status.CommitResult = syncerErrorFrom(err)
			return classified(status.CommitResult, err)
		}
		if resp.ErrorCode != models.ProtocolSuccess {
			result, err := s.protocolFailure(resp.ResponseStatus, status)
			status.CommitResult = result
			return err
		}

		var (
			counters CommitCounters
			result   models.SyncerError
		)
		_ = s.dir.Write(directory.WriterSyncer, func(tx *directory.WriteTransaction) error {
			counters, result = s.commitProcessor.ProcessCommitResponse(ctx, tx, set, req, *resp)
			return nil
		})
		status.Commit.Add(counters)
		status.ItemsCommitted += counters.Successes
		status.CommitResult = result
		if result != models.SyncerOK {
			return result
		}
		if set.Size() < s.builder.MaxBatchSize() {
			return nil
		}
	}
	return nil
}

// ── Errors ───────────────────────────────────────────────────────────────────

func (s *Syncer) protocolFailure(rs models.ResponseStatus, status *CycleStatus) (models.SyncerError, error) {
	perr := models.ProtocolErrorFromStatus(rs)
	status.ProtocolError = &perr
	s.log.Error().Str("func", "*Syncer.protocolFailure").
		Stringer("error_type", perr.ErrorType).
		Stringer("action", perr.Action).
		Str("description", perr.ErrorDescription).
		Msg("server returned an error")
	return models.SyncerErrorFromProtocol(perr.ErrorType), perr
}

// classified keeps err in the chain next to the outcome it was mapped to,
// so callers can still reach a wrapped SyncProtocolError.
func classified(result models.SyncerError, err error) error {
	if errors.Is(err, result) {
		return err
	}
	return fmt.Errorf("%w: %w", result, err)
}

// syncerErrorFrom maps a transport failure onto a syncer outcome. Errors
// the transport did not classify count as network failures.
func syncerErrorFrom(err error) models.SyncerError {
	var se models.SyncerError
	if errors.As(err, &se) {
		return se
	}
	var perr models.SyncProtocolError
	if errors.As(err, &perr) {
		return models.SyncerErrorFromProtocol(perr.ErrorType)
	}
	if errors.Is(err, ErrNilResponse) {
		return models.ServerResponseValidationFailed
	}
	return models.NetworkIOError
}
