// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CommitResponseType is the per-item outcome of a commit.
type CommitResponseType int

const (
	CommitSuccess CommitResponseType = iota
	CommitConflict
	CommitRetry
	CommitInvalidMessage
	CommitOverQuota
	CommitTransientError
)

func (t CommitResponseType) String() string {
	switch t {
	case CommitSuccess:
		return "SUCCESS"
	case CommitConflict:
		return "CONFLICT"
	case CommitRetry:
		return "RETRY"
	case CommitInvalidMessage:
		return "INVALID_MESSAGE"
	case CommitOverQuota:
		return "OVER_QUOTA"
	case CommitTransientError:
		return "TRANSIENT_ERROR"
	default:
		return "UNKNOWN"
	}
}

// ResponseStatus is the envelope shared by every server response.
type ResponseStatus struct {
	ErrorCode        SyncProtocolErrorType `json:"error_code"`
	ErrorDescription string                `json:"error_description,omitempty"`
	Action           ClientAction          `json:"action,omitempty"`
	// ThrottleSeconds is the server requested pause for THROTTLED and
	// PARTIAL_FAILURE responses.
	ThrottleSeconds int64 `json:"throttle_seconds,omitempty"`
	// ErrorDataTypes lists the affected types of a PARTIAL_FAILURE.
	ErrorDataTypes ModelTypeSet `json:"error_data_types,omitempty"`
	StoreBirthday  string       `json:"store_birthday,omitempty"`
}

// CommitRequest carries local changes to the server.
type CommitRequest struct {
	CacheGUID     string       `json:"cache_guid"`
	StoreBirthday string       `json:"store_birthday,omitempty"`
	Entries       []SyncEntity `json:"entries"`
}

// CommitResponseEntry is the server's verdict for one committed item, in the
// same order as CommitRequest.Entries.
type CommitResponseEntry struct {
	ResponseType   CommitResponseType `json:"response_type"`
	IDString       string             `json:"id_string,omitempty"`
	ParentIDString string             `json:"parent_id_string,omitempty"`
	Version        int64              `json:"version,omitempty"`
	Name           string             `json:"name,omitempty"`
	NonUniqueName  string             `json:"non_unique_name,omitempty"`
	Mtime          int64              `json:"mtime,omitempty"`
	ErrorMessage   string             `json:"error_message,omitempty"`
}

// CommitResponse is the server reply to a CommitRequest.
type CommitResponse struct {
	ResponseStatus
	Entries []CommitResponseEntry `json:"entries"`
}

// GetUpdatesOrigin tells the server why updates are requested.
type GetUpdatesOrigin int

const (
	OriginUnknown GetUpdatesOrigin = iota
	OriginPeriodic
	OriginNewClient
	OriginReconfiguration
	OriginNormal
	OriginRetry
)

func (o GetUpdatesOrigin) String() string {
	switch o {
	case OriginPeriodic:
		return "PERIODIC"
	case OriginNewClient:
		return "NEW_CLIENT"
	case OriginReconfiguration:
		return "RECONFIGURATION"
	case OriginNormal:
		return "GU_TRIGGER"
	case OriginRetry:
		return "RETRY"
	default:
		return "UNKNOWN"
	}
}

// GetUpdatesRequest asks the server for changes newer than the progress
// markers of the requested types.
type GetUpdatesRequest struct {
	CacheGUID         string               `json:"cache_guid"`
	StoreBirthday     string               `json:"store_birthday,omitempty"`
	Origin            GetUpdatesOrigin     `json:"origin"`
	Types             ModelTypeSet         `json:"types"`
	ProgressMarkers   map[ModelType]string `json:"progress_markers,omitempty"`
	NeedEncryptionKey bool                 `json:"need_encryption_key,omitempty"`
}

// GetUpdatesResponse is one batch of server changes.
type GetUpdatesResponse struct {
	ResponseStatus
	Entries            []SyncEntity         `json:"entries"`
	ChangesRemaining   int64                `json:"changes_remaining"`
	NewProgressMarkers map[ModelType]string `json:"new_progress_markers,omitempty"`
	// EncryptionKeys are the keystore keys, oldest first.
	EncryptionKeys [][]byte `json:"encryption_keys,omitempty"`
}
