// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// SyncerError is the closed set of outcomes of a sync cycle step.
type SyncerError int

const (
	Unset SyncerError = iota
	CannotDoWork
	NetworkConnectionUnavailable
	NetworkIOError
	SyncServerError
	SyncAuthError
	ServerReturnInvalidCredential
	ServerReturnUnknownError
	ServerReturnThrottled
	ServerReturnTransientError
	ServerReturnMigrationDone
	ServerReturnClearPending
	ServerReturnNotMyBirthday
	ServerReturnConflict
	ServerResponseValidationFailed
	ServerReturnDisabledByAdmin
	ServerReturnPartialFailure
	ServerMoreToDownload
	DatatypeTriggeredRetry
	SyncerOK
)

var syncerErrorNames = map[SyncerError]string{
	Unset:                          "UNSET",
	CannotDoWork:                   "CANNOT_DO_WORK",
	NetworkConnectionUnavailable:   "NETWORK_CONNECTION_UNAVAILABLE",
	NetworkIOError:                 "NETWORK_IO_ERROR",
	SyncServerError:                "SYNC_SERVER_ERROR",
	SyncAuthError:                  "SYNC_AUTH_ERROR",
	ServerReturnInvalidCredential:  "SERVER_RETURN_INVALID_CREDENTIAL",
	ServerReturnUnknownError:       "SERVER_RETURN_UNKNOWN_ERROR",
	ServerReturnThrottled:          "SERVER_RETURN_THROTTLED",
	ServerReturnTransientError:     "SERVER_RETURN_TRANSIENT_ERROR",
	ServerReturnMigrationDone:      "SERVER_RETURN_MIGRATION_DONE",
	ServerReturnClearPending:       "SERVER_RETURN_CLEAR_PENDING",
	ServerReturnNotMyBirthday:      "SERVER_RETURN_NOT_MY_BIRTHDAY",
	ServerReturnConflict:           "SERVER_RETURN_CONFLICT",
	ServerResponseValidationFailed: "SERVER_RESPONSE_VALIDATION_FAILED",
	ServerReturnDisabledByAdmin:    "SERVER_RETURN_DISABLED_BY_ADMIN",
	ServerReturnPartialFailure:     "SERVER_RETURN_PARTIAL_FAILURE",
	ServerMoreToDownload:           "SERVER_MORE_TO_DOWNLOAD",
	DatatypeTriggeredRetry:         "DATATYPE_TRIGGERED_RETRY",
	SyncerOK:                       "SYNCER_OK",
}

func (e SyncerError) String() string {
	if name, ok := syncerErrorNames[e]; ok {
		return name
	}
	return fmt.Sprintf("SYNCER_ERROR(%d)", int(e))
}

// Error implements error so a cycle outcome can travel as an error value.
func (e SyncerError) Error() string {
	return e.String()
}

// IsActualError reports whether e describes a failure. Unset, SyncerOK and
// ServerMoreToDownload are not failures.
func (e SyncerError) IsActualError() bool {
	return e != Unset && e != SyncerOK && e != ServerMoreToDownload
}

// IsNetworkError reports whether e was caused by the connection rather than
// by the server's answer.
func (e SyncerError) IsNetworkError() bool {
	return e == NetworkConnectionUnavailable || e == NetworkIOError
}

// SyncProtocolErrorType is the server reported status of a request.
type SyncProtocolErrorType int

const (
	ProtocolSuccess SyncProtocolErrorType = iota
	NotMyBirthday
	Throttled
	ClearPending
	TransientError
	MigrationDone
	DisabledByAdmin
	PartialFailure
	InvalidCredential
	UnknownProtocolError
)

func (t SyncProtocolErrorType) String() string {
	switch t {
	case ProtocolSuccess:
		return "SUCCESS"
	case NotMyBirthday:
		return "NOT_MY_BIRTHDAY"
	case Throttled:
		return "THROTTLED"
	case ClearPending:
		return "CLEAR_PENDING"
	case TransientError:
		return "TRANSIENT_ERROR"
	case MigrationDone:
		return "MIGRATION_DONE"
	case DisabledByAdmin:
		return "DISABLED_BY_ADMIN"
	case PartialFailure:
		return "PARTIAL_FAILURE"
	case InvalidCredential:
		return "INVALID_CREDENTIAL"
	default:
		return "UNKNOWN_ERROR"
	}
}

// ClientAction is what the server asks the client to do about an error.
type ClientAction int

const (
	UnknownAction ClientAction = iota
	UpgradeClient
	ClearUserDataAndResync
	EnableSyncOnAccount
	StopAndRestartSync
	DisableSyncOnClient
	StopSyncForDisabledAccount
	ResetLocalSyncData
)

func (a ClientAction) String() string {
	switch a {
	case UpgradeClient:
		return "UPGRADE_CLIENT"
	case ClearUserDataAndResync:
		return "CLEAR_USER_DATA_AND_RESYNC"
	case EnableSyncOnAccount:
		return "ENABLE_SYNC_ON_ACCOUNT"
	case StopAndRestartSync:
		return "STOP_AND_RESTART_SYNC"
	case DisableSyncOnClient:
		return "DISABLE_SYNC_ON_CLIENT"
	case StopSyncForDisabledAccount:
		return "STOP_SYNC_FOR_DISABLED_ACCOUNT"
	case ResetLocalSyncData:
		return "RESET_LOCAL_SYNC_DATA"
	default:
		return "UNKNOWN_ACTION"
	}
}

// SyncProtocolError is an error reported by the server in a response
// envelope.
type SyncProtocolError struct {
	ErrorType        SyncProtocolErrorType
	ErrorDescription string
	Action           ClientAction
	ErrorDataTypes   ModelTypeSet
	// Throttle is the server requested pause; zero means the default.
	Throttle time.Duration
}

// Error implements error.
func (e SyncProtocolError) Error() string {
	if e.ErrorDescription == "" {
		return fmt.Sprintf("sync protocol error %s (action %s)", e.ErrorType, e.Action)
	}
	return fmt.Sprintf("sync protocol error %s (action %s): %s", e.ErrorType, e.Action, e.ErrorDescription)
}

// IsActionable reports whether the error ends the current session and has
// to be surfaced to the user.
func (e SyncProtocolError) IsActionable() bool {
	switch e.ErrorType {
	case NotMyBirthday, ClearPending, DisabledByAdmin, InvalidCredential:
		return true
	}
	return false
}

// ProtocolErrorFromStatus converts a response envelope into a protocol error.
func ProtocolErrorFromStatus(s ResponseStatus) SyncProtocolError {
	return SyncProtocolError{
		ErrorType:        s.ErrorCode,
		ErrorDescription: s.ErrorDescription,
		Action:           s.Action,
		ErrorDataTypes:   s.ErrorDataTypes,
		Throttle:         time.Duration(s.ThrottleSeconds) * time.Second,
	}
}

// SyncerErrorFromProtocol maps a server status onto the syncer outcome.
func SyncerErrorFromProtocol(t SyncProtocolErrorType) SyncerError {
	switch t {
	case ProtocolSuccess:
		return SyncerOK
	case NotMyBirthday:
		return ServerReturnNotMyBirthday
	case Throttled:
		return ServerReturnThrottled
	case ClearPending:
		return ServerReturnClearPending
	case TransientError:
		return ServerReturnTransientError
	case MigrationDone:
		return ServerReturnMigrationDone
	case DisabledByAdmin:
		return ServerReturnDisabledByAdmin
	case PartialFailure:
		return ServerReturnPartialFailure
	case InvalidCredential:
		return ServerReturnInvalidCredential
	default:
		return ServerReturnUnknownError
	}
}
