package store

import "errors"

// Sentinel errors returned by the backing stores. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrUnknownDriver is returned by [NewClientStorages] for a driver other
	// than sqlite or pebble.
	ErrUnknownDriver = errors.New("unknown storage driver")

	// ErrCorruptedKernel is returned when a persisted entry cannot be decoded.
	ErrCorruptedKernel = errors.New("corrupted entry kernel")

	// ErrCorruptedInfo is returned when the persisted share info cannot be
	// decoded.
	ErrCorruptedInfo = errors.New("corrupted share info")

	// ErrCorruptedInvalidations is returned when persisted invalidation
	// state cannot be decoded.
	ErrCorruptedInvalidations = errors.New("corrupted invalidation state")
)

// Low-level database operation errors. These are returned (or wrapped) by
// the stores when a storage-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a result set fails midway.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrPebble is returned when a pebble read or batch commit fails.
	ErrPebble = errors.New("pebble operation failed")
)
