package directory

import (
	"strings"

	"github.com/google/uuid"
)

// ID is the opaque identity of an entry. Locally created entries carry a
// client id ("c" prefix) until their first successful commit rewrites it to
// the server id ("s" prefix). The root is "r".
type ID string

const (
	// RootID is the id of the directory root.
	RootID ID = "r"

	localPrefix  = "c"
	serverPrefix = "s"
	serverRootID = "0"
)

// NewLocalID returns a fresh client id.
func NewLocalID() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		return ID(localPrefix + uuid.NewString())
	}
	return ID(localPrefix + v7.String())
}

// IDFromServer converts a wire id into a directory id.
func IDFromServer(s string) ID {
	switch s {
	case "":
		return ""
	case serverRootID:
		return RootID
	}
	return ID(serverPrefix + s)
}

// IDFromOriginatorItemID rebuilds the local id this client committed as
// originatorItemID. Used to find entries whose commit response was lost.
func IDFromOriginatorItemID(originatorItemID string) ID {
	if originatorItemID == "" {
		return ""
	}
	return ID(localPrefix + originatorItemID)
}

// IDFromString parses a directory id as produced by String.
func IDFromString(s string) ID {
	return ID(s)
}

// ServerID returns the wire form of id.
func (id ID) ServerID() string {
	if id.IsRoot() {
		return serverRootID
	}
	if id.IsNull() {
		return ""
	}
	return string(id[1:])
}

// ServerKnows reports whether the server has ever seen the entry with this
// id, i.e. the id is not a locally generated one.
func (id ID) ServerKnows() bool {
	return id.IsRoot() || strings.HasPrefix(string(id), serverPrefix)
}

// IsRoot reports whether id is the directory root.
func (id ID) IsRoot() bool {
	return id == RootID
}

// IsNull reports whether id is unset.
func (id ID) IsNull() bool {
	return id == ""
}

func (id ID) String() string {
	return string(id)
}
