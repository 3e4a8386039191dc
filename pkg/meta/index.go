// Package meta provides the metadata index gateway: the lookup surface
// components use to resolve a uid to its available versions and to a
// specific version's data, without the caller needing to know whether
// that data comes from a remote meta server or a local cache.
package meta

import "fmt"

// VersionHandle is a single resolved version of a component, as returned
// by the metadata index. It carries enough of the version file's shape
// to be merged into a launch profile without a second round trip.
type VersionHandle struct {
	UID           string
	Version       string
	Name          string
	Type          string
	ReleaseTime   string
	Requires      []Requirement
	ConflictsWith []Requirement
	Volatile      bool

	Data []byte // raw version file JSON, lazily unmarshalled by callers that need it
}

// Requirement names a uid (and optionally a version range) that this
// version depends on or conflicts with.
type Requirement struct {
	UID     string
	Equals  string
	Suggest string
}

// VersionList is the set of versions known for a single uid, ordered
// newest-first, as published by the index.
type VersionList interface {
	UID() string
	Versions() []VersionHandle
	Latest() (VersionHandle, bool)
	Get(version string) (VersionHandle, bool)
}

// Index is the metadata index gateway. It answers whether a uid is known
// at all, and resolves a uid (optionally pinned to a version) to a
// VersionHandle.
type Index interface {
	HasUID(uid string) bool
	GetList(uid string) (VersionList, error)
	Get(uid, version string) (VersionHandle, error)
}

// ErrUIDNotFound is returned by Get/GetList when the index has no
// knowledge of the uid at all (not merely no cached version).
type ErrUIDNotFound struct{ UID string }

func (e *ErrUIDNotFound) Error() string {
	return fmt.Sprintf("metadata index: unknown uid %q", e.UID)
}

// ErrVersionNotFound is returned by Get when the uid is known but the
// requested version is not.
type ErrVersionNotFound struct {
	UID     string
	Version string
}

func (e *ErrVersionNotFound) Error() string {
	return fmt.Sprintf("metadata index: uid %q has no version %q", e.UID, e.Version)
}
