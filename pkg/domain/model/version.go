package model

import (
	"github.com/Masterminds/semver/v3"
)

// VersionOrdering is the position of an old version relative to a new one
type VersionOrdering string

const (
	// VersionOlder means the old version precedes the new one (an upgrade)
	VersionOlder VersionOrdering = "older"
	// VersionSame means both versions have equal precedence
	VersionSame VersionOrdering = "same"
	// VersionNewer means the old version follows the new one (a downgrade)
	VersionNewer VersionOrdering = "newer"
	// VersionIncomparable means at least one side is not a recognizable version
	VersionIncomparable VersionOrdering = "incomparable"
)

// CompareVersions orders oldStr against newStr using semantic version
// precedence. Tags such as "v1.2", "1.2.3-rc.1" and "v2.0.0+build.5" are
// accepted; anything semver cannot parse, including NotAvailable, yields
// VersionIncomparable.
func CompareVersions(oldStr, newStr string) VersionOrdering {
	oldVer, ok := parseVersion(oldStr)
	if !ok {
		return VersionIncomparable
	}
	newVer, ok := parseVersion(newStr)
	if !ok {
		return VersionIncomparable
	}

	switch oldVer.Compare(newVer) {
	case -1:
		return VersionOlder
	case 1:
		return VersionNewer
	default:
		return VersionSame
	}
}

func parseVersion(s string) (*semver.Version, bool) {
	if s == "" || s == NotAvailable {
		return nil, false
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, false
	}
	return v, true
}
