package srcu

import (
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

// Version information for the sleepable grace-period domain.
const (
	// Version is the current version of the library.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the library.
type Info struct {
	// Version is the canonical semantic version string.
	Version string

	// Algorithm names the grace-period scheme in use.
	Algorithm string

	// Units is the number of execution units domains created by New are
	// sized for right now.
	Units int
}

// GetInfo returns information about the library build.
//
// Example:
//
//	info := srcu.GetInfo()
//	fmt.Printf("srcu %s (%s)\n", info.Version, info.Algorithm)
func GetInfo() Info {
	return Info{
		Version:   canonicalVersion(),
		Algorithm: "two-slot epoch grace periods, sleepable readers",
		Units:     defaultUnits(),
	}
}

// AtLeast reports whether the library version is at least min, where min is
// a semantic version with or without the leading "v". Invalid input
// compares as not satisfied.
func AtLeast(min string) bool {
	if !strings.HasPrefix(min, "v") {
		min = "v" + min
	}
	if !semver.IsValid(min) {
		return false
	}
	return semver.Compare("v"+Version, min) >= 0
}

// defaultUnits reports how many execution units New sizes a domain for.
func defaultUnits() int {
	return runtime.GOMAXPROCS(0)
}

// canonicalVersion normalizes the Version constant through the semver
// package so downstream comparisons always see canonical form.
func canonicalVersion() string {
	return strings.TrimPrefix(semver.Canonical("v"+Version), "v")
}
