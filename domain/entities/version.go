package entities

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// MinimalVersion is the oldest VASP version whose output files can be refined.
var MinimalVersion = RawVersion{Major: 6, Minor: 2}

// RawVersion is the VASP version that wrote a raw data container.
type RawVersion struct {
	Major int `json:"major" yaml:"major" validate:"gte=0"`
	Minor int `json:"minor" yaml:"minor" validate:"gte=0"`
	Patch int `json:"patch" yaml:"patch" validate:"gte=0"`
}

// ParseRawVersion parses "6", "6.2" or "6.2.1" (an optional leading "v" is accepted).
func ParseRawVersion(s string) (RawVersion, error) {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(s), "v")
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return RawVersion{}, fmt.Errorf("invalid version %q", s)
	}
	parts := strings.Split(strings.TrimPrefix(semver.Canonical(v), "v"), ".")
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return RawVersion{}, fmt.Errorf("invalid version %q: %w", s, err)
		}
		nums[i] = n
	}
	return RawVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String formats the version as MAJOR.MINOR.PATCH.
func (v RawVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v RawVersion) semver() string {
	return "v" + v.String()
}

// Compare returns -1, 0 or +1 depending on whether v is older, equal or newer than other.
func (v RawVersion) Compare(other RawVersion) int {
	return semver.Compare(v.semver(), other.semver())
}

// Less reports whether v is older than other.
func (v RawVersion) Less(other RawVersion) bool {
	return v.Compare(other) < 0
}

// IsZero reports whether no version was recorded.
func (v RawVersion) IsZero() bool {
	return v == RawVersion{}
}
