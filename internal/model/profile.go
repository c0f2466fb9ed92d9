package model

import "strings"

// DeviceProfile identifies the simulated client used for one fetch attempt.
// Dark-link payloads are often served only to one kind of client, so every
// URL is requested once per profile.
type DeviceProfile string

const (
	// ProfileDesktop simulates a desktop browser.
	ProfileDesktop DeviceProfile = "desktop"

	// ProfileMobile simulates a phone or tablet browser.
	ProfileMobile DeviceProfile = "mobile"
)

// DefaultProfiles is the fixed order in which profiles are attempted.
var DefaultProfiles = []DeviceProfile{ProfileDesktop, ProfileMobile}

// String returns the profile name.
func (p DeviceProfile) String() string {
	return string(p)
}

// Label returns the upper-case name used in progress output.
func (p DeviceProfile) Label() string {
	return strings.ToUpper(string(p))
}

// ParseDeviceProfile converts a name into a DeviceProfile.
// It reports false for unknown names.
func ParseDeviceProfile(s string) (DeviceProfile, bool) {
	switch DeviceProfile(strings.ToLower(strings.TrimSpace(s))) {
	case ProfileDesktop:
		return ProfileDesktop, true
	case ProfileMobile:
		return ProfileMobile, true
	default:
		return "", false
	}
}

// Coverage describes which device profiles reached a URL.
type Coverage string

const (
	// CoverageBoth means both profiles succeeded.
	// It is also reported when neither profile succeeded; see CoverageFor.
	CoverageBoth Coverage = "desktop+mobile"

	// CoverageDesktop means only the desktop profile succeeded.
	CoverageDesktop Coverage = "desktop"

	// CoverageMobile means only the mobile profile succeeded.
	CoverageMobile Coverage = "mobile"
)

// CoverageFor derives the coverage label from the profiles that succeeded.
//
// A URL that no profile reached is labelled CoverageBoth. The label is only a
// display value; callers decide success from Status, never from Coverage.
func CoverageFor(succeeded []DeviceProfile) Coverage {
	var desktop, mobile bool
	for _, p := range succeeded {
		switch p {
		case ProfileDesktop:
			desktop = true
		case ProfileMobile:
			mobile = true
		}
	}

	switch {
	case desktop && !mobile:
		return CoverageDesktop
	case mobile && !desktop:
		return CoverageMobile
	default:
		return CoverageBoth
	}
}
