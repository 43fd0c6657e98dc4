// Package health computes the composite health score, the critical-module
// classifier, the status tiers and the chip filter registry.
package health

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Weights is the scoring policy. The defaults are tuned so a module with
// every positive signal lands on exactly 100 before clamping; the relative
// orderings (critical outweighs high, stable-old beats plain-old, and so on)
// are the part that matters.
type Weights struct {
	DeprecatedPenalty int `yaml:"deprecated_penalty"`
	ArchivedPenalty   int `yaml:"archived_penalty"`

	CriticalVulnPenalty int `yaml:"critical_vuln_penalty"`
	HighVulnPenalty     int `yaml:"high_vuln_penalty"`
	SecurityClean       int `yaml:"security_clean"`
	SecurityMinor       int `yaml:"security_minor"`

	TrustOfficial   int `yaml:"trust_official"`
	TrustCommunity  int `yaml:"trust_community"`
	TrustThirdParty int `yaml:"trust_third_party"`

	QualityTests   int `yaml:"quality_tests"`
	QualityTypes   int `yaml:"quality_types"`
	QualityLicense int `yaml:"quality_license"`
	QualityCI      int `yaml:"quality_ci"`

	ActivityFresh int `yaml:"activity_fresh"`
	ActivityWarm  int `yaml:"activity_warm"`
	ActivityStale int `yaml:"activity_stale"`

	FreshnessRecent   int `yaml:"freshness_recent"`
	FreshnessModerate int `yaml:"freshness_moderate"`
	FreshnessStable   int `yaml:"freshness_stable"`
	FreshnessOld      int `yaml:"freshness_old"`

	PendingNone      int `yaml:"pending_none"`
	PendingUnknown   int `yaml:"pending_unknown"`
	PendingActive    int `yaml:"pending_active"`
	PendingAbandoned int `yaml:"pending_abandoned"`

	CompatFull             int `yaml:"compat_full"`
	CompatPartial          int `yaml:"compat_partial"`
	CompatOfficialFallback int `yaml:"compat_official_fallback"`
}

// DefaultWeights returns the stock scoring policy.
func DefaultWeights() Weights {
	return Weights{
		DeprecatedPenalty: -50,
		ArchivedPenalty:   -30,

		CriticalVulnPenalty: -40,
		HighVulnPenalty:     -20,
		SecurityClean:       10,
		SecurityMinor:       5,

		TrustOfficial:   10,
		TrustCommunity:  6,
		TrustThirdParty: 3,

		QualityTests:   5,
		QualityTypes:   5,
		QualityLicense: 5,
		QualityCI:      5,

		ActivityFresh: 15,
		ActivityWarm:  8,
		ActivityStale: 4,

		FreshnessRecent:   20,
		FreshnessModerate: 10,
		FreshnessStable:   15,
		FreshnessOld:      5,

		PendingNone:      10,
		PendingUnknown:   5,
		PendingActive:    8,
		PendingAbandoned: 0,

		CompatFull:             15,
		CompatPartial:          10,
		CompatOfficialFallback: 5,
	}
}

// LoadWeights reads a YAML policy file layered over the defaults, so a file
// only needs the weights it changes.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, err
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return DefaultWeights(), err
	}
	return w, nil
}
