package health

import (
	"fmt"
	"time"

	"github.com/nuxtcare/nuxtcare-backend/model"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

// Thresholds for recency-based criteria, in days.
const (
	activeDays   = 30
	warmDays     = 180
	yearDays     = 365
	recentDays   = 90
	stableIssues = 10
)

// Calculate scores a module with the default policy.
func Calculate(m *model.ModuleRecord) model.HealthScore {
	return CalculateWith(m, DefaultWeights(), time.Now())
}

// CalculateWith scores a module against a policy at a given instant. The
// function is deterministic: same record, weights and clock produce the same
// score and the same signal list in the same order. Every criterion emits
// exactly one signal, so absent data shows up as "no data" instead of
// silently counting as zero.
func CalculateWith(m *model.ModuleRecord, w Weights, now time.Time) model.HealthScore {
	score := 0
	var signals []model.Signal

	add := func(t model.SignalType, msg string, points, maxPoints int) {
		score += points
		signals = append(signals, model.Signal{Type: t, Msg: msg, Points: points, MaxPoints: maxPoints})
	}

	// Deprecation penalty.
	if m.Npm != nil && m.Npm.Deprecated != "" {
		add(model.SignalNegative, "Deprecated", w.DeprecatedPenalty, 0)
	} else {
		add(model.SignalPositive, "Not deprecated", 0, 0)
	}

	// Archival penalty.
	switch {
	case m.Repository == nil:
		add(model.SignalWarning, "Repository: no data", 0, 0)
	case m.Repository.Archived:
		add(model.SignalNegative, "Archived", w.ArchivedPenalty, 0)
	default:
		add(model.SignalPositive, "Repository not archived", 0, 0)
	}

	// Security. A clean scan is worth full credit; issues flip the criterion
	// into penalty territory. "No data" is distinct from "known clean".
	switch {
	case m.Vulns == nil:
		add(model.SignalWarning, "Vulnerability scan: no data", 0, w.SecurityClean)
	case m.Vulns.Count == 0:
		add(model.SignalPositive, "No known vulnerabilities", w.SecurityClean, w.SecurityClean)
	case m.Vulns.Critical > 0:
		add(model.SignalNegative,
			fmt.Sprintf("%d vulns (%d critical)", m.Vulns.Count, m.Vulns.Critical),
			w.CriticalVulnPenalty, w.SecurityClean)
	case m.Vulns.High > 0:
		add(model.SignalNegative,
			fmt.Sprintf("%d vulns (%d high)", m.Vulns.Count, m.Vulns.High),
			w.HighVulnPenalty, w.SecurityClean)
	default:
		add(model.SignalWarning,
			fmt.Sprintf("%d vulns (low/medium)", m.Vulns.Count),
			w.SecurityMinor, w.SecurityClean)
	}

	// Trust tier.
	switch m.Type {
	case model.TypeOfficial:
		add(model.SignalPositive, "Official module", w.TrustOfficial, w.TrustOfficial)
	case model.TypeCommunity:
		add(model.SignalPositive, "Community module", w.TrustCommunity, w.TrustOfficial)
	default:
		add(model.SignalWarning, "3rd-party module", w.TrustThirdParty, w.TrustOfficial)
	}

	// Quality: tests, types, license and CI each stand alone.
	switch {
	case m.Npm == nil:
		add(model.SignalWarning, "Tests: no data", 0, w.QualityTests)
	case m.Npm.HasTests:
		add(model.SignalPositive, "Has tests", w.QualityTests, w.QualityTests)
	default:
		add(model.SignalWarning, "No test script", 0, w.QualityTests)
	}

	switch {
	case m.Npm == nil:
		add(model.SignalWarning, "Types: no data", 0, w.QualityTypes)
	case m.Npm.HasTypes:
		add(model.SignalPositive, "Ships type declarations", w.QualityTypes, w.QualityTypes)
	default:
		add(model.SignalWarning, "No type declarations", 0, w.QualityTypes)
	}

	switch {
	case m.Repository == nil:
		add(model.SignalWarning, "License: no data", 0, w.QualityLicense)
	case m.Repository.License != "" && m.Repository.License != "NOASSERTION":
		add(model.SignalPositive, m.Repository.License+" license", w.QualityLicense, w.QualityLicense)
	default:
		add(model.SignalWarning, "No license", 0, w.QualityLicense)
	}

	// Missing CI is no data, not a failure.
	switch {
	case m.CI == nil:
		add(model.SignalWarning, "CI: no data", 0, w.QualityCI)
	case m.CI.LastRunConclusion == "success":
		add(model.SignalPositive, "CI passing", w.QualityCI, w.QualityCI)
	case m.CI.LastRunConclusion == "failure":
		add(model.SignalNegative, "CI failing", 0, w.QualityCI)
	default:
		add(model.SignalWarning, "CI inconclusive ("+m.CI.LastRunConclusion+")", 0, w.QualityCI)
	}

	// Repository activity.
	pushDays, pushKnown := repoPushAge(m, now)
	switch {
	case !pushKnown:
		add(model.SignalWarning, "Activity: no data", 0, w.ActivityFresh)
	case pushDays < activeDays:
		add(model.SignalPositive, "Active: pushed within 30 days", w.ActivityFresh, w.ActivityFresh)
	case pushDays < warmDays:
		add(model.SignalWarning,
			fmt.Sprintf("Inactive: %d months since last push", pushDays/30),
			w.ActivityWarm, w.ActivityFresh)
	case pushDays < yearDays:
		add(model.SignalWarning,
			fmt.Sprintf("Stale: %d months since last push", pushDays/30),
			w.ActivityStale, w.ActivityFresh)
	default:
		add(model.SignalNegative,
			fmt.Sprintf("Abandoned: %d+ years since last push", pushDays/yearDays),
			0, w.ActivityFresh)
	}

	// Publish freshness, with the old-but-stable exception: an old module
	// with nothing pending, few open issues, a clean scan and healthy CI is
	// finished, not abandoned.
	switch {
	case m.Npm == nil || m.Npm.DaysSincePublish == nil:
		add(model.SignalWarning, "Publish date: no data", 0, w.FreshnessRecent)
	case *m.Npm.DaysSincePublish < recentDays:
		add(model.SignalPositive,
			fmt.Sprintf("Published %dd ago", *m.Npm.DaysSincePublish),
			w.FreshnessRecent, w.FreshnessRecent)
	case *m.Npm.DaysSincePublish < yearDays:
		add(model.SignalWarning,
			fmt.Sprintf("Published %dmo ago", *m.Npm.DaysSincePublish/30),
			w.FreshnessModerate, w.FreshnessRecent)
	case isStableAndDone(m):
		add(model.SignalPositive, "Stable: old but finished", w.FreshnessStable, w.FreshnessRecent)
	default:
		add(model.SignalWarning,
			fmt.Sprintf("Published %dy ago", *m.Npm.DaysSincePublish/yearDays),
			w.FreshnessOld, w.FreshnessRecent)
	}

	// Pending-commit risk. Unknown is neutral; unreleased work on a dormant
	// repository is the worst case.
	switch {
	case m.Pending == nil:
		add(model.SignalWarning, "Pending commits: no data", w.PendingUnknown, w.PendingNone)
	case m.Pending.NonChore == 0:
		add(model.SignalPositive, "No pending commits", w.PendingNone, w.PendingNone)
	case pushKnown && pushDays < warmDays:
		add(model.SignalWarning,
			fmt.Sprintf("%d pending commits, repo active", m.Pending.NonChore),
			w.PendingActive, w.PendingNone)
	default:
		add(model.SignalNegative,
			fmt.Sprintf("%d pending commits, repo abandoned", m.Pending.NonChore),
			w.PendingAbandoned, w.PendingNone)
	}

	// Target-version compatibility.
	switch n := nuxt4Signals(m); {
	case m.Compat != nil && m.Compat.Explicit && m.Compat.Supports4:
		add(model.SignalPositive, "Nuxt 4 support declared", w.CompatFull, w.CompatFull)
	case n >= 2:
		add(model.SignalPositive, "Nuxt 4 compatible", w.CompatFull, w.CompatFull)
	case n == 1:
		add(model.SignalWarning, "Nuxt 4 partially confirmed", w.CompatPartial, w.CompatFull)
	case m.Type == model.TypeOfficial:
		add(model.SignalWarning, "Nuxt 4 unverified, official module", w.CompatOfficialFallback, w.CompatFull)
	default:
		add(model.SignalWarning, "Nuxt 4 not confirmed", 0, w.CompatFull)
	}

	// Informational entries: zero points, always listed.
	if m.Npm != nil && m.Npm.Downloads != nil {
		add(model.SignalPositive, util.FormatNumber(*m.Npm.Downloads)+" weekly downloads", 0, 0)
	} else {
		add(model.SignalWarning, "Downloads: no data", 0, 0)
	}
	if stars, ok := starCount(m); ok {
		add(model.SignalPositive, util.FormatNumber(stars)+" stars", 0, 0)
	} else {
		add(model.SignalWarning, "Stars: no data", 0, 0)
	}
	if m.Contributors != nil {
		add(model.SignalPositive,
			fmt.Sprintf("%d contributors in the last year", m.Contributors.UniqueContributors), 0, 0)
	} else {
		add(model.SignalWarning, "Contributors: no data", 0, 0)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return model.HealthScore{Score: score, Signals: signals}
}

// nuxt4Signals counts the independent secondary hints of Nuxt 4 support.
func nuxt4Signals(m *model.ModuleRecord) int {
	n := 0
	if m.Compat != nil && m.Compat.Supports4 {
		n++
	}
	if m.Topics != nil && m.Topics.HasNuxt4 {
		n++
	}
	if m.Keywords != nil && m.Keywords.HasNuxt4 {
		n++
	}
	if m.Release != nil && m.Release.Nuxt4Mentioned {
		n++
	}
	return n
}

// isStableAndDone reports whether an old module looks finished rather than
// abandoned: zero pending non-chore commits, a low issue count, a clean
// vulnerability scan and CI that is absent or passing.
func isStableAndDone(m *model.ModuleRecord) bool {
	if m.Pending == nil || m.Pending.NonChore != 0 {
		return false
	}
	if m.Repository == nil || m.Repository.OpenIssues >= stableIssues {
		return false
	}
	if m.Vulns == nil || m.Vulns.Count != 0 {
		return false
	}
	return m.CI == nil || m.CI.LastRunConclusion == "success"
}

func repoPushAge(m *model.ModuleRecord, now time.Time) (int, bool) {
	if m.Repository == nil {
		return 0, false
	}
	return util.DaysSince(m.Repository.PushedAt, now)
}

func starCount(m *model.ModuleRecord) (int, bool) {
	if m.Repository != nil {
		return m.Repository.Stars, true
	}
	if m.RegistryStats != nil {
		return m.RegistryStats.Stars, true
	}
	return 0, false
}
