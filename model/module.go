// Package model - ModuleRecord defines the aggregated per-module document stored
// in the snapshot, including all nullable enrichment sections.
package model

// ModuleType classifies who maintains a module.
type ModuleType string

// Module trust tiers as reported by the registry.
const (
	TypeOfficial   ModuleType = "official"
	TypeCommunity  ModuleType = "community"
	TypeThirdParty ModuleType = "3rd-party"
)

// ModuleRecord is one tracked module with its enrichment data. Every enrichment
// section is a pointer: nil means the source failed or returned nothing, which
// is distinct from a zero value.
type ModuleRecord struct {
	Name        string     `json:"name"`
	NpmPackage  string     `json:"npmPackage"`
	Repo        string     `json:"repo"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Type        ModuleType `json:"type"`
	Icon        string     `json:"icon,omitempty"`
	Maintainers []string   `json:"maintainers,omitempty"`

	Compat        *CompatAnalysis     `json:"compat"`
	RegistryStats *RegistryStats      `json:"registryStats"`
	Repository    *RepositoryInfo     `json:"repository"`
	Topics        *TopicsAnalysis     `json:"topics"`
	Release       *ReleaseInfo        `json:"release"`
	Contributors  *ContributorsInfo   `json:"contributors"`
	CI            *CIStatusInfo       `json:"ci"`
	Pending       *PendingCommitsInfo `json:"pendingCommits"`
	Npm           *PackageInfo        `json:"npm"`
	Keywords      *KeywordsAnalysis   `json:"keywords"`
	Vulns         *VulnerabilityInfo  `json:"vulnerabilities"`

	// Health is a cached projection of the other fields; readers recompute it.
	Health HealthScore `json:"health"`
}

// CompatAnalysis holds the derived Nuxt version support flags.
// Explicit is true when the registry declared a version list outright rather
// than a semver range we had to interpret.
type CompatAnalysis struct {
	Supports4 bool   `json:"supports4"`
	Supports3 bool   `json:"supports3"`
	Explicit  bool   `json:"explicit"`
	Raw       string `json:"raw,omitempty"`
}

// RegistryStats mirrors the stats block from the module registry.
type RegistryStats struct {
	Version       string `json:"version,omitempty"`
	Downloads     int    `json:"downloads"`
	Stars         int    `json:"stars"`
	Watchers      int    `json:"watchers"`
	Forks         int    `json:"forks"`
	DefaultBranch string `json:"defaultBranch,omitempty"`
	PublishedAt   int64  `json:"publishedAt,omitempty"`
	CreatedAt     int64  `json:"createdAt,omitempty"`
}

// RepositoryInfo is the normalized repository host payload.
type RepositoryInfo struct {
	FullName      string   `json:"fullName"`
	DefaultBranch string   `json:"defaultBranch"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	OpenIssues    int      `json:"openIssues"`
	Archived      bool     `json:"archived"`
	PushedAt      string   `json:"pushedAt"`
	Topics        []string `json:"topics,omitempty"`
	License       string   `json:"license,omitempty"`
}

// TopicsAnalysis holds version tags derived from repository topics.
type TopicsAnalysis struct {
	HasNuxt4     bool     `json:"hasNuxt4"`
	HasNuxt3     bool     `json:"hasNuxt3"`
	HasNuxt2     bool     `json:"hasNuxt2"`
	IsNuxtModule bool     `json:"isNuxtModule"`
	All          []string `json:"all"`
}

// KeywordsAnalysis holds version tags derived from package keywords.
type KeywordsAnalysis struct {
	HasNuxt4 bool     `json:"hasNuxt4"`
	HasNuxt3 bool     `json:"hasNuxt3"`
	All      []string `json:"all"`
}

// ReleaseInfo describes the most recent repository release.
type ReleaseInfo struct {
	Tag            string `json:"tag"`
	Date           string `json:"date"`
	DaysSince      int    `json:"daysSince"`
	Nuxt4Mentioned bool   `json:"nuxt4Mentioned"`
}

// ContributorsInfo summarizes commit activity over the trailing year.
type ContributorsInfo struct {
	CommitsLastYear    int      `json:"commitsLastYear"`
	UniqueContributors int      `json:"uniqueContributors"`
	Contributors       []string `json:"contributors"`
}

// CIStatusInfo describes the most recent workflow run on the default branch.
type CIStatusInfo struct {
	HasCI             bool   `json:"hasCI"`
	LastRunConclusion string `json:"lastRunConclusion,omitempty"`
	LastRunDate       string `json:"lastRunDate,omitempty"`
	WorkflowName      string `json:"workflowName,omitempty"`
}

// CommitSummary is one unreleased commit shown in the pending list.
type CommitSummary struct {
	Sha     string `json:"sha"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// PendingCommitsInfo counts commits landed since the last release. A nil
// PendingCommitsInfo means "unknown" (no release to diff against), which must
// not be conflated with zero pending commits.
type PendingCommitsInfo struct {
	Total    int             `json:"total"`
	NonChore int             `json:"nonChore"`
	Commits  []CommitSummary `json:"commits"`
}

// PackageInfo is the normalized package registry payload.
type PackageInfo struct {
	Name             string            `json:"name"`
	LatestVersion    string            `json:"latestVersion"`
	LastPublish      string            `json:"lastPublish,omitempty"`
	DaysSincePublish *int              `json:"daysSincePublish"`
	PeerDeps         map[string]string `json:"peerDeps,omitempty"`
	Keywords         []string          `json:"keywords,omitempty"`
	Deprecated       string            `json:"deprecated,omitempty"`
	HasTypes         bool              `json:"hasTypes"`
	HasTests         bool              `json:"hasTests"`
	UnpackedSize     int64             `json:"unpackedSize,omitempty"`
	Downloads        *int              `json:"downloads"`
}

// VulnerabilitySummary is one advisory in the truncated detail list.
type VulnerabilitySummary struct {
	ID       string `json:"id"`
	Summary  string `json:"summary"`
	Severity string `json:"severity"`
}

// VulnerabilityInfo aggregates the advisory query result. Counts cover the
// full result set even though the detail list is truncated.
type VulnerabilityInfo struct {
	Count           int                    `json:"count"`
	Critical        int                    `json:"critical"`
	High            int                    `json:"high"`
	Medium          int                    `json:"medium"`
	Low             int                    `json:"low"`
	Vulnerabilities []VulnerabilitySummary `json:"vulnerabilities"`
}

// SignalType is the severity of a health signal.
type SignalType string

// Signal severities.
const (
	SignalPositive SignalType = "positive"
	SignalWarning  SignalType = "warning"
	SignalNegative SignalType = "negative"
)

// Signal is one line item in a health score explanation.
type Signal struct {
	Type      SignalType `json:"type"`
	Msg       string     `json:"msg"`
	Points    int        `json:"points"`
	MaxPoints int        `json:"maxPoints"`
}

// HealthScore is the composite score plus its explanation. Signals keep
// evaluation order; they are never re-sorted or deduplicated.
type HealthScore struct {
	Score   int      `json:"score"`
	Signals []Signal `json:"signals"`
}

// ModuleStatus is the coarse tier a score maps to.
type ModuleStatus string

// Status tiers, from best to worst.
const (
	StatusOptimal  ModuleStatus = "optimal"
	StatusStable   ModuleStatus = "stable"
	StatusDegraded ModuleStatus = "degraded"
	StatusCritical ModuleStatus = "critical"
)

// ModuleSlim is the compact row served to devtools-style consumers.
type ModuleSlim struct {
	Name        string       `json:"name"`
	Npm         string       `json:"npm"`
	Purl        string       `json:"purl,omitempty"`
	Score       int          `json:"score"`
	Status      ModuleStatus `json:"status"`
	LastUpdated string       `json:"lastUpdated,omitempty"`
	Badge       string       `json:"badge,omitempty"`
}
