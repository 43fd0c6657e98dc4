package health

import "github.com/nuxtcare/nuxtcare-backend/model"

// Filter is one named predicate over a module record. Predicates are pure and
// total; unknown data simply fails the check. Score-based predicates read the
// record's Health field, which callers recompute before filtering.
type Filter struct {
	ID        string
	Label     string
	Predicate func(*model.ModuleRecord) bool
}

// Filters returns the chip filter registry.
func Filters() []Filter {
	return []Filter{
		{ID: "hasTests", Label: "Has Tests", Predicate: func(m *model.ModuleRecord) bool {
			return m.Npm != nil && m.Npm.HasTests
		}},
		{ID: "hasTypes", Label: "TypeScript", Predicate: func(m *model.ModuleRecord) bool {
			return m.Npm != nil && m.Npm.HasTypes
		}},
		{ID: "ciPassing", Label: "CI Passing", Predicate: func(m *model.ModuleRecord) bool {
			return m.CI != nil && m.CI.LastRunConclusion == "success"
		}},
		{ID: "noVulns", Label: "No Vulns", Predicate: func(m *model.ModuleRecord) bool {
			return m.Vulns != nil && m.Vulns.Count == 0
		}},
		{ID: "noTests", Label: "No Tests", Predicate: func(m *model.ModuleRecord) bool {
			return m.Npm == nil || !m.Npm.HasTests
		}},
		{ID: "noTypes", Label: "No TypeScript", Predicate: func(m *model.ModuleRecord) bool {
			return m.Npm == nil || !m.Npm.HasTypes
		}},
		{ID: "ciFailing", Label: "CI Failing", Predicate: func(m *model.ModuleRecord) bool {
			return m.CI != nil && m.CI.LastRunConclusion == "failure"
		}},
		{ID: "hasVulns", Label: "Has Vulns", Predicate: func(m *model.ModuleRecord) bool {
			return m.Vulns != nil && m.Vulns.Count > 0
		}},
		{ID: "stars100", Label: "100+ Stars", Predicate: minStars(100)},
		{ID: "stars1k", Label: "1K+ Stars", Predicate: minStars(1000)},
		{ID: "dl10k", Label: "10K+ Weekly Downloads", Predicate: func(m *model.ModuleRecord) bool {
			return m.Npm != nil && m.Npm.Downloads != nil && *m.Npm.Downloads >= 10000
		}},
		{ID: "score70", Label: "Score 70+", Predicate: func(m *model.ModuleRecord) bool {
			return m.Health.Score >= 70
		}},
		{ID: "scoreLow", Label: "Score < 50", Predicate: func(m *model.ModuleRecord) bool {
			return m.Health.Score < 50
		}},
		{ID: "critical", Label: "Critical", Predicate: IsCritical},
	}
}

// FilterByID looks a filter up in the registry.
func FilterByID(id string) (Filter, bool) {
	for _, f := range Filters() {
		if f.ID == id {
			return f, true
		}
	}
	return Filter{}, false
}

// ApplyFilters keeps the modules matching every named filter. Unknown filter
// ids are ignored so a stale client cannot empty the result by accident.
func ApplyFilters(modules []model.ModuleRecord, ids []string) []model.ModuleRecord {
	var active []Filter
	for _, id := range ids {
		if f, ok := FilterByID(id); ok {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return modules
	}

	out := make([]model.ModuleRecord, 0, len(modules))
	for i := range modules {
		keep := true
		for _, f := range active {
			if !f.Predicate(&modules[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, modules[i])
		}
	}
	return out
}

func minStars(n int) func(*model.ModuleRecord) bool {
	return func(m *model.ModuleRecord) bool {
		return m.Repository != nil && m.Repository.Stars >= n
	}
}
