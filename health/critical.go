package health

import (
	"time"

	"github.com/nuxtcare/nuxtcare-backend/model"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

// IsCritical flags modules a consumer should not adopt as-is.
func IsCritical(m *model.ModuleRecord) bool {
	return IsCriticalAt(m, time.Now())
}

// IsCriticalAt is the clock-injected variant of IsCritical. A module is
// critical when it carries critical or high vulnerabilities, is deprecated,
// is archived, or has been dormant for over a year while still holding
// unreleased non-chore work. A dormant module with nothing pending is merely
// finished, not critical.
func IsCriticalAt(m *model.ModuleRecord, now time.Time) bool {
	if m.Vulns != nil && (m.Vulns.Critical > 0 || m.Vulns.High > 0) {
		return true
	}
	if m.Npm != nil && m.Npm.Deprecated != "" {
		return true
	}
	if m.Repository != nil && m.Repository.Archived {
		return true
	}
	if m.Pending != nil && m.Pending.NonChore > 0 && m.Repository != nil {
		if days, ok := util.DaysSince(m.Repository.PushedAt, now); ok && days > yearDays {
			return true
		}
	}
	return false
}
