package health

import "github.com/nuxtcare/nuxtcare-backend/model"

// ScoreToStatus maps a score to its coarse tier.
func ScoreToStatus(score int) model.ModuleStatus {
	switch {
	case score >= 90:
		return model.StatusOptimal
	case score >= 70:
		return model.StatusStable
	case score >= 40:
		return model.StatusDegraded
	default:
		return model.StatusCritical
	}
}

// StatusColor returns the shields.io color for a status tier.
func StatusColor(status model.ModuleStatus) string {
	switch status {
	case model.StatusOptimal:
		return "brightgreen"
	case model.StatusStable:
		return "green"
	case model.StatusDegraded:
		return "yellow"
	default:
		return "red"
	}
}

// ScoreColor is the finer five-band color scale used by the legacy badge
// route.
func ScoreColor(score int) string {
	switch {
	case score >= 80:
		return "brightgreen"
	case score >= 60:
		return "green"
	case score >= 40:
		return "yellow"
	case score >= 20:
		return "orange"
	default:
		return "red"
	}
}
