package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nuxtcare/nuxtcare-backend/model"
)

func TestIsCriticalAt(t *testing.T) {
	t.Run("critical vulnerability", func(t *testing.T) {
		m := healthyModule()
		m.Vulns = &model.VulnerabilityInfo{Count: 1, Critical: 1}
		assert.True(t, IsCriticalAt(m, testNow))
	})

	t.Run("deprecated", func(t *testing.T) {
		m := healthyModule()
		m.Npm.Deprecated = "gone"
		assert.True(t, IsCriticalAt(m, testNow))
	})

	t.Run("archived", func(t *testing.T) {
		m := healthyModule()
		m.Repository.Archived = true
		assert.True(t, IsCriticalAt(m, testNow))
	})

	t.Run("dormant with pending work", func(t *testing.T) {
		m := healthyModule()
		m.Repository.PushedAt = daysAgo(400)
		m.Pending = &model.PendingCommitsInfo{Total: 5, NonChore: 4}
		assert.True(t, IsCriticalAt(m, testNow))
	})

	t.Run("dormant with nothing pending is finished, not critical", func(t *testing.T) {
		m := healthyModule()
		m.Repository.PushedAt = daysAgo(400)
		assert.False(t, IsCriticalAt(m, testNow))
	})

	t.Run("healthy", func(t *testing.T) {
		assert.False(t, IsCriticalAt(healthyModule(), testNow))
	})
}

func TestScoreToStatusTiers(t *testing.T) {
	assert.Equal(t, model.StatusOptimal, ScoreToStatus(90))
	assert.Equal(t, model.StatusStable, ScoreToStatus(89))
	assert.Equal(t, model.StatusStable, ScoreToStatus(70))
	assert.Equal(t, model.StatusDegraded, ScoreToStatus(69))
	assert.Equal(t, model.StatusDegraded, ScoreToStatus(40))
	assert.Equal(t, model.StatusCritical, ScoreToStatus(39))
}

func TestStatusColors(t *testing.T) {
	assert.Equal(t, "brightgreen", StatusColor(model.StatusOptimal))
	assert.Equal(t, "red", StatusColor(model.StatusCritical))
	assert.Equal(t, "brightgreen", ScoreColor(85))
	assert.Equal(t, "orange", ScoreColor(25))
}
