package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	for _, s := range []string{"monthly", "semi-annual", "annual"} {
		p, err := NewPlan(s)
		require.NoError(t, err)
		assert.Equal(t, s, p.String())
	}

	_, err := NewPlan("weekly")
	assert.Error(t, err)

	_, err = NewPlan("")
	assert.Error(t, err)
}

func TestPlanDurations(t *testing.T) {
	assert.Equal(t, 30, PlanMonthly.DurationDays())
	assert.Equal(t, 182, PlanSemiAnnual.DurationDays())
	assert.Equal(t, 365, PlanAnnual.DurationDays())

	assert.Equal(t, 30*24*time.Hour, PlanMonthly.Duration())
	assert.Equal(t, 365*24*time.Hour, PlanAnnual.Duration())
}

func TestAllPlans(t *testing.T) {
	plans := AllPlans()
	require.Len(t, plans, 3)
	for _, p := range plans {
		assert.True(t, p.IsValid())
		assert.Positive(t, p.Price())
	}
}
