package valueobjects

import (
	"fmt"
	"time"
)

// Plan represents a named billing interval with a fixed nominal duration.
// Prices are display/record-only; the engine never enforces them.
type Plan string

const (
	PlanMonthly    Plan = "monthly"
	PlanSemiAnnual Plan = "semi-annual"
	PlanAnnual     Plan = "annual"
)

var planDurationDays = map[Plan]int{
	PlanMonthly:    30,
	PlanSemiAnnual: 182,
	PlanAnnual:     365,
}

var planPrices = map[Plan]int64{
	PlanMonthly:    150,
	PlanSemiAnnual: 800,
	PlanAnnual:     1500,
}

// NewPlan creates a Plan from a string.
func NewPlan(s string) (Plan, error) {
	p := Plan(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid plan: %s, must be 'monthly', 'semi-annual', or 'annual'", s)
	}
	return p, nil
}

// IsValid checks if the plan is a known billing interval.
func (p Plan) IsValid() bool {
	_, ok := planDurationDays[p]
	return ok
}

// String returns the string representation of the plan.
func (p Plan) String() string {
	return string(p)
}

// DurationDays returns the fixed nominal duration of the plan in days.
func (p Plan) DurationDays() int {
	return planDurationDays[p]
}

// Duration returns the plan term as a time.Duration.
// Fixed day counts are used deliberately so that terms never drift on
// month boundaries (e.g. Jan 31 -> Feb 28 -> Mar 28).
func (p Plan) Duration() time.Duration {
	return time.Duration(planDurationDays[p]) * 24 * time.Hour
}

// Price returns the fixed display price of the plan.
func (p Plan) Price() int64 {
	return planPrices[p]
}

// AllPlans returns the plan lookup table in display order.
func AllPlans() []Plan {
	return []Plan{PlanMonthly, PlanSemiAnnual, PlanAnnual}
}
