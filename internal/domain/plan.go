package domain

import "slices"

// Plan is a tenant's subscription tier.
type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
)

// Unlimited marks a limit that does not apply.
const Unlimited = -1

// DefaultFreeNoteLimit is the FREE plan note ceiling unless configured otherwise.
const DefaultFreeNoteLimit = 3

var ValidPlans = []Plan{PlanFree, PlanPro}

func IsValidPlan(plan string) bool {
	return slices.Contains(ValidPlans, Plan(plan))
}

// PlanLimits maps each plan to its per-tenant note ceiling.
type PlanLimits struct {
	FreeNotes int
}

func DefaultPlanLimits() PlanLimits {
	return PlanLimits{FreeNotes: DefaultFreeNoteLimit}
}

// NoteLimit returns the note ceiling for plan, or Unlimited.
func (l PlanLimits) NoteLimit(plan Plan) int {
	switch plan {
	case PlanPro:
		return Unlimited
	default:
		// Unknown plans get the most restrictive limit.
		return l.FreeNotes
	}
}

// CanCreateNote reports whether a tenant on plan with current notes may add one more.
func (l PlanLimits) CanCreateNote(plan Plan, current int64) bool {
	limit := l.NoteLimit(plan)
	return limit == Unlimited || current < int64(limit)
}

// LimitInfo summarizes a tenant's quota position.
type LimitInfo struct {
	Plan      Plan  `json:"plan"`
	NoteLimit int   `json:"note_limit"`
	NoteCount int64 `json:"note_count"`
	Remaining int64 `json:"remaining"`
	CanCreate bool  `json:"can_create"`
}

func (l PlanLimits) Info(plan Plan, current int64) LimitInfo {
	limit := l.NoteLimit(plan)
	remaining := int64(Unlimited)
	if limit != Unlimited {
		remaining = max(int64(limit)-current, 0)
	}
	return LimitInfo{
		Plan:      plan,
		NoteLimit: limit,
		NoteCount: current,
		Remaining: remaining,
		CanCreate: l.CanCreateNote(plan, current),
	}
}
