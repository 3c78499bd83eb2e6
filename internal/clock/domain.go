// Package clock records the game clock events operators trigger.
package clock

import (
	"time"

	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/shared"
)

// Kind is what happened to the clock.
type Kind string

const (
	KindStart    Kind = "start"
	KindPause    Kind = "pause"
	KindResume   Kind = "resume"
	KindEnd      Kind = "end"
	KindOvertime Kind = "overtime"
	KindBreak    Kind = "break"
	KindHalftime Kind = "halftime"
	KindReset    Kind = "reset"
)

var kinds = map[Kind]struct{}{
	KindStart: {}, KindPause: {}, KindResume: {}, KindEnd: {},
	KindOvertime: {}, KindBreak: {}, KindHalftime: {}, KindReset: {},
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Event is one clock event; it always belongs to a period.
type Event struct {
	ID           int64     `json:"id"`
	MatchID      int64     `json:"matchId"`
	PeriodID     int64     `json:"periodId"`
	Kind         Kind      `json:"kind"`
	RemainingSec *int      `json:"remainingSec,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RecordInput records a clock event.
type RecordInput struct {
	MatchID      int64            `json:"-"`
	Kind         Kind             `json:"kind" validate:"required"`
	RemainingSec *int             `json:"remainingSec,omitempty" validate:"omitempty,min=0"`
	Period       quarters.Context `json:"period"`
}

// Validate checks the kind and remaining time.
func (in RecordInput) Validate() error {
	if !in.Kind.Valid() {
		return shared.Validationf("unknown clock event %q", in.Kind)
	}
	if in.RemainingSec != nil && *in.RemainingSec < 0 {
		return shared.Validationf("remaining seconds cannot be negative")
	}
	return nil
}
