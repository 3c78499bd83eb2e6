// Package quarters owns match periods: their persistence, the policy that maps
// an event to the period it belongs to, and the start/finish state machine.
package quarters

import "time"

// Status is the lifecycle state of a period.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

const (
	// OvertimeSeconds is the fixed length of every overtime period.
	OvertimeSeconds  = 300
	minPeriodSeconds = 60
)

// Label describes the pause that follows a finished period.
type Label string

const (
	LabelNone     Label = ""
	LabelBreak    Label = "break"
	LabelHalftime Label = "halftime"
)

// Period is one quarter or overtime of a match. Numbers start at one and
// overtime continues the sequence after the last regulation period.
type Period struct {
	ID           int64      `json:"id"`
	MatchID      int64      `json:"matchId"`
	Number       int        `json:"number"`
	Overtime     bool       `json:"overtime"`
	DurationSec  int        `json:"durationSec"`
	RemainingSec int        `json:"remainingSec"`
	Status       Status     `json:"status"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
}

// MatchConfig is the part of a match that shapes its periods.
type MatchConfig struct {
	MatchID          int64
	MinutesPerPeriod int
	TotalPeriods     int
}

// Duration returns the length in seconds of a regulation or overtime period.
// Regulation periods never run shorter than a minute.
func (c MatchConfig) Duration(overtime bool) int {
	if overtime {
		return OvertimeSeconds
	}
	return max(minPeriodSeconds, c.MinutesPerPeriod*60)
}

// FinishLabel names the pause after p ends: halftime after the second
// regulation period, a break after any other, nothing after overtime.
func FinishLabel(p Period) Label {
	switch {
	case p.Overtime:
		return LabelNone
	case p.Number == 2:
		return LabelHalftime
	default:
		return LabelBreak
	}
}

// Descriptor is the period state broadcast to viewers.
type Descriptor struct {
	PeriodID     int64  `json:"periodId,omitempty"`
	Number       int    `json:"number"`
	Total        int    `json:"total"`
	Overtime     bool   `json:"overtime"`
	Status       Status `json:"status,omitempty"`
	Label        Label  `json:"label,omitempty"`
	DurationSec  int    `json:"durationSec"`
	RemainingSec int    `json:"remainingSec"`
}

// Describe builds the descriptor of p under cfg.
func Describe(p Period, cfg MatchConfig) Descriptor {
	return Descriptor{
		PeriodID:     p.ID,
		Number:       p.Number,
		Total:        cfg.TotalPeriods,
		Overtime:     p.Overtime,
		Status:       p.Status,
		DurationSec:  p.DurationSec,
		RemainingSec: p.RemainingSec,
	}
}

// DefaultDescriptor is reported when no period is active.
func DefaultDescriptor(cfg MatchConfig) Descriptor {
	return Descriptor{Number: 1, Total: cfg.TotalPeriods}
}

// Context is the optional period hint carried by score, foul, timeout and
// clock requests.
type Context struct {
	PeriodID *int64 `json:"periodId,omitempty"`
	Number   *int   `json:"number,omitempty"`
	Overtime *bool  `json:"overtime,omitempty"`
}

// IsEmpty reports whether the context names no period at all.
func (c Context) IsEmpty() bool {
	return c.PeriodID == nil && c.Number == nil
}

// WantsOvertime reports the overtime flag, defaulting to regulation.
func (c Context) WantsOvertime() bool {
	return c.Overtime != nil && *c.Overtime
}
