// Package match manages the match lifecycle and exposes the team and roster
// data the event logs read.
package match

import (
	"time"

	"github.com/courtline/courtline/internal/shared"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

const (
	DefaultMinutesPerPeriod = 10
	DefaultTotalPeriods     = 4
)

// Match is one game between two teams.
type Match struct {
	ID               int64      `json:"id"`
	HomeTeamID       int64      `json:"homeTeamId"`
	AwayTeamID       int64      `json:"awayTeamId"`
	ScheduledAt      *time.Time `json:"scheduledAt,omitempty"`
	MinutesPerPeriod int        `json:"minutesPerPeriod"`
	TotalPeriods     int        `json:"totalPeriods"`
	Status           Status     `json:"status"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	FinishedAt       *time.Time `json:"finishedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Teams returns the match's team pair.
func (m Match) Teams() Teams {
	return Teams{MatchID: m.ID, Home: m.HomeTeamID, Away: m.AwayTeamID}
}

// Teams is the home/away pair of a match.
type Teams struct {
	MatchID int64
	Home    int64
	Away    int64
}

// Has reports whether teamID plays in the match.
func (t Teams) Has(teamID int64) bool {
	return teamID == t.Home || teamID == t.Away
}

// Team is a roster team.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Player is a roster player.
type Player struct {
	ID       int64  `json:"id"`
	TeamID   int64  `json:"teamId"`
	Jersey   *int   `json:"jersey,omitempty"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// OpenInput opens a match between two teams.
type OpenInput struct {
	HomeTeamID       int64      `json:"homeTeamId" validate:"required,gt=0"`
	AwayTeamID       int64      `json:"awayTeamId" validate:"required,gt=0,nefield=HomeTeamID"`
	ScheduledAt      *time.Time `json:"scheduledAt"`
	MinutesPerPeriod int        `json:"minutesPerPeriod" validate:"omitempty,min=1,max=60"`
	TotalPeriods     int        `json:"totalPeriods" validate:"omitempty,min=1,max=10"`
}

// Validate checks invariants the struct tags cannot express.
func (in OpenInput) Validate() error {
	if in.HomeTeamID <= 0 || in.AwayTeamID <= 0 {
		return shared.Validationf("both teams are required")
	}
	if in.HomeTeamID == in.AwayTeamID {
		return shared.Validationf("a team cannot play itself")
	}
	if in.MinutesPerPeriod < 0 || in.TotalPeriods < 0 {
		return shared.Validationf("period settings must be positive")
	}
	return nil
}

// Settings changes the period configuration of a match.
type Settings struct {
	MinutesPerPeriod int `json:"minutesPerPeriod" validate:"required,min=1,max=60"`
	TotalPeriods     int `json:"totalPeriods" validate:"required,min=1,max=10"`
}

// Validate checks the settings ranges.
func (s Settings) Validate() error {
	if s.MinutesPerPeriod < 1 || s.MinutesPerPeriod > 60 {
		return shared.Validationf("minutes per period must be between 1 and 60")
	}
	if s.TotalPeriods < 1 || s.TotalPeriods > 10 {
		return shared.Validationf("total periods must be between 1 and 10")
	}
	return nil
}

// TimerState is the payload of the timerSync event.
type TimerState struct {
	Phase        string `json:"phase"`
	DurationSec  int    `json:"durationSec"`
	RemainingSec int    `json:"remainingSec"`
}
