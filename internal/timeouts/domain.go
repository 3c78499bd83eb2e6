// Package timeouts keeps the append-only timeout log and per-team counts.
package timeouts

import (
	"time"

	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/shared"
)

// Kind distinguishes short and long timeouts.
type Kind string

const (
	KindShort Kind = "short"
	KindLong  Kind = "long"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindShort || k == KindLong
}

// Event is one timeout. PeriodID is nil when the request named no period.
type Event struct {
	ID        int64
	MatchID   int64
	PeriodID  *int64
	TeamID    int64
	Kind      Kind
	CreatedAt time.Time
}

// Count is the number of timeouts of one kind taken by a team.
type Count struct {
	TeamID int64
	Kind   Kind
	Count  int
}

// TeamTimeouts summarizes one team.
type TeamTimeouts struct {
	TeamID   int64  `json:"teamId"`
	TeamName string `json:"teamName"`
	Short    int    `json:"short"`
	Long     int    `json:"long"`
	Total    int    `json:"total"`
}

// Summary covers both teams of a match.
type Summary struct {
	MatchID int64        `json:"matchId"`
	Home    TeamTimeouts `json:"home"`
	Away    TeamTimeouts `json:"away"`
}

// AdjustInput adds (+1) or removes (-1) a timeout.
type AdjustInput struct {
	MatchID int64            `json:"-"`
	TeamID  int64            `json:"teamId" validate:"required,gt=0"`
	Kind    Kind             `json:"kind" validate:"required,oneof=short long"`
	Delta   int              `json:"delta" validate:"required,oneof=-1 1"`
	Period  quarters.Context `json:"period"`
}

// Validate checks kind and delta.
func (in AdjustInput) Validate() error {
	if !in.Kind.Valid() {
		return shared.Validationf("timeout kind %q must be short or long", in.Kind)
	}
	if in.Delta != 1 && in.Delta != -1 {
		return shared.Validationf("delta %d must be 1 or -1", in.Delta)
	}
	if in.TeamID <= 0 {
		return shared.Validationf("team is required")
	}
	return nil
}
