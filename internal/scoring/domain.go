// Package scoring keeps the append-only score log and the team totals derived
// from it.
package scoring

import (
	"time"

	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/shared"
)

const maxPoints = 3

// Event is one score adjustment.
type Event struct {
	ID        int64
	MatchID   int64
	PeriodID  int64
	TeamID    int64
	PlayerID  *int64
	Points    int
	CreatedAt time.Time
}

// Totals are the points of both teams, always summed from the log.
type Totals struct {
	MatchID    int64 `json:"matchId"`
	HomeTeamID int64 `json:"homeTeamId"`
	AwayTeamID int64 `json:"awayTeamId"`
	Home       int   `json:"home"`
	Away       int   `json:"away"`
}

// AdjustInput adds or removes points for a team.
type AdjustInput struct {
	MatchID  int64            `json:"-"`
	TeamID   int64            `json:"teamId" validate:"required,gt=0"`
	PlayerID *int64           `json:"playerId,omitempty"`
	Delta    int              `json:"delta" validate:"required,min=-3,max=3"`
	Period   quarters.Context `json:"period"`
}

// Validate checks the delta is a legal basket value.
func (in AdjustInput) Validate() error {
	if in.Delta == 0 || in.Delta < -maxPoints || in.Delta > maxPoints {
		return shared.Validationf("delta %d must be between -3 and 3 and not zero", in.Delta)
	}
	if in.TeamID <= 0 {
		return shared.Validationf("team is required")
	}
	return nil
}
