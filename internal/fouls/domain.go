// Package fouls keeps the append-only personal foul log and the per-team
// summaries derived from it.
package fouls

import (
	"time"

	"github.com/courtline/courtline/internal/quarters"
	"github.com/courtline/courtline/internal/shared"
)

// FoulOutLimit is the number of personal fouls that removes a player.
const FoulOutLimit = 5

// Event is one personal foul.
type Event struct {
	ID        int64
	MatchID   int64
	PeriodID  int64
	TeamID    int64
	PlayerID  int64
	CreatedAt time.Time
}

// Count is the number of fouls a player committed for a team.
type Count struct {
	TeamID   int64
	PlayerID int64
	Fouls    int
}

// PlayerFouls is one roster line of the summary.
type PlayerFouls struct {
	PlayerID int64  `json:"playerId"`
	Jersey   *int   `json:"jersey,omitempty"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Fouls    int    `json:"fouls"`
}

// TeamFouls summarizes one team.
type TeamFouls struct {
	TeamID    int64         `json:"teamId"`
	TeamName  string        `json:"teamName"`
	Total     int           `json:"total"`
	Players   []PlayerFouls `json:"players"`
	FouledOut []PlayerFouls `json:"fouledOut"`
}

// Summary covers both teams of a match.
type Summary struct {
	MatchID int64     `json:"matchId"`
	Home    TeamFouls `json:"home"`
	Away    TeamFouls `json:"away"`
}

// AdjustInput adds (+1) or removes (-1) a foul for a player.
type AdjustInput struct {
	MatchID  int64            `json:"-"`
	TeamID   int64            `json:"teamId" validate:"required,gt=0"`
	PlayerID int64            `json:"playerId" validate:"required,gt=0"`
	Delta    int              `json:"delta" validate:"required,oneof=-1 1"`
	Period   quarters.Context `json:"period"`
}

// Validate checks the delta and identifiers.
func (in AdjustInput) Validate() error {
	if in.Delta != 1 && in.Delta != -1 {
		return shared.Validationf("delta %d must be 1 or -1", in.Delta)
	}
	if in.TeamID <= 0 || in.PlayerID <= 0 {
		return shared.Validationf("team and player are required")
	}
	return nil
}
