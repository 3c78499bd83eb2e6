package match

import (
	"context"
	"time"

	"github.com/courtline/courtline/internal/quarters"
)

// Reader is the read-only team data the event logs need.
type Reader interface {
	MatchTeams(ctx context.Context, matchID int64) (Teams, error)
	Team(ctx context.Context, teamID int64) (Team, error)
	TeamPlayers(ctx context.Context, teamID int64) ([]Player, error)
}

// Store persists matches. It embeds the period store so a match and its
// regulation periods are created in one transaction.
type Store interface {
	Reader
	quarters.Store
	GetMatch(ctx context.Context, matchID int64) (Match, error)
	FindOpenMatch(ctx context.Context, homeTeamID, awayTeamID int64) (Match, bool, error)
	ListMatchesByStatus(ctx context.Context, status Status) ([]Match, error)
	InsertMatch(ctx context.Context, m Match) (Match, error)
	UpdateSettings(ctx context.Context, matchID int64, s Settings) error
	SetStatus(ctx context.Context, matchID int64, status Status, at time.Time) error
	DeleteMatch(ctx context.Context, matchID int64) error
}

// Repository is a Store that can also run work inside one transaction.
type Repository interface {
	Store
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
