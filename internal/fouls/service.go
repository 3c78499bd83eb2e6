package fouls

import (
	"context"
	"slices"

	"github.com/courtline/courtline/internal/broadcast"
	"github.com/courtline/courtline/internal/match"
	"github.com/courtline/courtline/internal/shared"
)

// Service applies foul adjustments and rebuilds the summary.
type Service struct {
	repo     Repository
	resolver PeriodResolver
	notifier *broadcast.Notifier
}

// NewService constructs a Service instance.
func NewService(repo Repository, resolver PeriodResolver, notifier *broadcast.Notifier) *Service {
	return &Service{repo: repo, resolver: resolver, notifier: notifier}
}

// Adjust adds a foul in the resolved period, or removes the player's newest
// foul. Removal only looks inside a period when the request names its id.
func (s *Service) Adjust(ctx context.Context, in AdjustInput) (Summary, error) {
	if err := in.Validate(); err != nil {
		return Summary{}, err
	}

	var (
		summary Summary
		changed bool
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		teams, err := tx.MatchTeams(ctx, in.MatchID)
		if err != nil {
			return err
		}
		if !teams.Has(in.TeamID) {
			return shared.Validationf("team %d does not play match %d", in.TeamID, in.MatchID)
		}
		if err := ensureOnRoster(ctx, tx, in.TeamID, in.PlayerID); err != nil {
			return err
		}

		if in.Delta > 0 {
			periodID, err := s.resolver.Resolve(ctx, tx, in.MatchID, in.Period)
			if err != nil {
				return err
			}
			if _, err := tx.InsertFoulEvent(ctx, Event{
				MatchID:  in.MatchID,
				PeriodID: periodID,
				TeamID:   in.TeamID,
				PlayerID: in.PlayerID,
			}); err != nil {
				return err
			}
			changed = true
		} else {
			changed, err = tx.DeleteLatestFoul(ctx, in.MatchID, in.TeamID, in.PlayerID, in.Period.PeriodID)
			if err != nil {
				return err
			}
		}

		summary, err = buildSummary(ctx, tx, teams)
		return err
	})
	if err != nil {
		return Summary{}, err
	}
	if changed {
		s.notifier.Notify(ctx, in.MatchID, broadcast.EventFoulsSync, summary)
	}
	return summary, nil
}

// Summary returns the foul summary of a match.
func (s *Service) Summary(ctx context.Context, matchID int64) (Summary, error) {
	teams, err := s.repo.MatchTeams(ctx, matchID)
	if err != nil {
		return Summary{}, err
	}
	return buildSummary(ctx, s.repo, teams)
}

// Reset clears the foul log of a match.
func (s *Service) Reset(ctx context.Context, matchID int64) (Summary, error) {
	var summary Summary
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Store) error {
		teams, err := tx.MatchTeams(ctx, matchID)
		if err != nil {
			return err
		}
		if err := tx.DeleteFoulEvents(ctx, matchID); err != nil {
			return err
		}
		summary, err = buildSummary(ctx, tx, teams)
		return err
	})
	if err != nil {
		return Summary{}, err
	}
	s.notifier.Notify(ctx, matchID, broadcast.EventFoulsSync, summary)
	return summary, nil
}

func ensureOnRoster(ctx context.Context, r match.Reader, teamID, playerID int64) error {
	players, err := r.TeamPlayers(ctx, teamID)
	if err != nil {
		return err
	}
	for _, p := range players {
		if p.ID == playerID {
			return nil
		}
	}
	return shared.Validationf("player %d is not on team %d", playerID, teamID)
}

type summaryReader interface {
	match.Reader
	FoulCounts(ctx context.Context, matchID int64) ([]Count, error)
}

func buildSummary(ctx context.Context, r summaryReader, teams match.Teams) (Summary, error) {
	counts, err := r.FoulCounts(ctx, teams.MatchID)
	if err != nil {
		return Summary{}, err
	}
	home, err := teamSummary(ctx, r, teams.Home, counts)
	if err != nil {
		return Summary{}, err
	}
	away, err := teamSummary(ctx, r, teams.Away, counts)
	if err != nil {
		return Summary{}, err
	}
	return Summary{MatchID: teams.MatchID, Home: home, Away: away}, nil
}

// teamSummary lists the players with at least one logged foul, in roster
// order. Players no longer on the roster follow by id with their names left
// blank, so the lines always add up to the team total.
func teamSummary(ctx context.Context, r match.Reader, teamID int64, counts []Count) (TeamFouls, error) {
	team, err := r.Team(ctx, teamID)
	if err != nil {
		return TeamFouls{}, err
	}
	players, err := r.TeamPlayers(ctx, teamID)
	if err != nil {
		return TeamFouls{}, err
	}

	byPlayer := make(map[int64]int)
	tf := TeamFouls{TeamID: teamID, TeamName: team.Name, Players: []PlayerFouls{}, FouledOut: []PlayerFouls{}}
	for _, c := range counts {
		if c.TeamID != teamID || c.Fouls <= 0 {
			continue
		}
		byPlayer[c.PlayerID] += c.Fouls
		tf.Total += c.Fouls
	}

	add := func(line PlayerFouls) {
		tf.Players = append(tf.Players, line)
		if line.Fouls >= FoulOutLimit {
			tf.FouledOut = append(tf.FouledOut, line)
		}
	}
	for _, p := range players {
		n, ok := byPlayer[p.ID]
		if !ok {
			continue
		}
		delete(byPlayer, p.ID)
		add(PlayerFouls{PlayerID: p.ID, Jersey: p.Jersey, Name: p.Name, Position: p.Position, Fouls: n})
	}
	rest := make([]int64, 0, len(byPlayer))
	for id := range byPlayer {
		rest = append(rest, id)
	}
	slices.Sort(rest)
	for _, id := range rest {
		add(PlayerFouls{PlayerID: id, Fouls: byPlayer[id]})
	}
	return tf, nil
}
