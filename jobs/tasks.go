package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskScoreboardResync republishes scoreboard snapshots to viewers.
	TaskScoreboardResync = "scoreboard:resync"
)

// ScoreboardResyncPayload selects the matches to resync. A zero MatchID
// means every match in progress.
type ScoreboardResyncPayload struct {
	MatchID int64 `json:"match_id,omitempty"`
}

// NewScoreboardResyncTask constructs an Asynq task.
func NewScoreboardResyncTask(matchID int64) (*asynq.Task, error) {
	data, err := json.Marshal(ScoreboardResyncPayload{MatchID: matchID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskScoreboardResync, data), nil
}
