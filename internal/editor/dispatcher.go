package editor

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/studio-site/internal/repository"
)

type Status string

const (
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
)

// Result reports the outcome of one command.
type Result struct {
	Command string           `json:"command"`
	Table   repository.Table `json:"table"`
	ID      string           `json:"id,omitempty"`
	Status  Status           `json:"status"`
	Error   string           `json:"error,omitempty"`
	Err     error            `json:"-"`
}

// ChangeFunc is called after every applied command.
type ChangeFunc func(ctx context.Context, table repository.Table, id, action string)

// Dispatcher executes commands one at a time.  A failed command does not
// stop the rest; each gets its own Result.
type Dispatcher struct {
	repo     Repo
	log      *zap.Logger
	onChange ChangeFunc
}

func NewDispatcher(repo Repo, log *zap.Logger, onChange ChangeFunc) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{repo: repo, log: log, onChange: onChange}
}

func (d *Dispatcher) Dispatch(ctx context.Context, cmds []Command) []Result {
	out := make([]Result, 0, len(cmds))
	for _, c := range cmds {
		table, id := c.Target()
		res := Result{Command: c.Name(), Table: table, ID: id}
		row, err := c.Execute(ctx, d.repo)
		if err != nil {
			d.log.Warn("editor command failed", zap.String("command", describe(c)), zap.Error(err))
			res.Status, res.Error, res.Err = StatusFailed, err.Error(), err
			out = append(out, res)
			continue
		}
		if row != nil {
			res.ID = row.ID()
		}
		res.Status = StatusApplied
		if d.onChange != nil {
			d.onChange(ctx, table, res.ID, c.Action())
		}
		out = append(out, res)
	}
	return out
}

// Save loads the stored rows of the draft's section, diffs and dispatches.
func (d *Dispatcher) Save(ctx context.Context, draft *Draft) ([]Result, error) {
	var stored []repository.Row
	if !draft.Singleton {
		rows, err := d.repo.List(ctx, draft.Section)
		if err != nil {
			return nil, err
		}
		stored = rows
	}
	return d.Dispatch(ctx, draft.Commands(stored)), nil
}

// Failed reports whether any result failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFailed {
			return true
		}
	}
	return false
}
