package deploy

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdmleite/webship/internal/analyzer"
	"github.com/pdmleite/webship/internal/gitmeta"
	"github.com/pdmleite/webship/internal/platform"
	"github.com/pdmleite/webship/internal/state"
)

// Tracker records deployment attempts in the history database
type Tracker struct {
	repo *state.Repository
}

// NewTracker creates a new deployment tracker
func NewTracker(repo *state.Repository) *Tracker {
	return &Tracker{repo: repo}
}

// Record persists one deployment attempt. History is best effort: an
// unavailable database never fails the deployment itself.
func (t *Tracker) Record(ctx context.Context, record *state.Deployment) {
	if t == nil || t.repo == nil {
		log.Debug().Msg("History disabled, not recording deployment")
		return
	}

	if err := t.repo.Create(ctx, record); err != nil {
		log.Warn().Err(err).Msg("Failed to record deployment in history")
		return
	}

	log.Debug().
		Str("id", record.ID.String()).
		Str("status", record.Status).
		Msg("Deployment recorded")
}

// Last returns the most recent recorded deployment of the project at
// projectPath, or nil when there is none or history is disabled
func (t *Tracker) Last(ctx context.Context, projectPath string) *state.Deployment {
	if t == nil || t.repo == nil {
		return nil
	}

	last, err := t.repo.LastForProject(ctx, projectPath)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to look up the last deployment")
		return nil
	}
	return last
}

// buildRecord folds one attempt's inputs and outcome into a history row
func buildRecord(dir string, analysis *analyzer.Analysis, settings *platform.Settings, meta gitmeta.Meta, result *Result, duration time.Duration, deployErr error) *state.Deployment {
	record := &state.Deployment{
		ProjectName:    analysis.ProjectName,
		ProjectPath:    dir,
		Platform:       settings.Platform,
		Framework:      string(settings.Framework),
		PackageManager: string(settings.PackageManager),
		BuildCommand:   settings.BuildCommand,
		PublishDir:     settings.PublishDir,
		Prod:           settings.Prod,
		Status:         state.StatusSucceeded,
		CommitSHA:      meta.SHA,
		Branch:         meta.Branch,
		Dirty:          meta.Dirty,
		DurationMS:     duration.Milliseconds(),
	}

	if deployErr != nil {
		record.Status = state.StatusFailed
		record.Error = deployErr.Error()
	}
	if result != nil {
		record.URL = result.URL
	}

	return record
}
