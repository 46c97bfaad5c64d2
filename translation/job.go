package translation

import (
	"context"
	"fmt"
	"sync"

	"digital-menu-api/models"
	"digital-menu-api/statemachine"

	"go.uber.org/zap"
)

// JobStore persists translation job records.
type JobStore interface {
	Create(ctx context.Context, job *models.TranslationJob) error
	UpdateProgress(ctx context.Context, jobID string, completed, failed int) error
	Transition(ctx context.Context, job *models.TranslationJob, to models.JobStatus, note string) error
}

// JobRecorder counts finished jobs by status.
type JobRecorder interface {
	ObserveJob(status string)
}

// JobRunner runs a dispatch and keeps a TranslationJob record of it.
type JobRunner struct {
	jobs     JobStore
	recorder JobRecorder
	log      *zap.Logger

	mu     sync.Mutex
	active map[string]*activeJob
}

type activeJob struct {
	cancel        context.CancelFunc
	ownerCanceled bool
}

func NewJobRunner(jobs JobStore, recorder JobRecorder, log *zap.Logger) *JobRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &JobRunner{jobs: jobs, recorder: recorder, log: log, active: map[string]*activeJob{}}
}

func (r *JobRunner) transition(ctx context.Context, job *models.TranslationJob, to models.JobStatus, actor, note string) error {
	if err := statemachine.CanTransition(job.Status, to, actor); err != nil {
		return err
	}
	return r.jobs.Transition(context.WithoutCancel(ctx), job, to, note)
}

// Cancel asks the run of jobID in this process to stop issuing pairs. It
// reports false when no such run is active.
func (r *JobRunner) Cancel(jobID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.active[jobID]
	if !ok {
		return false
	}
	a.ownerCanceled = true
	a.cancel()
	return true
}

// CancelRecord moves a job that has no active run to CANCELED on behalf of
// its owner. Records left pending or running by a stopped process end here.
func (r *JobRunner) CancelRecord(ctx context.Context, job *models.TranslationJob) error {
	return r.transition(ctx, job, models.JobCanceled, statemachine.ActorOwner, "canceled by owner")
}

func (r *JobRunner) register(jobID string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[jobID] = &activeJob{cancel: cancel}
}

func (r *JobRunner) unregister(jobID string) (ownerCanceled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.active[jobID]; ok {
		ownerCanceled = a.ownerCanceled
		delete(r.active, jobID)
	}
	return ownerCanceled
}

// Run records a pending job, dispatches the selection and moves the job to
// its final status. Validation errors from the dispatcher are returned before
// any record is written.
func (r *JobRunner) Run(ctx context.Context, d *Dispatcher, ownerID, menuID string, sel *Selection) (*models.TranslationJob, Result, error) {
	if sel.SelectedCount() == 0 {
		return nil, Result{}, ErrNothingSelected
	}
	if len(sel.Languages()) == 0 {
		return nil, Result{}, ErrNoLanguages
	}

	langs := make(models.StringList, 0, len(sel.Languages()))
	for _, l := range sel.Languages() {
		langs = append(langs, string(l))
	}
	job := &models.TranslationJob{
		MenuID:      menuID,
		OwnerID:     ownerID,
		Status:      models.JobPending,
		Languages:   langs,
		Total:       sel.PairCount(),
		MaxInFlight: d.MaxInFlight,
	}
	if err := r.jobs.Create(ctx, job); err != nil {
		return nil, Result{}, fmt.Errorf("creating job: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.register(job.ID, cancel)
	defer r.unregister(job.ID)

	if err := r.transition(ctx, job, models.JobRunning, statemachine.ActorSystem, ""); err != nil {
		return job, Result{}, err
	}

	log := r.log.With(zap.String("job_id", job.ID), zap.String("menu_id", menuID))
	prev := d.OnProgress
	d.OnProgress = func(p Progress) {
		if err := r.jobs.UpdateProgress(context.WithoutCancel(ctx), job.ID, p.Completed, p.Failed); err != nil {
			log.Warn("saving job progress failed", zap.Error(err))
		}
		if prev != nil {
			prev(p)
		}
	}
	defer func() { d.OnProgress = prev }()

	res, err := d.Run(ctx, menuID, sel)
	if err != nil {
		return job, res, err
	}

	ownerCanceled := r.unregister(job.ID)
	job.Completed, job.Failed, job.Summary = res.Completed, res.Failed, res.Summary()
	final := statemachine.FinalStatus(res.Failed, res.Canceled)
	actor, note := statemachine.ActorSystem, ""
	switch {
	case res.Canceled && ownerCanceled:
		actor, note = statemachine.ActorOwner, "canceled by owner"
	case res.Canceled:
		note = "context canceled"
	}
	if err := r.transition(ctx, job, final, actor, note); err != nil {
		return job, res, err
	}
	if r.recorder != nil {
		r.recorder.ObserveJob(string(final))
	}
	log.Info("translation job finished", zap.String("status", string(final)), zap.String("summary", job.Summary))
	return job, res, nil
}
