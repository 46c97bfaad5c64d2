package repository

import (
	"context"
	"time"

	"digital-menu-api/models"

	"gorm.io/gorm"
)

type JobRepository struct{ DB *gorm.DB }

func NewJobRepository(db *gorm.DB) *JobRepository { return &JobRepository{DB: db} }

func (r *JobRepository) Create(ctx context.Context, job *models.TranslationJob) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("History").Create(job).Error; err != nil {
			return err
		}
		return tx.Create(&models.JobStatusHistory{JobID: job.ID, ToStatus: job.Status, Note: "job created"}).Error
	})
}

func (r *JobRepository) GetOwned(ctx context.Context, ownerID, id string) (*models.TranslationJob, error) {
	var job models.TranslationJob
	err := r.DB.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&job).Error
	if err != nil {
		return nil, translate(err)
	}
	return &job, nil
}

// UpdateProgress stores the running counters of a job.
func (r *JobRepository) UpdateProgress(ctx context.Context, jobID string, completed, failed int) error {
	return r.DB.WithContext(ctx).Model(&models.TranslationJob{}).Where("id = ?", jobID).
		Updates(map[string]interface{}{"completed": completed, "failed": failed}).Error
}

// Transition moves the job to status and records the change. Validation of
// the transition is left to the caller.
func (r *JobRepository) Transition(ctx context.Context, job *models.TranslationJob, to models.JobStatus, note string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		fields := map[string]interface{}{"status": to}
		switch to {
		case models.JobRunning:
			fields["started_at"] = now
			job.StartedAt = &now
		case models.JobCompleted, models.JobPartial, models.JobCanceled:
			fields["finished_at"] = now
			fields["completed"] = job.Completed
			fields["failed"] = job.Failed
			fields["summary"] = job.Summary
			job.FinishedAt = &now
		}
		if err := tx.Model(&models.TranslationJob{}).Where("id = ?", job.ID).Updates(fields).Error; err != nil {
			return err
		}
		h := models.JobStatusHistory{JobID: job.ID, FromStatus: job.Status, ToStatus: to, Note: note}
		if err := tx.Create(&h).Error; err != nil {
			return err
		}
		job.Status = to
		job.History = append(job.History, h)
		return nil
	})
}

func (r *JobRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.TranslationJob, error) {
	var out []models.TranslationJob
	err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *JobRepository) ListAll(ctx context.Context) ([]models.TranslationJob, error) {
	var out []models.TranslationJob
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}
