package inmemory

import (
	"context"
	"testing"

	"github.com/namrata251104/AI-FinancePilot/internal/jobs"
)

func TestStoreSaveAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.AnalyzeJob{JobID: "job-1", DatasetID: "ds-1", Status: jobs.JobStatusPending}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.DatasetID != "ds-1" || got.Status != jobs.JobStatusPending {
		t.Errorf("GetJob() = %+v, want dataset ds-1 pending", got)
	}

	// The stored job must be shielded from caller mutation.
	got.Status = jobs.JobStatusFailed
	again, _ := store.GetJob(ctx, "job-1")
	if again.Status != jobs.JobStatusPending {
		t.Errorf("stored job mutated through returned copy")
	}
}

func TestStoreSaveRequiresID(t *testing.T) {
	store := NewStore()
	if err := store.SaveJob(context.Background(), &jobs.AnalyzeJob{}); err == nil {
		t.Error("SaveJob() with empty ID should fail")
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore()
	if _, err := store.GetJob(context.Background(), "nope"); err == nil {
		t.Error("GetJob() for unknown ID should fail")
	}
}

func TestStoreListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seed := []*jobs.AnalyzeJob{
		{JobID: "a", DatasetID: "ds-1", Status: jobs.JobStatusPending},
		{JobID: "b", DatasetID: "ds-1", Status: jobs.JobStatusCompleted},
		{JobID: "c", DatasetID: "ds-2", Status: jobs.JobStatusPending},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s) error = %v", j.JobID, err)
		}
	}

	byDataset, err := store.ListJobs(ctx, jobs.JobFilter{DatasetID: "ds-1"})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(byDataset) != 2 {
		t.Errorf("ListJobs(ds-1) returned %d jobs, want 2", len(byDataset))
	}

	byStatus, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusPending})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(byStatus) != 2 {
		t.Errorf("ListJobs(pending) returned %d jobs, want 2", len(byStatus))
	}

	limited, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListJobs(limit 1) returned %d jobs, want 1", len(limited))
	}

	offside, err := store.ListJobs(ctx, jobs.JobFilter{Offset: 10})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(offside) != 0 {
		t.Errorf("ListJobs(offset 10) returned %d jobs, want 0", len(offside))
	}
}

func TestStoreUpdateJobStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.SaveJob(ctx, &jobs.AnalyzeJob{JobID: "job-1"}); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}
	if err := store.UpdateJobStatus(ctx, "job-1", jobs.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("UpdateJobStatus() error = %v", err)
	}

	got, _ := store.GetJob(ctx, "job-1")
	if got.Status != jobs.JobStatusFailed || got.Error != "boom" {
		t.Errorf("job after update = %+v, want failed/boom", got)
	}

	if err := store.UpdateJobStatus(ctx, "nope", jobs.JobStatusFailed, ""); err == nil {
		t.Error("UpdateJobStatus() for unknown ID should fail")
	}
}
