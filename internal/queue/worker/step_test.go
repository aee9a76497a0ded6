package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/job"
	"github.com/geocoder89/taskhub/internal/jobs"
	"github.com/geocoder89/taskhub/internal/notifications"
	"github.com/geocoder89/taskhub/internal/queue/worker"
)

type fakeJobsRepo struct {
	claimFn func(ctx context.Context, workerID string) (job.Job, error)

	done        []string
	failed      map[string]string
	rescheduled map[string]time.Time
}

func newFakeJobsRepo() *fakeJobsRepo {
	return &fakeJobsRepo{
		failed:      make(map[string]string),
		rescheduled: make(map[string]time.Time),
	}
}

func (f *fakeJobsRepo) ClaimNext(ctx context.Context, workerID string) (job.Job, error) {
	if f.claimFn != nil {
		return f.claimFn(ctx, workerID)
	}
	return job.Job{}, job.ErrJobNotFound
}

func (f *fakeJobsRepo) MarkDone(_ context.Context, id string) error {
	f.done = append(f.done, id)
	return nil
}

func (f *fakeJobsRepo) MarkFailed(_ context.Context, id, errMsg string) error {
	f.failed[id] = errMsg
	return nil
}

func (f *fakeJobsRepo) Reschedule(_ context.Context, id string, runAt time.Time, errMsg string) error {
	f.rescheduled[id] = runAt
	return nil
}

type fakeNotifier struct {
	sendErr error
	sent    []notifications.SendCollaboratorInviteInput
}

func (f *fakeNotifier) SendCollaboratorInvite(_ context.Context, in notifications.SendCollaboratorInviteInput) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, in)
	return nil
}

func invitePayload(t *testing.T) json.RawMessage {
	t.Helper()

	raw, err := jobs.CollaboratorInvitePayload{
		TaskID:      "task-1",
		TaskTitle:   "Ship it",
		Email:       "helper@example.com",
		InvitedByID: "owner-1",
		RequestedAt: time.Now().UTC(),
	}.JSON()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}

	return raw
}

func newWorker(repo *fakeJobsRepo, n notifications.Notifier) *worker.Worker {
	return worker.New(worker.Config{WorkerID: "test-worker"}, repo, n, nil)
}

func TestProcessOneNoJob(t *testing.T) {
	repo := newFakeJobsRepo()
	w := newWorker(repo, &fakeNotifier{})

	claimed, err := w.ProcessOne(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claimed {
		t.Fatal("claimed a job from an empty queue")
	}
}

func TestProcessOneDelivers(t *testing.T) {
	repo := newFakeJobsRepo()
	repo.claimFn = func(context.Context, string) (job.Job, error) {
		return job.Job{
			ID:          "job-1",
			Type:        jobs.TypeCollaboratorInvite,
			Payload:     invitePayload(t),
			MaxAttempts: 10,
		}, nil
	}

	n := &fakeNotifier{}
	w := newWorker(repo, n)

	claimed, err := w.ProcessOne(context.Background())

	if err != nil || !claimed {
		t.Fatalf("claimed=%v err=%v", claimed, err)
	}

	if len(n.sent) != 1 || n.sent[0].Email != "helper@example.com" || n.sent[0].TaskID != "task-1" {
		t.Fatalf("sent %+v", n.sent)
	}

	if len(repo.done) != 1 || repo.done[0] != "job-1" {
		t.Fatalf("done %v", repo.done)
	}
	if len(repo.failed) != 0 || len(repo.rescheduled) != 0 {
		t.Fatalf("unexpected failure bookkeeping: %v %v", repo.failed, repo.rescheduled)
	}
}

func TestProcessOneRetriesTransientFailure(t *testing.T) {
	repo := newFakeJobsRepo()
	repo.claimFn = func(context.Context, string) (job.Job, error) {
		return job.Job{
			ID:          "job-1",
			Type:        jobs.TypeCollaboratorInvite,
			Payload:     invitePayload(t),
			Attempts:    2,
			MaxAttempts: 10,
		}, nil
	}

	w := newWorker(repo, &fakeNotifier{sendErr: errors.New("smtp timeout")})

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	runAt, ok := repo.rescheduled["job-1"]
	if !ok {
		t.Fatalf("job not rescheduled, failed=%v", repo.failed)
	}

	// attempt 2 backs off by at least 8s
	if min := time.Now().UTC().Add(7 * time.Second); runAt.Before(min) {
		t.Fatalf("rescheduled too soon: %v", runAt)
	}
}

func TestProcessOneExhaustsAttempts(t *testing.T) {
	repo := newFakeJobsRepo()
	repo.claimFn = func(context.Context, string) (job.Job, error) {
		return job.Job{
			ID:          "job-1",
			Type:        jobs.TypeCollaboratorInvite,
			Payload:     invitePayload(t),
			Attempts:    9,
			MaxAttempts: 10,
		}, nil
	}

	w := newWorker(repo, &fakeNotifier{sendErr: errors.New("smtp timeout")})

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := repo.failed["job-1"]; !ok {
		t.Fatalf("job should be failed for good, rescheduled=%v", repo.rescheduled)
	}
}

// A payload that cannot decode will never succeed; it must not be retried.
func TestProcessOnePermanentFailure(t *testing.T) {
	tests := []struct {
		name string
		job  job.Job
	}{
		{
			name: "garbage_payload",
			job:  job.Job{ID: "job-1", Type: jobs.TypeCollaboratorInvite, Payload: json.RawMessage(`{"taskId": ""}`), MaxAttempts: 10},
		},
		{
			name: "unknown_type",
			job:  job.Job{ID: "job-1", Type: "no.such.type", Payload: invitePayload(t), MaxAttempts: 10},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeJobsRepo()
			repo.claimFn = func(context.Context, string) (job.Job, error) {
				return tt.job, nil
			}

			w := newWorker(repo, &fakeNotifier{})

			if _, err := w.ProcessOne(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if _, ok := repo.failed["job-1"]; !ok {
				t.Fatalf("permanent failure should mark failed on first attempt, rescheduled=%v", repo.rescheduled)
			}
			if len(repo.rescheduled) != 0 {
				t.Fatalf("permanent failure must not retry: %v", repo.rescheduled)
			}
		})
	}
}
