package task_test

import (
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
)

func TestParsePatch(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "title_only", body: `{"Title": "New title"}`},
		{name: "all_allowed_fields", body: `{"Title": "t", "Description": "d", "Task_Priority": "high", "Due_Date": "2026-09-01T00:00:00Z"}`},
		{name: "unknown_key_rejects_whole_patch", body: `{"Title": "t", "Owner": "someone-else"}`, wantErr: true},
		{name: "completed_not_patchable", body: `{"Completed": true}`, wantErr: true},
		{name: "collaborators_not_patchable", body: `{"collaborators": ["x"]}`, wantErr: true},
		{name: "bad_priority_value", body: `{"Task_Priority": "urgent"}`, wantErr: true},
		{name: "not_an_object", body: `["Title"]`, wantErr: true},
		{name: "empty_object", body: `{}`},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			p, err := task.ParsePatch([]byte(tt.body))

			if tt.wantErr {
				if !errors.Is(err, task.ErrInvalidField) {
					t.Fatalf("got %v, want ErrInvalidField", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.name == "empty_object" && !p.Empty() {
				t.Fatal("empty body should produce an empty patch")
			}
		})
	}
}

func TestPatchApply(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	title := "Renamed"
	prio := task.PriorityHigh

	orig := task.Task{
		ID:          "task-1",
		OwnerID:     "owner-1",
		Title:       "Original",
		Description: "Keep me",
		Completed:   true,
		Priority:    task.PriorityLow,
	}

	got := task.Patch{Title: &title, Priority: &prio, DueDate: &due}.Apply(orig)

	if got.Title != "Renamed" || got.Priority != task.PriorityHigh {
		t.Fatalf("patched fields not applied: %+v", got)
	}
	if got.Description != "Keep me" || !got.Completed {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("due date not applied: %v", got.DueDate)
	}
	if orig.Title != "Original" {
		t.Fatal("Apply mutated its input")
	}
}
