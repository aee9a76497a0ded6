package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/category"
	"github.com/google/uuid"
)

func (ts *testServer) seedCategory(t *testing.T, ownerID, name string) category.Category {
	t.Helper()

	now := time.Now().UTC()

	c, err := ts.categories.Create(context.Background(), category.Category{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	return c
}

func TestCreateCategory(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "owner@example.com", "correcthorse")
	token := ts.mintToken(t, u.ID)

	w := ts.do(t, http.MethodPost, "/tasks/create-category", token, `{"name": "Work"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var c category.Category
	decodeData(t, w, &c)

	if c.Name != "Work" || c.OwnerID != u.ID {
		t.Fatalf("category %+v", c)
	}
}

// Names are unique across all users, not per owner.
func TestCategoryNameGloballyUnique(t *testing.T) {
	ts := newTestServer(t)
	first := ts.seedUser(t, "first@example.com", "correcthorse")
	second := ts.seedUser(t, "second@example.com", "correcthorse")

	ts.seedCategory(t, first.ID, "Work")

	token := ts.mintToken(t, second.ID)
	w := ts.do(t, http.MethodPost, "/tasks/create-category", token, `{"name": "Work"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate name across users: got %d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestListCategoriesOwnedOnly(t *testing.T) {
	ts := newTestServer(t)
	mine := ts.seedUser(t, "mine@example.com", "correcthorse")
	other := ts.seedUser(t, "other@example.com", "correcthorse")

	ts.seedCategory(t, mine.ID, "Work")
	ts.seedCategory(t, other.ID, "Play")

	token := ts.mintToken(t, mine.ID)

	var list []category.Category
	decodeData(t, ts.do(t, http.MethodGet, "/tasks/categories", token, ""), &list)

	if len(list) != 1 || list[0].Name != "Work" {
		t.Fatalf("got %+v, want only the owned category", list)
	}
}

// Update answers 403 for a foreign category, delete answers 404. The two
// different denial shapes are both part of the contract.
func TestCategoryDenialShapes(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.seedUser(t, "owner@example.com", "correcthorse")
	intruder := ts.seedUser(t, "intruder@example.com", "correcthorse")

	c := ts.seedCategory(t, owner.ID, "Work")
	token := ts.mintToken(t, intruder.ID)

	update := ts.do(t, http.MethodPut, "/tasks/update-category/"+c.ID, token, `{"name": "Mine now"}`)

	if update.Code != http.StatusForbidden {
		t.Fatalf("foreign update: got %d, want 403, body=%s", update.Code, update.Body.String())
	}

	del := ts.do(t, http.MethodDelete, "/tasks/delete-category/"+c.ID, token, "")

	if del.Code != http.StatusNotFound {
		t.Fatalf("foreign delete: got %d, want 404, body=%s", del.Code, del.Body.String())
	}

	if _, err := ts.categories.GetByID(context.Background(), c.ID); err != nil {
		t.Fatalf("category should survive foreign requests: %v", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.seedUser(t, "owner@example.com", "correcthorse")
	c := ts.seedCategory(t, owner.ID, "Work")
	token := ts.mintToken(t, owner.ID)

	w := ts.do(t, http.MethodPut, "/tasks/update-category/"+c.ID, token, `{"name": "Deep Work"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var updated category.Category
	decodeData(t, w, &updated)

	if updated.Name != "Deep Work" {
		t.Fatalf("name %q", updated.Name)
	}
}

func TestUpdateCategoryNameCollision(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.seedUser(t, "owner@example.com", "correcthorse")
	ts.seedCategory(t, owner.ID, "Work")
	c := ts.seedCategory(t, owner.ID, "Play")
	token := ts.mintToken(t, owner.ID)

	w := ts.do(t, http.MethodPut, "/tasks/update-category/"+c.ID, token, `{"name": "Work"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("rename onto taken name: got %d, want 400", w.Code)
	}
}

func TestDeleteCategory(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.seedUser(t, "owner@example.com", "correcthorse")
	c := ts.seedCategory(t, owner.ID, "Work")
	token := ts.mintToken(t, owner.ID)

	w := ts.do(t, http.MethodDelete, "/tasks/delete-category/"+c.ID, token, "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if _, err := ts.categories.GetByID(context.Background(), c.ID); err != category.ErrNotFound {
		t.Fatalf("category still present: %v", err)
	}

	missing := ts.do(t, http.MethodDelete, "/tasks/delete-category/"+c.ID, token, "")

	if missing.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d, want 404", missing.Code)
	}
}
