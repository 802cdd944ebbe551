package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/lexflow/backend/internal/model"
)

func TestMemDraftRepository_CreateGetSaveDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemDraftRepository()

	d := &model.ProposalDraft{ID: "d1", OwnerID: "u1", Title: "Acme retainer"}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Acme retainer" || got.OwnerID != "u1" {
		t.Errorf("unexpected draft: %+v", got)
	}

	got.Title = "Renamed"
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("save: %v", err)
	}
	again, _ := repo.GetByID(ctx, "d1")
	if again.Title != "Renamed" {
		t.Errorf("save not applied: %q", again.Title)
	}

	if err := repo.Delete(ctx, "d1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "d1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemDraftRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemDraftRepository()
	_ = repo.Create(ctx, &model.ProposalDraft{
		ID:    "d1",
		Items: []model.LineItem{{Description: "Research"}},
	})

	a, _ := repo.GetByID(ctx, "d1")
	a.Items[0].Description = "mutated"

	b, _ := repo.GetByID(ctx, "d1")
	if b.Items[0].Description != "Research" {
		t.Error("GetByID must return a copy, not shared state")
	}
}

func TestMemDraftRepository_SaveUnknownDraft(t *testing.T) {
	repo := NewMemDraftRepository()
	err := repo.Save(context.Background(), &model.ProposalDraft{ID: "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
