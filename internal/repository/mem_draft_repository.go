package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lexflow/backend/internal/model"
)

// MemDraftRepository is the in-memory DraftRepository. A draft is exclusively
// owned by its editing session, so a single mutex around the map is all the
// coordination the store needs. Reads and writes exchange deep copies: a
// caller can never observe another caller's partial mutation.
type MemDraftRepository struct {
	mu     sync.RWMutex
	drafts map[string]*model.ProposalDraft
}

// NewMemDraftRepository は MemDraftRepository を生成する
func NewMemDraftRepository() *MemDraftRepository {
	return &MemDraftRepository{drafts: map[string]*model.ProposalDraft{}}
}

// Create stores a new draft.
func (r *MemDraftRepository) Create(_ context.Context, d *model.ProposalDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	cp, err := cloneDraft(d)
	if err != nil {
		return err
	}
	r.drafts[d.ID] = cp
	return nil
}

// GetByID returns a copy of the draft, or ErrNotFound.
func (r *MemDraftRepository) GetByID(_ context.Context, id string) (*model.ProposalDraft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDraft(d)
}

// Save replaces the stored draft atomically.
func (r *MemDraftRepository) Save(_ context.Context, d *model.ProposalDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drafts[d.ID]; !ok {
		return ErrNotFound
	}
	d.UpdatedAt = time.Now()
	cp, err := cloneDraft(d)
	if err != nil {
		return err
	}
	r.drafts[d.ID] = cp
	return nil
}

// Delete discards the draft.
func (r *MemDraftRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drafts[id]; !ok {
		return ErrNotFound
	}
	delete(r.drafts, id)
	return nil
}

func cloneDraft(d *model.ProposalDraft) (*model.ProposalDraft, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var cp model.ProposalDraft
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}
