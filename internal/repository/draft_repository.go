package repository

import (
	"context"

	"github.com/lexflow/backend/internal/model"
)

// DraftRepository stores in-progress proposal drafts. Drafts are transient:
// they exist only while an editing session is open and are deleted on
// submission or cancellation.
type DraftRepository interface {
	Create(ctx context.Context, d *model.ProposalDraft) error
	GetByID(ctx context.Context, id string) (*model.ProposalDraft, error)
	Save(ctx context.Context, d *model.ProposalDraft) error
	Delete(ctx context.Context, id string) error
}
