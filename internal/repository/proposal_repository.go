package repository

import (
	"context"

	"github.com/lexflow/backend/internal/model"
)

// ProposalRepository は確定済み提案の永続化インターフェース。
// Create/Update は送信ペイロード全体を 1 トランザクションで書き込む。
type ProposalRepository interface {
	Create(ctx context.Context, sub *model.Submission) (*model.Proposal, error)
	Update(ctx context.Context, id string, sub *model.Submission) (*model.Proposal, error)
	GetByID(ctx context.Context, id string) (*model.Proposal, error)
}
