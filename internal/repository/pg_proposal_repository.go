package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexflow/backend/internal/model"
)

// PgProposalRepository は ProposalRepository の PostgreSQL 実装。
// 共有フィールドはカラム、課金方式ごとの設定（タグ付きユニオン）は
// billing JSONB カラムに保存する。
type PgProposalRepository struct {
	pool *pgxpool.Pool
}

// NewPgProposalRepository は PgProposalRepository を生成する
func NewPgProposalRepository(pool *pgxpool.Pool) *PgProposalRepository {
	return &PgProposalRepository{pool: pool}
}

// Create は提案・明細・マイルストーン・支払条件を 1 トランザクションで保存する
func (r *PgProposalRepository) Create(ctx context.Context, sub *model.Submission) (*model.Proposal, error) {
	billing, err := json.Marshal(sub.Billing)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p := &model.Proposal{Submission: *sub}
	err = tx.QueryRow(ctx,
		`INSERT INTO proposals
		   (client_id, lead_id, title, currency, method, billing,
		    discount_type, discount_percent, discount_amount,
		    tax_rate, tax_inclusive, amount)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING id, created_at, updated_at`,
		sub.ClientID, sub.LeadID, sub.Title, sub.Currency, sub.Billing.Method, billing,
		sub.Discount.Type, sub.Discount.Percent, sub.Discount.Amount,
		sub.Tax.Rate, sub.Tax.Inclusive, sub.Amount,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := insertChildren(ctx, tx, p.ID, sub); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Update は提案を更新する。明細と支払条件は入れ替え、マイルストーンは
// ID でマッチングして更新・挿入し、ペイロードにない行を削除する。
func (r *PgProposalRepository) Update(ctx context.Context, id string, sub *model.Submission) (*model.Proposal, error) {
	billing, err := json.Marshal(sub.Billing)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p := &model.Proposal{ID: id, Submission: *sub}
	err = tx.QueryRow(ctx,
		`UPDATE proposals SET
		   client_id=$1, lead_id=$2, title=$3, currency=$4, method=$5, billing=$6,
		   discount_type=$7, discount_percent=$8, discount_amount=$9,
		   tax_rate=$10, tax_inclusive=$11, amount=$12, updated_at=NOW()
		 WHERE id=$13
		 RETURNING created_at, updated_at`,
		sub.ClientID, sub.LeadID, sub.Title, sub.Currency, sub.Billing.Method, billing,
		sub.Discount.Type, sub.Discount.Percent, sub.Discount.Amount,
		sub.Tax.Rate, sub.Tax.Inclusive, sub.Amount, id,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM proposal_items WHERE proposal_id=$1`, id); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM payment_terms WHERE proposal_id=$1`, id); err != nil {
		return nil, err
	}
	keep := make([]string, 0, len(sub.Milestones))
	for _, m := range sub.Milestones {
		keep = append(keep, m.ID)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM proposal_milestones WHERE proposal_id=$1 AND NOT (id = ANY($2))`,
		id, keep,
	); err != nil {
		return nil, err
	}

	if err := insertChildren(ctx, tx, id, sub); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func insertChildren(ctx context.Context, tx pgx.Tx, proposalID string, sub *model.Submission) error {
	for i, it := range sub.Items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO proposal_items
			   (proposal_id, position, billing_method, person_id, profile, description,
			    quantity, rate, unit_price, discount_percent, discount_amount, amount,
			    milestone_ids, expense_id, is_estimated, is_capped, capped_hours, capped_amount)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
			proposalID, i, it.BillingMethod, it.PersonID, it.Profile, it.Description,
			it.Quantity, it.Rate, it.UnitPrice, it.DiscountPercent, it.DiscountAmount, it.Amount,
			it.MilestoneIDs, it.ExpenseID, it.IsEstimated, it.IsCapped, it.CappedHours, it.CappedAmount,
		); err != nil {
			return err
		}
	}
	for _, m := range sub.Milestones {
		if _, err := tx.Exec(ctx,
			`INSERT INTO proposal_milestones (id, proposal_id, name, description, amount, percent, due_date)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)
			 ON CONFLICT (id) DO UPDATE SET
			   name=EXCLUDED.name, description=EXCLUDED.description,
			   amount=EXCLUDED.amount, percent=EXCLUDED.percent, due_date=EXCLUDED.due_date`,
			m.ID, proposalID, m.Name, m.Description, m.Amount, m.Percent, m.DueDate,
		); err != nil {
			return err
		}
	}
	for i, t := range sub.PaymentTerms {
		if _, err := tx.Exec(ctx,
			`INSERT INTO payment_terms
			   (proposal_id, position, type, percent, due_days, milestone_id, description, item_index)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			proposalID, i, t.Type, t.Percent, t.DueDays, t.MilestoneID, t.Description, t.ItemIndex,
		); err != nil {
			return err
		}
	}
	return nil
}

// GetByID は提案を子レコード込みで取得する
func (r *PgProposalRepository) GetByID(ctx context.Context, id string) (*model.Proposal, error) {
	var p model.Proposal
	var billing []byte
	p.ID = id
	err := r.pool.QueryRow(ctx,
		`SELECT client_id, lead_id, title, currency, billing,
		        discount_type, discount_percent, discount_amount,
		        tax_rate, tax_inclusive, amount, created_at, updated_at
		 FROM proposals WHERE id=$1`,
		id,
	).Scan(&p.ClientID, &p.LeadID, &p.Title, &p.Currency, &billing,
		&p.Discount.Type, &p.Discount.Percent, &p.Discount.Amount,
		&p.Tax.Rate, &p.Tax.Inclusive, &p.Amount, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(billing, &p.Billing); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT billing_method, person_id, profile, description, quantity, rate, unit_price,
		        discount_percent, discount_amount, amount, milestone_ids,
		        expense_id, is_estimated, is_capped, capped_hours, capped_amount
		 FROM proposal_items WHERE proposal_id=$1 ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.LineItem
		if err := rows.Scan(&it.BillingMethod, &it.PersonID, &it.Profile, &it.Description,
			&it.Quantity, &it.Rate, &it.UnitPrice,
			&it.DiscountPercent, &it.DiscountAmount, &it.Amount, &it.MilestoneIDs,
			&it.ExpenseID, &it.IsEstimated, &it.IsCapped, &it.CappedHours, &it.CappedAmount); err != nil {
			return nil, err
		}
		p.Items = append(p.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := r.pool.Query(ctx,
		`SELECT id, name, description, amount, percent, due_date
		 FROM proposal_milestones WHERE proposal_id=$1 ORDER BY created_at`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var m model.Milestone
		var desc *string
		if err := mrows.Scan(&m.ID, &m.Name, &desc, &m.Amount, &m.Percent, &m.DueDate); err != nil {
			return nil, err
		}
		if desc != nil {
			m.Description = *desc
		}
		p.Milestones = append(p.Milestones, m)
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}

	trows, err := r.pool.Query(ctx,
		`SELECT type, percent, due_days, milestone_id, description, item_index
		 FROM payment_terms WHERE proposal_id=$1 ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var t model.PaymentTerm
		var desc *string
		if err := trows.Scan(&t.Type, &t.Percent, &t.DueDays, &t.MilestoneID, &desc, &t.ItemIndex); err != nil {
			return nil, err
		}
		if desc != nil {
			t.Description = *desc
		}
		p.PaymentTerms = append(p.PaymentTerms, t)
	}
	return &p, trows.Err()
}
