package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lexflow/backend/internal/model"
	"github.com/lexflow/backend/internal/pricing"
	"github.com/lexflow/backend/internal/service"
	"github.com/lexflow/backend/internal/wizard"
	"github.com/lexflow/backend/pkg/auth"
)

// DraftHandler は提案ドラフト編集セッションの HTTP ハンドラ
type DraftHandler struct {
	draftService service.DraftService
}

// NewDraftHandler は DraftHandler を生成する
func NewDraftHandler(draftService service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// draftResponse is the draft plus its effective step list and live totals,
// so the client renders the step bar and the running summary without
// recomputing applicability or pricing rules.
type draftResponse struct {
	*model.ProposalDraft
	Steps   []wizard.Step   `json:"steps"`
	Summary pricing.Summary `json:"summary"`
}

func newDraftResponse(d *model.ProposalDraft) draftResponse {
	return draftResponse{
		ProposalDraft: d,
		Steps:         wizard.ApplicableSteps(&d.Billing),
		Summary:       pricing.Summarize(d),
	}
}

// Create は POST /api/proposals/drafts を処理する（認証必須）
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req service.CreateDraftParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	d, err := h.draftService.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newDraftResponse(d))
}

// Get は GET /api/proposals/drafts/{id} を処理する（認証必須）
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.Get(r.Context(), id, userID)
	})
}

// Cancel は DELETE /api/proposals/drafts/{id} を処理する（認証必須）
func (h *DraftHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	if err := h.draftService.Cancel(r.Context(), r.PathValue("id"), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// SetBilling は PUT /api/proposals/drafts/{id}/billing を処理する
func (h *DraftHandler) SetBilling(w http.ResponseWriter, r *http.Request) {
	var req service.BillingParams
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.SetBilling(r.Context(), id, userID, req)
	})
}

// UpdateRetainer は PUT /api/proposals/drafts/{id}/retainer を処理する
func (h *DraftHandler) UpdateRetainer(w http.ResponseWriter, r *http.Request) {
	var req model.RetainerConfig
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.UpdateRetainer(r.Context(), id, userID, req)
	})
}

// UpdateSuccessFee は PUT /api/proposals/drafts/{id}/success-fee を処理する
func (h *DraftHandler) UpdateSuccessFee(w http.ResponseWriter, r *http.Request) {
	var req service.SuccessFeeParams
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.UpdateSuccessFee(r.Context(), id, userID, req)
	})
}

// SetDiscount は PUT /api/proposals/drafts/{id}/discount を処理する
func (h *DraftHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var req model.DiscountConfig
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.SetDiscount(r.Context(), id, userID, req)
	})
}

// SetTax は PUT /api/proposals/drafts/{id}/tax を処理する
func (h *DraftHandler) SetTax(w http.ResponseWriter, r *http.Request) {
	var req model.TaxConfig
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.SetTax(r.Context(), id, userID, req)
	})
}

// SetPaymentTerms は PUT /api/proposals/drafts/{id}/payment-terms を処理する
func (h *DraftHandler) SetPaymentTerms(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Terms []model.PaymentTerm `json:"terms"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.SetPaymentTerms(r.Context(), id, userID, req.Terms)
	})
}

// AddItem は POST /api/proposals/drafts/{id}/items を処理する
func (h *DraftHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req service.ItemParams
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.AddItem(r.Context(), id, userID, req)
	})
}

// UpdateItem は PUT /api/proposals/drafts/{id}/items/{index} を処理する
func (h *DraftHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var req service.ItemParams
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.UpdateItem(r.Context(), id, userID, index, req)
	})
}

// RemoveItem は DELETE /api/proposals/drafts/{id}/items/{index} を処理する
func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.RemoveItem(r.Context(), id, userID, index)
	})
}

// AssignMilestones は PUT /api/proposals/drafts/{id}/items/{index}/milestones を処理する
func (h *DraftHandler) AssignMilestones(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		MilestoneIDs []string `json:"milestone_ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.AssignMilestones(r.Context(), id, userID, index, req.MilestoneIDs)
	})
}

// AddMilestone は POST /api/proposals/drafts/{id}/milestones を処理する
func (h *DraftHandler) AddMilestone(w http.ResponseWriter, r *http.Request) {
	var req model.Milestone
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.AddMilestone(r.Context(), id, userID, req)
	})
}

// UpdateMilestone は PUT /api/proposals/drafts/{id}/milestones/{milestoneID} を処理する
func (h *DraftHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	var req model.Milestone
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.UpdateMilestone(r.Context(), id, userID, r.PathValue("milestoneID"), req)
	})
}

// RemoveMilestone は DELETE /api/proposals/drafts/{id}/milestones/{milestoneID} を処理する
func (h *DraftHandler) RemoveMilestone(w http.ResponseWriter, r *http.Request) {
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.RemoveMilestone(r.Context(), id, userID, r.PathValue("milestoneID"))
	})
}

// Next は POST /api/proposals/drafts/{id}/steps/next を処理する
func (h *DraftHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.Next(r.Context(), id, userID)
	})
}

// Back は POST /api/proposals/drafts/{id}/steps/back を処理する
func (h *DraftHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.Back(r.Context(), id, userID)
	})
}

// Jump は POST /api/proposals/drafts/{id}/steps/jump を処理する
func (h *DraftHandler) Jump(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.withDraft(w, r, func(userID, id string) (*model.ProposalDraft, error) {
		return h.draftService.Jump(r.Context(), id, userID, req.Index)
	})
}

// Summary は GET /api/proposals/drafts/{id}/summary を処理する
func (h *DraftHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	s, err := h.draftService.Summary(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Submit は POST /api/proposals/drafts/{id}/submit を処理する
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	prop, err := h.draftService.Submit(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, prop)
}

// withDraft runs a draft mutation with the authenticated owner and writes the
// updated draft (with its effective step list) back.
func (h *DraftHandler) withDraft(w http.ResponseWriter, r *http.Request, fn func(userID, id string) (*model.ProposalDraft, error)) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	d, err := fn(userID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftResponse(d))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return false
	}
	return true
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_index"})
		return 0, false
	}
	return index, true
}
