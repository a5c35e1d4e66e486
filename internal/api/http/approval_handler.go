package http

import (
	"encoding/json"
	"net/http"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/service"
)

type ApprovalHandler struct {
	approvalSvc service.ApprovalService
}

func NewApprovalHandler(approvalSvc service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalSvc: approvalSvc}
}

type approvalRequest struct {
	Kind     string  `json:"kind"`
	EntryIDs []int32 `json:"entry_ids"`
	// SkipReceipt opts out of consolidating the approved batch into one
	// receipt.
	SkipReceipt bool `json:"skip_receipt"`
}

func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, req, ok := decodeApproval(w, r)
	if !ok {
		return
	}

	result, err := h.approvalSvc.Approve(r.Context(), actor, domain.EntryKind(req.Kind), req.EntryIDs, !req.SkipReceipt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, req, ok := decodeApproval(w, r)
	if !ok {
		return
	}

	result, err := h.approvalSvc.Reject(r.Context(), actor, domain.EntryKind(req.Kind), req.EntryIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decodeApproval(w http.ResponseWriter, r *http.Request) (domain.Actor, approvalRequest, bool) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return domain.Actor{}, approvalRequest{}, false
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("", "invalid request body"))
		return domain.Actor{}, approvalRequest{}, false
	}
	return actor, req, true
}
