package http

import (
	"net/http"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/service"
)

type AuditHandler struct {
	auditSvc service.AuditService
}

func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

type listAuditResponse struct {
	Logs       []domain.AuditLogEntry `json:"logs"`
	TotalCount int32                  `json:"total_count"`
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	q := r.URL.Query()
	ints := queryInts{values: q}
	filter := domain.AuditFilter{
		Module:   q.Get("module"),
		ActorID:  ints.get("actor_id"),
		Action:   domain.AuditAction(q.Get("action")),
		Page:     ints.get("page"),
		PageSize: ints.get("page_size"),
	}
	if ints.err != nil {
		writeError(w, ints.err)
		return
	}

	logs, count, err := h.auditSvc.List(r.Context(), actor, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listAuditResponse{Logs: logs, TotalCount: count})
}
