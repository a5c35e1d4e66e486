package http

import (
	"net/http"

	"parish-ledger-backend/internal/security"
	"parish-ledger-backend/internal/service"

	"github.com/gorilla/mux"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Entry    *EntryHandler
	Approval *ApprovalHandler
	Receipt  *ReceiptHandler
	Rental   *RentalHandler
	Audit    *AuditHandler
}

func NewHandlers(
	entrySvc service.EntryService,
	approvalSvc service.ApprovalService,
	receiptSvc service.ReceiptService,
	bridgeSvc service.RentalBridgeService,
	auditSvc service.AuditService,
) *Handlers {
	return &Handlers{
		Entry:    NewEntryHandler(entrySvc),
		Approval: NewApprovalHandler(approvalSvc),
		Receipt:  NewReceiptHandler(receiptSvc),
		Rental:   NewRentalHandler(bridgeSvc),
		Audit:    NewAuditHandler(auditSvc),
	}
}

// NewRouter builds the API router. Every /api/v1 route requires a bearer
// token.
func NewRouter(h *Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, RequestLogging)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(Auth(tokens))

	api.HandleFunc("/entries", h.Entry.Create).Methods(http.MethodPost)
	api.HandleFunc("/entries", h.Entry.List).Methods(http.MethodGet)
	api.HandleFunc("/entries/approve", h.Approval.Approve).Methods(http.MethodPost)
	api.HandleFunc("/entries/reject", h.Approval.Reject).Methods(http.MethodPost)
	api.HandleFunc("/entries/{id:[0-9]+}", h.Entry.Get).Methods(http.MethodGet)

	api.HandleFunc("/receipts", h.Receipt.List).Methods(http.MethodGet)
	api.HandleFunc("/receipts/{id:[0-9]+}", h.Receipt.Get).Methods(http.MethodGet)

	api.HandleFunc("/contracts/{id:[0-9]+}/payments", h.Rental.ConvertPayment).Methods(http.MethodPost)

	api.HandleFunc("/audit-logs", h.Audit.List).Methods(http.MethodGet)

	return r
}
