package http

import (
	"net/http"
	"time"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/service"
)

type ReceiptHandler struct {
	receiptSvc service.ReceiptService
}

func NewReceiptHandler(receiptSvc service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptSvc: receiptSvc}
}

func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	receipt, err := h.receiptSvc.GetReceipt(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

type listReceiptsResponse struct {
	Receipts   []domain.Receipt `json:"receipts"`
	TotalCount int32            `json:"total_count"`
}

func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ints := queryInts{values: q}
	filter := domain.ReceiptFilter{
		Type:     domain.ReceiptType(q.Get("type")),
		ParishID: ints.get("parish_id"),
		Page:     ints.get("page"),
		PageSize: ints.get("page_size"),
	}
	if ints.err != nil {
		writeError(w, ints.err)
		return
	}

	for name, dest := range map[string]**time.Time{"date_from": &filter.DateFrom, "date_to": &filter.DateTo} {
		if raw := q.Get(name); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				writeError(w, domain.NewValidationError(name, "date must be yyyy-mm-dd"))
				return
			}
			*dest = &parsed
		}
	}

	receipts, count, err := h.receiptSvc.ListReceipts(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listReceiptsResponse{Receipts: receipts, TotalCount: count})
}
