package handlers

import (
	"net/http"

	"github.com/padelops/club-system/services"
)

type BillingHandler struct {
	billingService services.BillingService
}

func NewBillingHandler(billingService services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

type previewCommissionRequest struct {
	GrossCents int64 `json:"gross_cents" validate:"required,gt=0"`
}

// PreviewCommission returns the fee breakdown a gross amount would
// produce under the club's current commission rate, without touching any
// payment.
func (h *BillingHandler) PreviewCommission(w http.ResponseWriter, r *http.Request) {
	clubID, err := idParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input previewCommissionRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if problems := checkStruct(input); problems != nil {
		failedValidationResponse(w, r, problems)
		return
	}

	breakdown, err := h.billingService.PreviewCommission(r.Context(), clubID, input.GrossCents)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"breakdown": breakdown}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type updateCommissionRateRequest struct {
	RateBPS int `json:"commission_rate_bps"`
}

func (h *BillingHandler) UpdateCommissionRate(w http.ResponseWriter, r *http.Request) {
	clubID, err := idParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input updateCommissionRateRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.billingService.UpdateCommissionRate(r.Context(), clubID, input.RateBPS); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"commission_rate_bps": input.RateBPS}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BillingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := idParam(r, "paymentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payment, err := h.billingService.ConfirmPayment(r.Context(), paymentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"payment": payment}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PayOut triggers the transfer of a completed payment's net proceeds.
// A provider-side failure is a 200 with transferred=false; the caller
// inspects the body, not the status code.
func (h *BillingHandler) PayOut(w http.ResponseWriter, r *http.Request) {
	paymentID, err := idParam(r, "paymentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.billingService.PayOutPayment(r.Context(), paymentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	body := jsonResponse{
		"transferred": result.Success,
		"breakdown":   result.Commission,
	}
	if result.Success {
		body["transfer_id"] = result.TransferID
	} else if result.Err != nil {
		body["failure_reason"] = result.Err.Error()
	}
	if err := writeJSON(w, http.StatusOK, body, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BillingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	clubID, err := idParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.billingService.SummarizeClub(r.Context(), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"summary": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
