package handlers

import (
	"net/http"
	"time"

	"github.com/padelops/club-system/middleware"
	"github.com/padelops/club-system/services"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateBookingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	// An omitted user_id books for the authenticated user.
	if input.UserID == 0 {
		userID, err := middleware.GetUserIDFromContext(r.Context())
		if err != nil {
			unauthorizedResponse(w, r, err.Error())
			return
		}
		input.UserID = userID
	}
	if problems := checkStruct(input); problems != nil {
		failedValidationResponse(w, r, problems)
		return
	}

	booking, err := h.bookingService.CreateBooking(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"booking": booking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bookingID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bookingService.CancelBooking(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"cancelled": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bookingID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	booking, err := h.bookingService.CheckIn(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"booking": booking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BookingHandler) SplitPayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "bookingID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SplitBookingInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if problems := checkStruct(input); problems != nil {
		failedValidationResponse(w, r, problems)
		return
	}

	splits, err := h.bookingService.SplitBookingPayment(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"splits": splits}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListForCourt returns the bookings of one court for a given day,
// passed as ?day=YYYY-MM-DD. Missing day defaults to today.
func (h *BookingHandler) ListForCourt(w http.ResponseWriter, r *http.Request) {
	courtID, err := idParam(r, "courtID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	day := time.Now()
	if raw := r.URL.Query().Get("day"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	bookings, err := h.bookingService.ListCourtBookings(r.Context(), courtID, day)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bookings": bookings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BookingHandler) ListCourts(w http.ResponseWriter, r *http.Request) {
	clubID, err := idParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	courts, err := h.bookingService.ListCourts(r.Context(), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"courts": courts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
