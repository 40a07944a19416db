package handler

import (
	"encoding/json"
	"net/http"

	"bokclean/internal/bookings/service"
	httputil "bokclean/pkg/http"
	"bokclean/pkg/logger"
	"bokclean/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type discountValidationRequest struct {
	Code    string            `json:"code"`
	Booking model.BookingForm `json:"booking"`
}

func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Guests submit without an identity header; it is only required
	// for credits payments, which the service enforces.
	userID := r.Header.Get(httputil.HeaderUserID)

	var form model.BookingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	result, err := h.service.Submit(r.Context(), userID, &form)
	if err != nil {
		h.log.Warn("Booking submission rejected",
			"handler", "Submit",
			"service_type", form.Service,
			"payment_method", form.PaymentMethod,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	if result.Duplicate {
		// Retried submission; the original booking is the answer.
		httputil.WriteSuccess(w, result)
		return
	}

	httputil.WriteCreated(w, result)
}

func (h *BookingHandler) GetByReference(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("reference")

	booking, err := h.service.GetByReference(r.Context(), reference)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) GetSeries(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	groupID := ps.ByName("group_id")

	bookings, err := h.service.GetSeries(r.Context(), groupID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, bookings)
}

// ValidateDiscount prices the supplied booking attributes and resolves
// the code against them without creating anything.
func (h *BookingHandler) ValidateDiscount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req discountValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	resolution, err := h.service.ValidateDiscount(r.Context(), req.Code, &req.Booking)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, resolution)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Submit)
	router.GET("/api/v1/bookings/ref/:reference", h.GetByReference)
	router.GET("/api/v1/bookings/series/:group_id", h.GetSeries)
	router.POST("/api/v1/discounts/validate", h.ValidateDiscount)
}
