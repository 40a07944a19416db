package handler

import (
	"encoding/json"
	"net/http"

	"bokclean/internal/credits/service"
	apperrors "bokclean/pkg/errors"
	httputil "bokclean/pkg/http"
	"bokclean/pkg/logger"
	"bokclean/pkg/sealer"

	"github.com/julienschmidt/httprouter"
)

type CreditHandler struct {
	service service.CreditService
	log     *logger.Logger
}

func NewCreditHandler(service service.CreditService, log *logger.Logger) *CreditHandler {
	return &CreditHandler{
		service: service,
		log:     log,
	}
}

type purchaseRequest struct {
	Amount           float64 `json:"amount"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentReference string  `json:"payment_reference"`
}

type approvalRequest struct {
	Amount float64 `json:"amount"`
}

type tokenApprovalRequest struct {
	Token  string  `json:"token"`
	Amount float64 `json:"amount"`
}

type balanceResponse struct {
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
}

func (h *CreditHandler) GetBalance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := httputil.ExtractUserID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	balance, err := h.service.Balance(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, balanceResponse{UserID: userID, Balance: balance})
}

func (h *CreditHandler) GetTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := httputil.ExtractUserID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	transactions, total, err := h.service.Transactions(r.Context(), userID, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, transactions, total, limit, offset)
}

func (h *CreditHandler) Purchase(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := httputil.ExtractUserID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	result, err := h.service.Purchase(r.Context(), userID, req.Amount, req.PaymentMethod, req.PaymentReference)
	if err != nil {
		h.log.Warn("Credit purchase rejected",
			"handler", "Purchase",
			"user_id", userID,
			"payment_method", req.PaymentMethod,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, result)
}

// ApproveEFT is called by back-office tooling once a bank transfer has
// cleared. The body is optional; the amount is only consulted when the
// pending transaction cannot be found.
func (h *CreditHandler) ApproveEFT(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := httputil.ExtractUserID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reference := ps.ByName("reference")

	var req approvalRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}
	}

	result, err := h.service.ApproveEFT(r.Context(), userID, reference, req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, result)
}

// ApproveEFTByToken settles a pending EFT purchase from an emailed
// approval link. The opaque token seals the user and reference, so no
// identity header is required.
func (h *CreditHandler) ApproveEFTByToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req tokenApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	userID, reference, err := sealer.ParseApprovalToken(req.Token)
	if err != nil {
		httputil.WriteError(w, apperrors.Unauthorized("invalid approval token"))
		return
	}

	result, err := h.service.ApproveEFT(r.Context(), userID, reference, req.Amount)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, result)
}

func (h *CreditHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/credits/balance", h.GetBalance)
	router.GET("/api/v1/credits/transactions", h.GetTransactions)
	router.POST("/api/v1/credits/purchases", h.Purchase)
	router.POST("/api/v1/credits/eft/:reference/approve", h.ApproveEFT)
	router.POST("/api/v1/credits/eft-approvals", h.ApproveEFTByToken)
}
