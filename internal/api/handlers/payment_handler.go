package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mdmahmu/toolstun-server/internal/payment"
)

type IntentCreator interface {
	CreateIntent(ctx context.Context, price float64) (string, error)
}

type PaymentHandler struct {
	payments IntentCreator
}

func NewPaymentHandler(payments IntentCreator) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type PaymentIntentRequest struct {
	Price float64 `json:"price"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req PaymentIntentRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	secret, err := h.payments.CreateIntent(r.Context(), req.Price)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, codeInvalidArgument, err.Error(), nil)
		case errors.Is(err, payment.ErrGateway):
			writeError(w, http.StatusBadGateway, codePaymentFailed, "payment provider rejected the request", nil)
		default:
			zap.L().Error("create payment intent", zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternal, "failed to create payment intent", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, PaymentIntentResponse{ClientSecret: secret})
}
