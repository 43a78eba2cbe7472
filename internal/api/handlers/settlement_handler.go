package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

type SettlementHandler struct {
	repo repository.SettlementRepository
}

func NewSettlementHandler(repo repository.SettlementRepository) *SettlementHandler {
	return &SettlementHandler{repo: repo}
}

type SettlementRequest struct {
	ProductID     string       `json:"productId" validate:"required,uuid"`
	Bought        models.Count `json:"bought" validate:"gte=1"`
	OrderID       string       `json:"orderId" validate:"required,uuid"`
	TransactionID string       `json:"transactionId" validate:"required"`
}

// Settle applies a confirmed payment: stock moves from quantity to sold and
// the order is stamped with the transaction id.
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req SettlementRequest
	if ok := decodeAndValidate(w, r, &req); !ok {
		return
	}

	productID, perr := uuid.Parse(req.ProductID)
	orderID, oerr := uuid.Parse(req.OrderID)
	if perr != nil || oerr != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "invalid product or order id", nil)
		return
	}

	res, err := h.repo.Settle(r.Context(), models.Settlement{
		ProductID:     productID,
		OrderID:       orderID,
		Bought:        req.Bought,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		writeRepoError(w, r, err, "settle order")
		return
	}

	if res.Quantity < 0 {
		zap.L().Warn("product oversold",
			zap.String("productId", productID.String()),
			zap.String("orderId", orderID.String()),
			zap.Int("quantity", int(res.Quantity)),
		)
	}

	writeJSON(w, http.StatusOK, res)
}
