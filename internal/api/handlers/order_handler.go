package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mdmahmu/toolstun-server/internal/auth"
	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

type OrderHandler struct {
	repo repository.OrderRepository

	// legacyOwnerCheck compares the requested owner with itself, so any
	// authenticated caller can read any owner's orders.
	legacyOwnerCheck bool
}

func NewOrderHandler(repo repository.OrderRepository, legacyOwnerCheck bool) *OrderHandler {
	return &OrderHandler{repo: repo, legacyOwnerCheck: legacyOwnerCheck}
}

type OrderCreateRequest struct {
	EmailOrUID  string       `json:"emailOrUid" validate:"required"`
	ProductID   string       `json:"productId" validate:"required,uuid"`
	ProductName string       `json:"productName"`
	Quantity    models.Count `json:"quantity" validate:"gte=1"`
	Price       float64      `json:"price" validate:"gte=0"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Phone       string       `json:"phone"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OrderCreateRequest
	if ok := decodeAndValidate(w, r, &req); !ok {
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidArgument, "invalid product id", nil)
		return
	}

	o := models.Order{
		EmailOrUID:  req.EmailOrUID,
		ProductID:   productID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
	}

	if err := h.repo.Create(r.Context(), &o); err != nil {
		writeRepoError(w, r, err, "place order")
		return
	}

	writeJSON(w, http.StatusOK, models.Inserted(o.ID.String()))
}

// GetMine lists the orders of the emailOrUid in the query. It must run behind
// RequireToken.
func (h *OrderHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	owner, ok := queryEmailOrUID(w, r)
	if !ok {
		return
	}

	subject, _ := auth.SubjectFromContext(r.Context())

	expected := subject
	if h.legacyOwnerCheck {
		expected = owner
	}
	if owner != expected {
		zap.L().Warn("orders requested for another owner",
			zap.String("subject", subject),
			zap.String("emailOrUid", owner),
		)
		writeError(w, http.StatusForbidden, codeForbidden, "forbidden access", nil)
		return
	}

	orders, err := h.repo.GetByOwner(r.Context(), owner)
	if err != nil {
		writeRepoError(w, r, err, "get orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "orderId", "order")
	if !ok {
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err, "get order")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "orderId", "order")
	if !ok {
		return
	}

	res, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err, "delete order")
		return
	}

	writeJSON(w, http.StatusOK, res)
}
