package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

type ProductHandler struct {
	repo repository.ProductRepository
}

func NewProductHandler(repo repository.ProductRepository) *ProductHandler {
	return &ProductHandler{repo: repo}
}

// Stock figures go through models.Count so "12" and 12 are both accepted.
type ProductCreateRequest struct {
	Name         string       `json:"name" validate:"required"`
	Description  string       `json:"description"`
	Image        string       `json:"image"`
	Price        float64      `json:"price" validate:"gte=0"`
	MinimumOrder models.Count `json:"minimumOrder" validate:"gte=0"`
	Quantity     models.Count `json:"quantity"`
	Sold         models.Count `json:"sold" validate:"gte=0"`
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "product")
	if !ok {
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, r, err, "get product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, r, err, "get products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductCreateRequest
	if ok := decodeAndValidate(w, r, &req); !ok {
		return
	}

	if req.Quantity < 0 {
		zap.L().Warn("product created with negative stock",
			zap.String("name", req.Name),
			zap.Int("quantity", int(req.Quantity)),
		)
	}

	p := models.Product{
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.Image,
		Price:        req.Price,
		MinimumOrder: req.MinimumOrder,
		Quantity:     req.Quantity,
		Sold:         req.Sold,
	}

	if err := h.repo.Create(r.Context(), &p); err != nil {
		writeRepoError(w, r, err, "create product")
		return
	}

	w.Header().Set("Location", "/all_tools/"+p.ID.String())
	writeJSON(w, http.StatusOK, models.Inserted(p.ID.String()))
}
