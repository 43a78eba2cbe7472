package handlers

import (
	"net/http"

	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

type ReviewHandler struct {
	repo repository.ReviewRepository
}

func NewReviewHandler(repo repository.ReviewRepository) *ReviewHandler {
	return &ReviewHandler{repo: repo}
}

type ReviewCreateRequest struct {
	Name       string `json:"name" validate:"required"`
	EmailOrUID string `json:"emailOrUid"`
	Rating     int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment    string `json:"comment"`
}

func (h *ReviewHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.repo.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, r, err, "get reviews")
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ReviewCreateRequest
	if ok := decodeAndValidate(w, r, &req); !ok {
		return
	}

	review := models.Review{
		Name:       req.Name,
		EmailOrUID: req.EmailOrUID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := h.repo.Create(r.Context(), &review); err != nil {
		writeRepoError(w, r, err, "create review")
		return
	}

	writeJSON(w, http.StatusOK, models.Inserted(review.ID.String()))
}
