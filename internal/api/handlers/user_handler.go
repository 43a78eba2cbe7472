package handlers

import (
	"net/http"

	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type UserHandler struct {
	repo   repository.UserRepository
	tokens TokenIssuer
}

func NewUserHandler(repo repository.UserRepository, tokens TokenIssuer) *UserHandler {
	return &UserHandler{repo: repo, tokens: tokens}
}

type UserUpsertRequest struct {
	EmailOrUID string `json:"emailOrUid" validate:"required"`
	Name       string `json:"name"`
}

type RoleUpdateRequest struct {
	EmailOrUID string `json:"emailOrUid" validate:"required"`
}

type UserUpsertResponse struct {
	Result models.UpdateResult `json:"result"`
	Token  string              `json:"token"`
}

// Upsert records the user and hands back a fresh access token for it.
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UserUpsertRequest
	if ok := decodeAndValidate(w, r, &req); !ok {
		return
	}

	user := models.User{
		EmailOrUID: req.EmailOrUID,
		Name:       req.Name,
	}

	res, err := h.repo.Upsert(r.Context(), &user)
	if err != nil {
		writeRepoError(w, r, err, "save user")
		return
	}

	token, err := h.tokens.Issue(user.EmailOrUID)
	if err != nil {
		writeRepoError(w, r, err, "issue token")
		return
	}

	writeJSON(w, http.StatusOK, UserUpsertResponse{Result: res, Token: token})
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.GetAll(r.Context())
	if err != nil {
		writeRepoError(w, r, err, "get users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	emailOrUID, ok := queryEmailOrUID(w, r)
	if !ok {
		return
	}

	user, err := h.repo.GetByEmailOrUID(r.Context(), emailOrUID)
	if err != nil {
		writeRepoError(w, r, err, "get user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	var req RoleUpdateRequest
	if ok := decodeAndValidate(w, r, &req); !ok {
		return
	}

	res, err := h.repo.SetRole(r.Context(), req.EmailOrUID, models.RoleAdmin)
	if err != nil {
		writeRepoError(w, r, err, "update role")
		return
	}

	writeJSON(w, http.StatusOK, res)
}
