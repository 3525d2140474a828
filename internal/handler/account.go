package handler

import (
	"log/slog"
	"net/http"

	"schoolyard/internal/apperror"
	"schoolyard/internal/model"
	"schoolyard/internal/service"
)

// AccountHandler serves registration, login and account maintenance.
type AccountHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// authResponse is returned by registration and login: the account, its
// provisioned school snapshot and a session token.
type authResponse struct {
	Account *model.Account `json:"account"`
	School  *model.School  `json:"school"`
	Token   string         `json:"token"`
}

// HandleCreate registers an account.
//
// POST /api/accounts
// body: {"name": ..., "contact": ..., "secret": ..., "cosmetic"?: ...}
func (h *AccountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Contact  string `json:"contact"`
		Secret   string `json:"secret"`
		Cosmetic string `json:"cosmetic"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.accounts.Create(r.Context(), req.Name, req.Contact, req.Secret, req.Cosmetic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{
		Account: result.Account,
		School:  result.School,
		Token:   result.Token,
	})
}

// HandleLogin authenticates by contact and secret.
//
// POST /api/auth/login
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contact string `json:"contact"`
		Secret  string `json:"secret"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Contact, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Account: result.Account,
		School:  result.School,
		Token:   result.Token,
	})
}

// HandleGet returns the public fields of an account.
//
// GET /api/accounts/{id}
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Public())
}

// HandleDelete removes the account row. School and player documents stay.
//
// DELETE /api/accounts/{id}
func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetCosmetic replaces the account's cosmetic reference.
//
// PUT /api/accounts/{id}/cosmetic
// body: {"cosmetic": ...}
func (h *AccountHandler) HandleSetCosmetic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cosmetic string `json:"cosmetic"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Cosmetic == "" {
		writeError(w, apperror.ValidationFailed("cosmetic", "cosmetic is required"))
		return
	}

	if err := h.accounts.SetCosmetic(r.Context(), r.PathValue("id"), req.Cosmetic); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
