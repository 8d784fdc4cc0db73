package handlers

import (
	"net/http"

	"threadboard/internal/models"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var input models.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	writeResult(w, h.AuthService.Register(r.Context(), input))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var input models.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	res := h.AuthService.Login(r.Context(), input)
	if res.IsError() {
		h.logger.Warn("login rejected", "email", input.Email, "status", res.Status())
	}

	writeResult(w, res)
}
