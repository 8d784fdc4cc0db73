package handlers

import "net/http"

// UserInfo returns the profile of the authenticated caller.
func (h *Handlers) UserInfo(w http.ResponseWriter, r *http.Request) {
	email, ok := principal(w, r)
	if !ok {
		return
	}

	writeResult(w, h.UserService.Profile(r.Context(), email))
}
