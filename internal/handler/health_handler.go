package handlers

import "net/http"

// Health reports database reachability and the number of schema tables.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.HealthService.Check(r.Context()))
}
