package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"threadboard/internal/result"
)

// NewRouter registers every route on the root gorilla/mux router so a method
// mismatch on a known path answers 405.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)

	r.HandleFunc("/api/user/info", h.UserInfo).Methods(http.MethodGet)

	r.HandleFunc("/api/posts", h.SearchPosts).Methods(http.MethodGet)
	r.HandleFunc("/api/posts", h.CreatePost).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{id}", h.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{id}", h.UpdatePost).Methods(http.MethodPut)
	r.HandleFunc("/api/posts/{id}", h.DeletePost).Methods(http.MethodDelete)

	r.HandleFunc("/api/posts/{postId}/replies", h.ListReplies).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{postId}/replies", h.CreateReply).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{postId}/replies/{replyId}", h.GetReply).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{postId}/replies/{replyId}", h.UpdateReply).Methods(http.MethodPut)
	r.HandleFunc("/api/posts/{postId}/replies/{replyId}", h.DeleteReply).Methods(http.MethodDelete)
	r.HandleFunc("/api/posts/{postId}/replies/{replyId}/nested", h.ListNestedReplies).Methods(http.MethodGet)

	r.HandleFunc("/api/posts/{id}/images", h.ListImages).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{id}/images", h.AttachImage).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{id}/images/{imageId}", h.RemoveImage).Methods(http.MethodDelete)

	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, result.StatusNotFound, "Resource not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]result.ErrorResponse{
		"error": {Message: "Method not allowed", Code: "405"},
	})
}
