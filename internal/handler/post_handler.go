package handlers

import (
	"net/http"

	"threadboard/internal/models"
	"threadboard/internal/result"
)

// SearchPosts handles GET /api/posts?query=&tags=&page=&size=.
func (h *Handlers) SearchPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	writeResult(w, h.PostService.Search(r.Context(), query, tagNames(r), pageable(r)))
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	email, ok := principal(w, r)
	if !ok {
		return
	}

	var input models.PostInput
	if !decodeJSON(w, r, &input) {
		return
	}

	writeResult(w, h.PostService.Create(r.Context(), input, email))
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	writeResult(w, h.PostService.Get(r.Context(), postID))
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	email, ok := principal(w, r)
	if !ok {
		return
	}

	writeUpdate(w, r, func(input models.PostInput) result.Result[models.PostView] {
		return h.PostService.Update(r.Context(), postID, input, email)
	})
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	email, ok := principal(w, r)
	if !ok {
		return
	}

	writeResult(w, h.PostService.Delete(r.Context(), postID, email))
}
