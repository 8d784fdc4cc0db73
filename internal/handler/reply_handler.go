package handlers

import (
	"net/http"

	"threadboard/internal/models"
	"threadboard/internal/result"
)

func (h *Handlers) ListReplies(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	writeResult(w, h.ReplyService.ListTopLevel(r.Context(), postID, pageable(r)))
}

// ListNestedReplies lists the direct children of one reply.
func (h *Handlers) ListNestedReplies(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	replyID, ok := pathID(w, r, "replyId")
	if !ok {
		return
	}

	writeResult(w, h.ReplyService.ListChildren(r.Context(), postID, replyID, pageable(r)))
}

func (h *Handlers) GetReply(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	replyID, ok := pathID(w, r, "replyId")
	if !ok {
		return
	}

	writeResult(w, h.ReplyService.Get(r.Context(), postID, replyID))
}

func (h *Handlers) CreateReply(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	email, ok := principal(w, r)
	if !ok {
		return
	}

	var input models.ReplyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	writeResult(w, h.ReplyService.Create(r.Context(), postID, input, email))
}

// UpdateReply addresses the reply by its own id; postId only has to be numeric.
func (h *Handlers) UpdateReply(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathID(w, r, "postId"); !ok {
		return
	}

	replyID, ok := pathID(w, r, "replyId")
	if !ok {
		return
	}

	email, ok := principal(w, r)
	if !ok {
		return
	}

	writeUpdate(w, r, func(input models.UpdateReplyInput) result.Result[models.ReplyView] {
		return h.ReplyService.Update(r.Context(), replyID, input, email)
	})
}

func (h *Handlers) DeleteReply(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathID(w, r, "postId"); !ok {
		return
	}

	replyID, ok := pathID(w, r, "replyId")
	if !ok {
		return
	}

	email, ok := principal(w, r)
	if !ok {
		return
	}

	writeResult(w, h.ReplyService.Delete(r.Context(), replyID, email))
}
