// Package policy decides whether an actor may mutate a resource. Ownership is
// the only rule: the resource owner's email must equal the actor's email.
package policy

import (
	"fmt"

	"threadboard/internal/models"
)

// Action names a mutation in the denial message.
type Action string

const (
	UpdatePost  Action = "update this post"
	DeletePost  Action = "delete this post"
	UpdateReply Action = "update this reply"
	DeleteReply Action = "delete this reply"
	AttachImage Action = "add images to this post"
	RemoveImage Action = "remove images from this post"
)

// DeniedError is returned by Authorize when the actor does not own the resource.
type DeniedError struct {
	Action Action
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("You do not have permission to %s", e.Action)
}

// CanMutate reports whether actorEmail may mutate a resource owned by
// ownerEmail. An empty owner or actor is never permitted.
func CanMutate(ownerEmail, actorEmail string) bool {
	if ownerEmail == "" || actorEmail == "" {
		return false
	}
	return ownerEmail == actorEmail
}

// Authorize returns a *DeniedError unless owner is non-nil and owned by actorEmail.
func Authorize(owner *models.User, actorEmail string, action Action) error {
	if owner == nil || !CanMutate(owner.Email, actorEmail) {
		return &DeniedError{Action: action}
	}
	return nil
}
