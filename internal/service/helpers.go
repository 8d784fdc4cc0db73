package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"threadboard/internal/models"
	"threadboard/internal/policy"
	"threadboard/internal/repository"
	"threadboard/internal/result"
)

// failure is a rejected operation on its way to becoming a Result. A non-nil
// cause marks a storage fault: it is logged and reported as Internal.
type failure struct {
	status  result.Status
	message string
	cause   error
}

func (f *failure) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %v", f.message, f.cause)
	}
	return f.message
}

func reject(status result.Status, message string) *failure {
	return &failure{status: status, message: message}
}

func storageFault(op string, err error) *failure {
	return &failure{status: result.StatusInternal, message: op, cause: err}
}

func denied(err error) *failure {
	return reject(result.StatusForbidden, err.Error())
}

// fail converts f into an error result, logging storage faults.
func fail[T any](logger *slog.Logger, f *failure) result.Result[T] {
	if f.cause != nil {
		logger.Error("operation failed", "op", f.message, "error", f.cause)
		return result.Error[T](result.StatusInternal, "Internal Server Error")
	}
	return result.Error[T](f.status, f.message)
}

// transact runs fn in one transaction. A failure returned by fn rolls the
// transaction back and is passed through unchanged.
func transact(ctx context.Context, tx repository.Transactor, fn func(repo *repository.Repository) *failure) *failure {
	var f *failure

	err := tx.Transaction(ctx, func(repo *repository.Repository) error {
		if f = fn(repo); f != nil {
			return f
		}
		return nil
	})

	if f != nil {
		return f
	}
	if err != nil {
		return storageFault("transaction", err)
	}
	return nil
}

var errUserNotFound = reject(result.StatusUnauthorized, "User not found")

// lookupUser resolves the acting principal. A missing or unknown principal is
// Unauthorized, never NotFound.
func lookupUser(ctx context.Context, users repository.UserRepository, email string) (*models.User, *failure) {
	if email == "" {
		return nil, errUserNotFound
	}

	user, err := users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, storageFault("find user", err)
	}

	return user, nil
}

// resolveTags resolves names in order and stops at the first unknown one.
// Repeated names resolve once; a post's tags are a set.
func resolveTags(ctx context.Context, tags repository.TagRepository, names []string) ([]models.Tag, *failure) {
	resolved := make([]models.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		tag, err := tags.FindByName(ctx, name)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, reject(result.StatusBadRequest, "Tag not found: "+name)
		}
		if err != nil {
			return nil, storageFault("find tag", err)
		}
		resolved = append(resolved, *tag)
	}

	return resolved, nil
}

func loadPost(ctx context.Context, posts repository.PostRepository, postID int64) (*models.Post, *failure) {
	post, err := posts.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, reject(result.StatusNotFound, "Post not found")
	}
	if err != nil {
		return nil, storageFault("get post", err)
	}
	return post, nil
}

func authorize(owner *models.User, actorEmail string, action policy.Action) *failure {
	if err := policy.Authorize(owner, actorEmail, action); err != nil {
		return denied(err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validate checks input against its struct tags and reports every violation
// in one BadRequest message.
func validate(v *validator.Validate, input any) *failure {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return reject(result.StatusBadRequest, "Validation Error")
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, describe(fe))
	}

	return reject(result.StatusBadRequest, "Validation Error: "+strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	unit := "characters"
	if fe.Kind() == reflect.Slice {
		unit = "items"
	}

	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must have at least %s %s", fe.Field(), fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must have at most %s %s", fe.Field(), fe.Param(), unit)
	case "email":
		return fe.Field() + " must be a valid email"
	default:
		return fe.Field() + " is invalid"
	}
}
