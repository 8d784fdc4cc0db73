package result

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	r := Success("hello")

	assert.True(t, r.IsSuccess())
	assert.False(t, r.IsError())
	assert.Equal(t, "hello", r.Value())
	assert.Equal(t, StatusOK, r.Status())
	assert.PanicsWithValue(t, ErrInvalidState, func() { r.Err() })
}

func TestCreated(t *testing.T) {
	r := Created(42)

	assert.True(t, r.IsSuccess())
	assert.Equal(t, 42, r.Value())
	assert.Equal(t, http.StatusCreated, r.Status().HTTPStatus())
}

func TestError(t *testing.T) {
	r := Error[string](StatusNotFound, "Post not found")

	assert.True(t, r.IsError())
	assert.False(t, r.IsSuccess())
	assert.Equal(t, ErrorResponse{Message: "Post not found", Code: "404"}, r.Err())
	assert.PanicsWithValue(t, ErrInvalidState, func() { r.Value() })
}

func TestError_SuccessStatusIsCoerced(t *testing.T) {
	r := Error[int](StatusCreated, "boom")

	assert.Equal(t, StatusInternal, r.Status())
	assert.Equal(t, "500", r.Err().Code)
}

func TestForward(t *testing.T) {
	failed := Error[int](StatusForbidden, "nope")

	forwarded := Forward[string](failed)
	assert.Equal(t, StatusForbidden, forwarded.Status())
	assert.Equal(t, "nope", forwarded.Err().Message)

	assert.Panics(t, func() { Forward[string](Success(1)) })
}

func TestStatusCodes(t *testing.T) {
	cases := map[Status]string{
		StatusOK:           "200",
		StatusCreated:      "201",
		StatusBadRequest:   "400",
		StatusUnauthorized: "401",
		StatusForbidden:    "403",
		StatusNotFound:     "404",
		StatusInternal:     "500",
	}
	for status, code := range cases {
		assert.Equal(t, code, status.Code(), status.String())
	}
}

func TestMarshalJSON(t *testing.T) {
	ok, err := json.Marshal(Success(map[string]int{"id": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":{"id":1}}`, string(ok))

	void, err := json.Marshal(Success(Void{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":null}`, string(void))

	failed, err := json.Marshal(Error[int](StatusBadRequest, "Tag not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"message":"Tag not found","code":"400"}}`, string(failed))
}
