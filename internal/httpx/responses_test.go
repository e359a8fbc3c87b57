package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/livros", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "abc"))

	JSONError(w, r, http.StatusBadRequest, "VALIDATION_PRESENCE", "title is required", []ErrorDetail{
		{Field: "title", Message: "title is required"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Success)
	assert.Equal(t, "VALIDATION_PRESENCE", response.Error.Code)
	assert.Equal(t, "title is required", response.Error.Message)
	require.Len(t, response.Error.Details, 1)
	assert.Equal(t, "title", response.Error.Details[0].Field)
	assert.Equal(t, "abc", response.Meta["request_id"])
}

func TestJSONError_NoRequestID(t *testing.T) {
	w := httptest.NewRecorder()

	JSONError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "NOT_FOUND", "book not found", nil)

	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"book not found"}}`, w.Body.String())
}

func TestJSONSuccessNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccessNoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}
