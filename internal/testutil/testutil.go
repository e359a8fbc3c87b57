package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
)

// BookPayload returns a request body for a valid book. Callers may override
// fields on the returned map.
func BookPayload(title string) map[string]any {
	return map[string]any{
		"title":           title,
		"author":          "Frank Herbert",
		"publicationYear": 1965,
		"genre":           "Fantasy",
		"price":           29.9,
	}
}

// NewRequest creates a new HTTP request for testing. A string or []byte body
// is sent as-is; anything else is JSON encoded.
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	switch b := body.(type) {
	case nil:
	case string:
		bodyBytes = []byte(b)
	case []byte:
		bodyBytes = b
	default:
		bodyBytes, _ = json.Marshal(b)
	}

	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Raw    []byte
	Body   map[string]any
}

// RecordHTTPResponse records the HTTP response. Body is left nil when the
// payload is not a JSON object.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Raw:    bodyBytes,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code from an error envelope, or "".
func (r RecordResponse) ErrorCode() string {
	errBody, _ := r.Body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

// ErrorMessage returns error.message from an error envelope, or "".
func (r RecordResponse) ErrorMessage() string {
	errBody, _ := r.Body["error"].(map[string]any)
	msg, _ := errBody["message"].(string)
	return msg
}

// BookField returns book.<key> from a success envelope.
func (r RecordResponse) BookField(key string) any {
	b, _ := r.Body["book"].(map[string]any)
	return b[key]
}
