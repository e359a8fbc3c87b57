package book

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type bookResponse struct {
	Book    Book   `json:"book"`
	Message string `json:"message"`
}

// Register mounts the book routes under prefix. The search route goes first
// so its literal segment is never read as an id.
func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("POST "+prefix, h.Create)
	mux.HandleFunc("GET "+prefix, h.List)
	mux.HandleFunc("GET "+prefix+"/search", h.Search)
	mux.HandleFunc("GET "+prefix+"/{id}", h.Get)
	mux.HandleFunc("PUT "+prefix+"/{id}", h.Update)
	mux.HandleFunc("DELETE "+prefix+"/{id}", h.Delete)
}

// Create handles POST /livros
// @Summary Create a book
// @Tags livros
// @Accept json
// @Produce json
// @Param request body Payload true "Book"
// @Success 201 {object} bookResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /livros [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeBody(w, r)
	if !ok {
		return
	}

	b, err := h.service.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, err, "a book with this title already exists")
		return
	}
	httpx.JSON(w, http.StatusCreated, bookResponse{Book: b, Message: "book created successfully"})
}

// List handles GET /livros
// @Summary List every book
// @Tags livros
// @Produce json
// @Success 200 {array} Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /livros [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Search handles GET /livros/search?title=
// @Summary Find the first book whose title contains the term
// @Tags livros
// @Produce json
// @Param title query string true "Title substring, case-insensitive"
// @Success 200 {object} bookResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /livros/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.SearchByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, bookResponse{Book: b, Message: "book found"})
}

// Get handles GET /livros/{id}
// @Summary Get a book by id
// @Tags livros
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {object} bookResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /livros/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByID(r.Context(), pathID(r))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, bookResponse{Book: b, Message: "book found"})
}

// Update handles PUT /livros/{id}
// @Summary Replace every field of a book
// @Tags livros
// @Accept json
// @Produce json
// @Param id path int true "Book id"
// @Param request body Payload true "Book"
// @Success 200 {object} bookResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /livros/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeBody(w, r)
	if !ok {
		return
	}

	b, err := h.service.Update(r.Context(), pathID(r), p)
	if err != nil {
		writeError(w, r, err, "title already used by another book")
		return
	}
	httpx.JSON(w, http.StatusOK, bookResponse{Book: b, Message: "book updated successfully"})
}

// Delete handles DELETE /livros/{id}
// @Summary Delete a book
// @Tags livros
// @Param id path int true "Book id"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /livros/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), pathID(r)); err != nil {
		writeError(w, r, err, "")
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// pathID returns 0 for anything that is not a positive integer; the service
// reports 0 as not found.
func pathID(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0
	}
	return id
}

func decodeBody(w http.ResponseWriter, r *http.Request) (Payload, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
			return Payload{}, false
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return Payload{}, false
	}

	p, err := DecodePayload(body)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return Payload{}, false
	}
	return p, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error, conflictMessage string) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		code := "VALIDATION_" + strings.ToUpper(string(validationErr.Rule))
		httpx.JSONError(w, r, http.StatusBadRequest, code, validationErr.Message, []httpx.ErrorDetail{
			{Field: validationErr.Field, Message: validationErr.Message},
		})
	case errors.Is(err, ErrDuplicateTitle):
		httpx.JSONError(w, r, http.StatusBadRequest, "DUPLICATE_TITLE", conflictMessage, nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "book not found", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}
