package items

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lostlink/backend/internal/handlers"
	"github.com/lostlink/backend/internal/middleware"
	"github.com/lostlink/backend/internal/models"
	"go.uber.org/zap"
)

// maxUploadSize bounds the in-memory portion of a multipart form.
const maxUploadSize = 20 << 20 // 20MB

// Handler holds item HTTP handlers.
type Handler struct {
	handlers.Base
	service *Service
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{Base: handlers.Base{Logger: logger}, service: service}
}

// RegisterRoutes mounts the item routes on r. Reads are public; mutation of
// an existing item requires a verified identity via requireAuth.
func (h *Handler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{uniqueLink}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/{uniqueLink}", h.Update)
			r.Delete("/{uniqueLink}", h.Delete)
		})
	})
}

// Create handles POST /api/items. The body is a multipart form with the text
// fields and an optional "image" file.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	in := &CreateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		PostedBy:    r.FormValue("postedBy"),
		UID:         r.FormValue("uid"),
	}

	image, err := h.readImageFile(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to process image file")
		return
	}
	in.Image = image

	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, map[string]any{
		"message": "Item created successfully",
		"item":    item,
	})
}

// List handles GET /api/items.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}
	if list == nil {
		list = []models.Item{}
	}
	h.RespondJSON(w, http.StatusOK, list)
}

// Get handles GET /api/items/{uniqueLink}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetByLink(r.Context(), chi.URLParam(r, "uniqueLink"))
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{uniqueLink}. All form fields are optional;
// absent fields keep their stored values.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	in := &UpdateInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
	}

	image, err := h.readImageFile(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to process image file")
		return
	}
	in.Image = image

	item, err := h.service.Update(r.Context(), chi.URLParam(r, "uniqueLink"), caller, in)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "Item updated successfully",
		"item":    item,
	})
}

// Delete handles DELETE /api/items/{uniqueLink}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentity(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "uniqueLink"), caller); err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

// readImageFile buffers the optional "image" form file. A missing file is
// not an error; the item simply has no image.
func (h *Handler) readImageFile(r *http.Request) (*ImageUpload, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	if header.Size == 0 {
		return nil, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &ImageUpload{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
