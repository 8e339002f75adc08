package items

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lostlink/backend/internal/auth"
	"github.com/lostlink/backend/internal/middleware"
	"github.com/lostlink/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (chi.Router, *auth.TokenGenerator, *fakeImageStore) {
	t.Helper()
	store := newMemItemStore()
	images := newFakeImageStore()
	tokens := auth.NewTokenGenerator("test-secret", time.Hour)
	handler := NewHandler(NewService(store, images, zap.NewNop()), zap.NewNop())

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r, middleware.RequireAuth(tokens))
	})
	return r, tokens, images
}

func bearerFor(t *testing.T, tokens *auth.TokenGenerator, id, name, role string) string {
	t.Helper()
	token, err := tokens.Generate(&models.User{ID: id, UserName: name, Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

// multipartBody builds a multipart form from text fields plus an optional
// image file.
func multipartBody(t *testing.T, fields map[string]string, imageName string, imageData []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doRequest(r http.Handler, method, path, bearer string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func backpackFields() map[string]string {
	return map[string]string{
		"title":       "Blue Backpack",
		"description": "Left near the library entrance",
		"status":      "lost",
		"email":       "a@uni.edu",
		"phone":       "555-1111",
		"postedBy":    "Alice",
		"uid":         "U1",
	}
}

// Full lifecycle: create, fetch by link, forbidden delete by a stranger,
// delete by the owner, then the link is gone.
func TestItemLifecycle(t *testing.T) {
	r, tokens, _ := newTestServer(t)

	body, ct := multipartBody(t, backpackFields(), "", nil)
	rec := doRequest(r, http.MethodPost, "/api/items", "", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Item models.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	link := created.Item.UniqueLink
	assert.True(t, strings.HasPrefix(link, "a-"), "link %q should start with %q", link, "a-")
	assert.Empty(t, created.Item.ImageURL)

	rec = doRequest(r, http.MethodGet, "/api/items/"+link, "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "Blue Backpack", fetched.Title)

	strangerBearer := bearerFor(t, tokens, "U2", "Bob", models.RoleStandard)
	rec = doRequest(r, http.MethodDelete, "/api/items/"+link, strangerBearer, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ownerBearer := bearerFor(t, tokens, "U1", "Alice", models.RoleStandard)
	rec = doRequest(r, http.MethodDelete, "/api/items/"+link, ownerBearer, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(r, http.MethodGet, "/api/items/"+link, "", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_WithImage(t *testing.T) {
	r, _, images := newTestServer(t)

	body, ct := multipartBody(t, backpackFields(), "backpack.png", []byte("png-bytes"))
	rec := doRequest(r, http.MethodPost, "/api/items", "", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Item models.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Item.ImageURL)
	assert.Len(t, images.objects, 1)
}

func TestCreate_MissingField(t *testing.T) {
	r, _, _ := newTestServer(t)

	fields := backpackFields()
	delete(fields, "phone")
	body, ct := multipartBody(t, fields, "", nil)
	rec := doRequest(r, http.MethodPost, "/api/items", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "All fields are required", resp["error"])
}

func TestList_Public(t *testing.T) {
	r, _, _ := newTestServer(t)

	rec := doRequest(r, http.MethodGet, "/api/items", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	body, ct := multipartBody(t, backpackFields(), "", nil)
	rec = doRequest(r, http.MethodPost, "/api/items", "", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(r, http.MethodGet, "/api/items", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestUpdate_RequiresToken(t *testing.T) {
	r, tokens, _ := newTestServer(t)

	body, ct := multipartBody(t, backpackFields(), "", nil)
	rec := doRequest(r, http.MethodPost, "/api/items", "", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Item models.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	link := created.Item.UniqueLink

	body, ct = multipartBody(t, map[string]string{"status": "found"}, "", nil)
	rec = doRequest(r, http.MethodPut, "/api/items/"+link, "", body, ct)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	strangerBearer := bearerFor(t, tokens, "U2", "Bob", models.RoleStandard)
	body, ct = multipartBody(t, map[string]string{"status": "found"}, "", nil)
	rec = doRequest(r, http.MethodPut, "/api/items/"+link, strangerBearer, body, ct)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ownerBearer := bearerFor(t, tokens, "U1", "Alice", models.RoleStandard)
	body, ct = multipartBody(t, map[string]string{"status": "found"}, "", nil)
	rec = doRequest(r, http.MethodPut, "/api/items/"+link, ownerBearer, body, ct)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated struct {
		Item models.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, models.StatusFound, updated.Item.Status)
	assert.Equal(t, "Blue Backpack", updated.Item.Title)
}

func TestUpdate_NotFound(t *testing.T) {
	r, tokens, _ := newTestServer(t)

	bearer := bearerFor(t, tokens, "U1", "Alice", models.RoleStandard)
	body, ct := multipartBody(t, map[string]string{"status": "found"}, "", nil)
	rec := doRequest(r, http.MethodPut, "/api/items/no-such-link", bearer, body, ct)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
