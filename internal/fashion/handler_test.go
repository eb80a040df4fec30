package fashion

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-finder/internal/analysis"
	"style-finder/internal/shared/server/middleware"
	"style-finder/internal/shared/telemetry"
)

func newTestRouter(t *testing.T, vision *fakeVision, rule middleware.RateLimitRule, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	telemetry.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout) })

	h := &Handler{Service: NewService(vision), MaxUploadBytes: 1 << 20}
	return NewRouter(h, RouterOpts{AllowOrigins: []string{"*"}, AnalyzeRate: rule, Limiter: limiter})
}

func uploadRequest(t *testing.T, field, fileName, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Detail
}

func TestRootWelcome(t *testing.T) {
	r := newTestRouter(t, &fakeVision{}, middleware.RateLimitRule{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Style-Finder API"}`, rec.Body.String())
}

func TestAnalyzeReturnsResultTheFrontEndDecodes(t *testing.T) {
	r := newTestRouter(t, &fakeVision{text: summerReport}, middleware.RateLimitRule{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "file", "outfit.jpg", "image/jpeg", []byte{0xff, 0xd8, 0xff}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res, err := analysis.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Casual summer look with a relaxed vibe.", res.Analysis.Description)
	require.Len(t, res.SuggestedItems, 3)
	assert.Equal(t, "Leather Belt", res.SuggestedItems[0].Name)
}

func TestAnalyzeMissingFile(t *testing.T) {
	r := newTestRouter(t, &fakeVision{}, middleware.RateLimitRule{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "image", "outfit.jpg", "image/jpeg", []byte{1}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "validation_error", payload.Error.Code)
}

func TestAnalyzeRejectsNonImage(t *testing.T) {
	vision := &fakeVision{}
	r := newTestRouter(t, vision, middleware.RateLimitRule{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "file", "notes.txt", "text/plain", []byte("hello")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File provided is not an image.", decodeDetail(t, rec))
	assert.Zero(t, vision.calls)
}

func TestAnalyzeSniffsOctetStream(t *testing.T) {
	r := newTestRouter(t, &fakeVision{text: "### 1. Description\nok"}, middleware.RateLimitRule{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "file", "photo", "application/octet-stream", pngHeader))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAnalyzeProviderFailure(t *testing.T) {
	r := newTestRouter(t, &fakeVision{err: errors.New("deployment not found")}, middleware.RateLimitRule{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "file", "outfit.jpg", "image/jpeg", []byte{0xff, 0xd8}))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "API call failed: describe outfit: deployment not found", decodeDetail(t, rec))
}

func TestAnalyzeRejectsOversizedFile(t *testing.T) {
	r := newTestRouter(t, &fakeVision{}, middleware.RateLimitRule{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "file", "big.jpg", "image/jpeg", bytes.Repeat([]byte{1}, (1<<20)+10)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAnalyzeIsRateLimited(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	limiter := middleware.NewRateLimiter(func() time.Time { return now })
	r := newTestRouter(t, &fakeVision{text: "### 1. Description\nok"}, middleware.RateLimitRule{Rate: 0.5, Burst: 1}, limiter)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, uploadRequest(t, "file", "a.jpg", "image/jpeg", []byte{1}))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, uploadRequest(t, "file", "a.jpg", "image/jpeg", []byte{1}))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "2", second.Header().Get("Retry-After"))

	root := httptest.NewRecorder()
	r.ServeHTTP(root, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, root.Code)
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	r := newTestRouter(t, &fakeVision{}, middleware.RateLimitRule{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
