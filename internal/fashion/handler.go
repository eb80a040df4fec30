package fashion

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"style-finder/internal/shared/server/respond"
)

const (
	defaultMaxUploadBytes = 10 << 20
	welcomeMessage        = "Welcome to the Style-Finder API"
)

// Handler exposes the outfit analysis API.
type Handler struct {
	Service        *Service
	MaxUploadBytes int64
}

// RegisterRoutes wires the API routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.root)
	r.POST("/api/analyze", h.analyze)
}

func (h *Handler) root(c *gin.Context) {
	respond.OK(c, gin.H{"message": welcomeMessage})
}

func (h *Handler) analyze(c *gin.Context) {
	limit := h.maxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+(1<<20))

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Detail(c, http.StatusRequestEntityTooLarge, "too_large", "File too large.")
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "Field required: file", gin.H{
			"field": "file",
		})
		return
	}
	if fh.Size > limit {
		respond.Detail(c, http.StatusRequestEntityTooLarge, "too_large", "File too large.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.Detail(c, http.StatusBadRequest, "unreadable_file", "File could not be read.")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		respond.Detail(c, http.StatusBadRequest, "unreadable_file", "File could not be read.")
		return
	}

	img := Image{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	if !IsImage(img) {
		respond.Detail(c, http.StatusBadRequest, "not_image", NotImageDetail)
		return
	}

	res, err := h.Service.Analyze(c.Request.Context(), img)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotImage):
			respond.Detail(c, http.StatusBadRequest, "not_image", NotImageDetail)
		case errors.Is(err, ErrEmptyImage):
			respond.Detail(c, http.StatusBadRequest, "empty_file", "File provided is empty.")
		default:
			respond.Detail(c, http.StatusInternalServerError, "llm_failed", "API call failed: "+err.Error())
		}
		return
	}
	respond.OK(c, res)
}

func (h *Handler) maxUploadBytes() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}
