package web

import (
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"style-finder/internal/session"
	"style-finder/internal/shared/server/middleware"
	"style-finder/internal/shared/storage/object"
	"style-finder/internal/shared/telemetry"
	"style-finder/internal/ui"
)

const (
	tooLargeNotice   = "The selected file is too large."
	unreadableNotice = "The selected file could not be read. Please choose it again."
	startFailNotice  = "The analysis could not be started. Please try again."

	multipartSlack = 1 << 20
)

// Handler serves the workspace page and its two form actions.
type Handler struct {
	Sessions       session.Store
	Objects        object.Store
	Analyzer       ui.Analyzer
	MaxUploadBytes int64
	LockTTL        time.Duration
	RefreshSeconds int
}

type pageData struct {
	State          ui.PageState
	PreviewSrc     template.URL
	Notices        []string
	Scroll         bool
	SelectedName   string
	RefreshSeconds int
}

// RegisterRoutes wires the page routes.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.index)
	r.POST("/select", h.selectFile)
	r.POST("/analyze", h.analyze)
}

func (h *Handler) index(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.SessionIDFromContext(c)

	snap, err := session.LoadOrNew(ctx, h.Sessions, id)
	if err != nil {
		telemetry.Error("session.load_failed", map[string]any{"session_id": id, "err": err.Error()})
		snap = session.New(id)
	}

	page := ui.RestorePage(snap.Page)
	notices := page.TakeNotices()
	scroll := page.TakeScroll()
	if len(notices) > 0 || scroll {
		if err := h.update(ctx, id, func(s *session.Snapshot) {
			s.Page.Notices = nil
			s.Page.ScrollToResults = false
		}); err != nil {
			telemetry.Warn("session.flash_clear_failed", map[string]any{"session_id": id, "err": err.Error()})
		}
	}

	data := pageData{
		State:          page.State(),
		PreviewSrc:     template.URL(snap.Page.PreviewSrc),
		Notices:        notices,
		Scroll:         scroll,
		RefreshSeconds: h.refreshSeconds(),
	}
	if snap.Selected != nil {
		data.SelectedName = snap.Selected.Name
	}
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "page.html", data)
}

// selectFile handles the selection-change event. A request without a file,
// or with clear=1, clears the selection.
func (h *Handler) selectFile(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.SessionIDFromContext(c)
	limit := h.maxUploadBytes()

	if c.Request.ContentLength > limit+multipartSlack {
		h.notify(c, id, tooLargeNotice)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartSlack)

	var files []ui.File
	if c.PostForm("clear") != "1" {
		fh, err := c.FormFile("file")
		switch {
		case err == nil:
			if fh.Size > limit {
				h.notify(c, id, tooLargeNotice)
				c.Redirect(http.StatusSeeOther, "/")
				return
			}
			f, openErr := fh.Open()
			if openErr != nil {
				h.rejectUpload(c, id, openErr)
				return
			}
			data, readErr := io.ReadAll(f)
			_ = f.Close()
			if readErr != nil {
				h.rejectUpload(c, id, readErr)
				return
			}
			files = append(files, ui.File{Name: fh.Filename, MIMEType: fh.Header.Get("Content-Type"), Data: data})
		case errors.Is(err, http.ErrMissingFile):
			// empty selection
		default:
			h.rejectUpload(c, id, err)
			return
		}
	}

	snap, err := session.LoadOrNew(ctx, h.Sessions, id)
	if err != nil {
		telemetry.Error("session.load_failed", map[string]any{"session_id": id, "err": err.Error()})
		snap = session.New(id)
	}
	previous := snap.Selected

	var ref *session.FileRef
	if len(files) > 0 {
		key, err := h.Objects.Put(ctx, id, files[0].Name, files[0].MIMEType, files[0].Data)
		if err != nil {
			h.rejectUpload(c, id, err)
			return
		}
		ref = &session.FileRef{Name: files[0].Name, MIMEType: files[0].MIMEType, StorageKey: key, Size: len(files[0].Data)}
	}

	page := ui.RestorePage(snap.Page)
	selector := ui.NewFileSelector(page, ui.NewPreview(page))
	selector.Change(files)

	if err := h.update(ctx, id, func(s *session.Snapshot) {
		st := page.State()
		s.Page.PlaceholderVisible = st.PlaceholderVisible
		s.Page.PreviewSrc = st.PreviewSrc
		s.Page.SubmitEnabled = st.SubmitEnabled
		s.Selected = ref
	}); err != nil {
		telemetry.Error("session.save_failed", map[string]any{"session_id": id, "err": err.Error()})
	}

	if previous != nil {
		if err := h.Objects.Delete(ctx, previous.StorageKey); err != nil {
			telemetry.Warn("object.delete_failed", map[string]any{"session_id": id, "key": previous.StorageKey, "err": err.Error()})
		}
	}

	telemetry.Info("selection.changed", map[string]any{
		"session_id": id,
		"selected":   ref != nil,
	})
	c.Redirect(http.StatusSeeOther, "/")
}

// analyze handles the submit trigger for the workspace.
func (h *Handler) analyze(c *gin.Context) {
	ctx := c.Request.Context()
	id := middleware.SessionIDFromContext(c)

	snap, err := session.LoadOrNew(ctx, h.Sessions, id)
	if err != nil {
		telemetry.Error("session.load_failed", map[string]any{"session_id": id, "err": err.Error()})
		h.notify(c, id, startFailNotice)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	page := ui.RestorePage(snap.Page)
	page.TakeNotices()
	view := &liveView{Page: page}

	file, err := h.selectedFile(ctx, snap)
	lostSelection := false
	if err != nil {
		telemetry.Warn("object.get_failed", map[string]any{"session_id": id, "err": err.Error(), "not_found": errors.Is(err, object.ErrNotFound)})
		lostSelection = true
	}
	selector := ui.RestoreSelector(view, ui.NewPreview(view), file)
	if lostSelection {
		selector.Change(nil)
	}

	view.onBusy = func() {
		if err := h.update(ctx, id, func(s *session.Snapshot) {
			s.Page.Busy = true
			s.Page.Results = ""
		}); err != nil {
			telemetry.Warn("session.busy_publish_failed", map[string]any{"session_id": id, "err": err.Error()})
		}
	}

	sub := &ui.Submitter{
		Selection: selector,
		View:      view,
		Analyzer:  h.Analyzer,
		Guard:     &sessionGuard{store: h.Sessions, id: id, ttl: h.lockTTL()},
		SessionID: id,
	}
	submitErr := sub.Submit(ctx)
	ran := view.started
	rejected := errors.Is(submitErr, ui.ErrNoSelection) || errors.Is(submitErr, ui.ErrBusy)
	if submitErr != nil && !ran && !rejected {
		telemetry.Error("submission.start_failed", map[string]any{"session_id": id, "err": submitErr.Error()})
		page.Notify(startFailNotice)
	}
	c.Set("submitOutcome", outcome(submitErr, ran))

	final := page.State()
	fresh := page.TakeNotices()
	if err := h.update(ctx, id, func(s *session.Snapshot) {
		if lostSelection {
			s.Selected = nil
			s.Page.PlaceholderVisible = final.PlaceholderVisible
			s.Page.PreviewSrc = final.PreviewSrc
			s.Page.SubmitEnabled = final.SubmitEnabled
		}
		if ran {
			s.Page.Results = final.Results
			s.Page.Busy = false
			s.Page.ScrollToResults = true
		}
		s.Page.Notices = append(s.Page.Notices, fresh...)
	}); err != nil {
		telemetry.Error("session.save_failed", map[string]any{"session_id": id, "err": err.Error()})
	}

	if ran {
		c.Redirect(http.StatusSeeOther, "/#results-section")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) notify(c *gin.Context, id, message string) {
	if err := h.update(c.Request.Context(), id, func(s *session.Snapshot) {
		s.Page.Notices = append(s.Page.Notices, message)
	}); err != nil {
		telemetry.Error("session.save_failed", map[string]any{"session_id": id, "err": err.Error()})
	}
}

func (h *Handler) rejectUpload(c *gin.Context, id string, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.notify(c, id, tooLargeNotice)
	} else {
		telemetry.Warn("selection.read_failed", map[string]any{"session_id": id, "err": err.Error()})
		h.notify(c, id, unreadableNotice)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) maxUploadBytes() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return 10 << 20
}

func (h *Handler) lockTTL() time.Duration {
	if h.LockTTL > 0 {
		return h.LockTTL
	}
	return 10 * time.Minute
}

func (h *Handler) refreshSeconds() int {
	if h.RefreshSeconds > 0 {
		return h.RefreshSeconds
	}
	return 2
}
