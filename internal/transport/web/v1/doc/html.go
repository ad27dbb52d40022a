package doc

import (
	"bytes"
	stdhtml "html"
	"io"
	"net/http"

	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/markdown"
	"github.com/EgorLis/mdshare/internal/transport/web/logx"
	"github.com/EgorLis/mdshare/internal/transport/web/mw"
	v1 "github.com/EgorLis/mdshare/internal/transport/web/v1"
)

// GetHTML godoc
// @Summary     Get rendered HTML view of a document
// @Description Markdown rendered with GFM extensions; front matter is stripped and its title (or the first heading) becomes the page title. Same visibility rules as the raw read; this is the share-link view.
// @Tags        docs
// @Produce     html
// @Param       id path string true "document id"
// @Param       token query string false "Auth token (alternative to Authorization: Bearer)"
// @Success     200 {string} string "HTML"
// @Failure     400 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /api/docs/{id}/html [get]
func (h *Handler) GetHTML(w http.ResponseWriter, r *http.Request) {
	const op = "docs.get_html"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me := meFromCtx(r)

	docID, err := docIDFromPath(r)
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad doc id", err, "doc_id_raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	d, err := h.Docs.DocByID(r.Context(), docID, me)
	if err != nil {
		logx.Error(h.Log, reqID, op, "doc not found or not visible", err, "doc_id", docID)
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	etag := weakETag(d.Version, d.SHA256)
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", httpTime(d.UpdatedAt))
	w.Header().Set("Cache-Control", "private, max-age=60")

	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		logx.Info(h.Log, reqID, op, "not modified by etag", "doc_id", d.ID)
		return
	}

	// version is part of the key, so stale entries just expire
	htmlKey := domain.CacheKeyDocHTML(d.ID, d.Version)
	if b, err := h.Cache.Get(r.Context(), htmlKey); err == nil && len(b) > 0 {
		writeHTML(w, r, b)
		logx.Info(h.Log, reqID, op, "ok (cache)", "doc_id", d.ID, "bytes", len(b))
		return
	}

	rc, _, err := h.Storage.Get(r.Context(), d.StoragePath)
	if err != nil {
		logx.Error(h.Log, reqID, op, "blob get failed", err, "doc_id", d.ID, "key", d.StoragePath)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		logx.Error(h.Log, reqID, op, "blob read failed", err, "doc_id", d.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	body, err := h.Renderer.Render(content)
	if err != nil {
		logx.Error(h.Log, reqID, op, "render failed", err, "doc_id", d.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	// page title: front matter / first heading, else alias or file name
	title := markdown.Title(content)
	if title == "" {
		title = d.Title()
	}
	page := htmlPage(title, body)

	_ = h.Cache.Set(r.Context(), htmlKey, page, h.DocTTL)

	writeHTML(w, r, page)
	logx.Info(h.Log, reqID, op, "ok", "doc_id", d.ID, "bytes", len(page))
}

func htmlPage(title string, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(stdhtml.EscapeString(title))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

func writeHTML(w http.ResponseWriter, r *http.Request, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(html)
}
