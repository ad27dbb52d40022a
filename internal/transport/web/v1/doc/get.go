package doc

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/transport/web/logx"
	"github.com/EgorLis/mdshare/internal/transport/web/mw"
	v1 "github.com/EgorLis/mdshare/internal/transport/web/v1"
)

type getResponse struct {
	docOut
	Content string `json:"content"`
}

// GetOne godoc
// @Summary     Get document metadata and markdown content
// @Description Public documents resolve without a token; everything else is owner-only. ETag from version+content hash, If-None-Match honored.
// @Tags        docs
// @Produce     json
// @Param       id path string true "document id"
// @Param       token query string false "Auth token (alternative to Authorization: Bearer)"
// @Success     200 {object} domain.APIEnvelope{data=getResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /api/docs/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "docs.get_one"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me := meFromCtx(r)

	docID, err := docIDFromPath(r)
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad doc id", err, "doc_id_raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// cached meta lets a conditional request short-circuit before the DB,
	// but only when the cached row is visible to this caller
	if b, err := h.Cache.Get(r.Context(), domain.CacheKeyDocMeta(docID)); err == nil && len(b) > 0 {
		var cached domain.Document
		if err := json.Unmarshal(b, &cached); err == nil && visibleTo(cached, me) {
			etag := weakETag(cached.Version, cached.SHA256)
			if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
				w.Header().Set("ETag", etag)
				w.Header().Set("Last-Modified", httpTime(cached.UpdatedAt))
				w.WriteHeader(http.StatusNotModified)
				logx.Info(h.Log, reqID, op, "not modified by etag", "doc_id", cached.ID)
				return
			}
		}
	} else if err != nil {
		logx.Error(h.Log, reqID, op, "cache get docmeta failed", err, "doc_id", docID)
	}

	d, err := h.Docs.DocByID(r.Context(), docID, me)
	if err != nil {
		logx.Error(h.Log, reqID, op, "doc not found or not visible", err, "doc_id", docID)
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	if buf, err := json.Marshal(d); err == nil {
		_ = h.Cache.Set(r.Context(), domain.CacheKeyDocMeta(d.ID), buf, h.DocTTL)
	}

	etag := weakETag(d.Version, d.SHA256)
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", httpTime(d.UpdatedAt))
	w.Header().Set("Cache-Control", "private, max-age=60")

	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		logx.Info(h.Log, reqID, op, "not modified by etag (db)", "doc_id", d.ID)
		return
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		logx.Info(h.Log, reqID, op, "head ok", "doc_id", d.ID)
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

	logx.Info(h.Log, reqID, op, "ok", "doc_id", d.ID, "bytes", len(content))
	v1.WriteOKData(w, r, getResponse{docOut: toDocOut(d), Content: string(content)})
}

// visibleTo mirrors the repo visibility rule for cached rows.
func visibleTo(d domain.Document, me *domain.User) bool {
	if d.Public {
		return true
	}
	return me != nil && me.ID == d.OwnerID
}
