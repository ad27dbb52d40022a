package doc

import (
	"net/http"

	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/transport/web/logx"
	"github.com/EgorLis/mdshare/internal/transport/web/mw"
	v1 "github.com/EgorLis/mdshare/internal/transport/web/v1"
)

// Delete godoc
// @Summary     Delete document (owner only)
// @Description Deletes the blob first, then the row. A failed row delete leaves an orphaned row referencing a missing blob (no rollback).
// @Tags        docs
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "document id"
// @Success     200 {object} domain.APIEnvelope{response=object}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /api/docs/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "docs.delete"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	docID, err := docIDFromPath(r)
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad doc id", err, "doc_id_raw", r.PathValue("id"))
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// row holds the storage key, so read it before touching the blob
	d, err := h.Docs.DocByID(r.Context(), docID, &me)
	if err != nil {
		logx.Error(h.Log, reqID, op, "doc not found or not visible", err, "doc_id", docID)
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}
	if d.OwnerID != me.ID {
		logx.Error(h.Log, reqID, op, "not owner", domain.ErrForbidden, "doc_id", d.ID)
		v1.WriteDomainError(w, r, domain.ErrForbidden)
		return
	}

	// best effort: a missing object must not block deleting the row
	if err := h.Storage.Delete(r.Context(), d.StoragePath); err != nil {
		logx.Error(h.Log, reqID, op, "blob delete failed, continuing", err, "doc_id", d.ID, "key", d.StoragePath)
	}

	if err := h.Docs.DocDelete(r.Context(), d.ID, me.ID); err != nil {
		logx.Error(h.Log, reqID, op, "db delete failed", err, "doc_id", d.ID)
		v1.WriteDomainError(w, r, err)
		return
	}

	_ = h.Cache.Del(r.Context(),
		domain.CacheKeyDocMeta(d.ID),
		domain.CacheKeyDocHTML(d.ID, d.Version),
	)
	h.bumpListVersions(r.Context(), me.ID, d.Public)

	logx.Info(h.Log, reqID, op, "ok", "doc_id", d.ID)
	v1.WriteOKResponse(w, r, map[string]bool{d.ID.String(): true})
}
