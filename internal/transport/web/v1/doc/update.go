package doc

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/transport/web/logx"
	"github.com/EgorLis/mdshare/internal/transport/web/mw"
	v1 "github.com/EgorLis/mdshare/internal/transport/web/v1"
)

type updateRequest struct {
	Alias   *string `json:"alias"`
	Public  *bool   `json:"is_public"`
	Content *string `json:"content"`
}

// Update godoc
// @Summary     Update document (owner only)
// @Description Patches alias/is_public/content. A content change overwrites the blob first, then the row; the row keeps the old hash if its update fails afterwards (no rollback).
// @Tags        docs
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "document id"
// @Success     200 {object} domain.APIEnvelope{data=docOut}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /api/docs/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "docs.update"
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

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Alias == nil && req.Public == nil && req.Content == nil {
		logx.Error(h.Log, reqID, op, "empty update", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

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

	upd := domain.DocUpdate{Alias: req.Alias, Public: req.Public}

	if req.Content != nil {
		content := []byte(*req.Content)
		upd.ContentChanged = true
		upd.SizeBytes, upd.SHA256 = contentMeta(content)

		// blob first, row second: readers may briefly see new content under
		// the old version if the row update fails afterwards
		if err := h.Storage.Put(r.Context(), d.StoragePath, bytes.NewReader(content), upd.SizeBytes, markdownMIME); err != nil {
			logx.Error(h.Log, reqID, op, "blob put failed", err, "doc_id", d.ID)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
	}

	out, err := h.Docs.DocUpdate(r.Context(), d.ID, me.ID, upd)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db update failed", err, "doc_id", d.ID)
		v1.WriteDomainError(w, r, err)
		return
	}

	_ = h.Cache.Del(r.Context(), domain.CacheKeyDocMeta(d.ID))
	h.bumpListVersions(r.Context(), me.ID, d.Public || out.Public)

	logx.Info(h.Log, reqID, op, "ok", "doc_id", out.ID, "version", out.Version)
	v1.WriteOKData(w, r, toDocOut(out))
}
