package doc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/transport/web/logx"
	"github.com/EgorLis/mdshare/internal/transport/web/mw"
	v1 "github.com/EgorLis/mdshare/internal/transport/web/v1"
)

type createRequest struct {
	FileName string `json:"file_name"`
	Alias    string `json:"alias"`
	Content  string `json:"content"`
	Public   bool   `json:"is_public"`
}

// Create godoc
// @Summary     Create document
// @Description JSON body (file_name, alias, content, is_public) or multipart upload (file, alias, is_public). Inserts the row, then writes the blob at {owner_id}/{file_name}; on blob failure the row is deleted again.
// @Tags        docs
// @Accept      json
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=docOut}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     409 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /api/docs [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "docs.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me, ok := mw.UserFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauth)
		return
	}

	var req createRequest
	var content []byte

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			logx.Error(h.Log, reqID, op, "parse multipart failed", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		fh, hdr, err := r.FormFile("file")
		if err != nil {
			logx.Error(h.Log, reqID, op, "missing file part", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		defer fh.Close()
		content, err = io.ReadAll(fh)
		if err != nil {
			logx.Error(h.Log, reqID, op, "read file failed", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		req.FileName = hdr.Filename
		req.Alias = r.FormValue("alias")
		req.Public = r.FormValue("is_public") == "true"
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logx.Error(h.Log, reqID, op, "bad json", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		content = []byte(req.Content)
	}

	if !domain.ValidFileName(req.FileName) {
		logx.Error(h.Log, reqID, op, "bad file name", domain.ErrBadParams, "file_name", req.FileName)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	size, sha := contentMeta(content)
	meta := domain.Document{
		OwnerID:     me.ID,
		Alias:       req.Alias,
		FileName:    req.FileName,
		Public:      req.Public,
		SizeBytes:   size,
		SHA256:      sha,
		StoragePath: domain.BlobKey(me.ID, req.FileName),
	}

	// Row first, blob second. The row is the visible side, so a failed blob
	// write is compensated by deleting the row again.
	d, err := h.Docs.CreateDoc(r.Context(), meta)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db create failed", err, "file_name", req.FileName)
		v1.WriteDomainError(w, r, err)
		return
	}

	if err := h.Storage.Put(r.Context(), d.StoragePath, bytes.NewReader(content), size, markdownMIME); err != nil {
		logx.Error(h.Log, reqID, op, "blob put failed, compensating", err, "doc_id", d.ID)
		if delErr := h.Docs.DocDelete(r.Context(), d.ID, me.ID); delErr != nil {
			logx.Error(h.Log, reqID, op, "compensating delete failed", delErr, "doc_id", d.ID)
		}
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	h.bumpListVersions(r.Context(), me.ID, d.Public)

	logx.Info(h.Log, reqID, op, "ok", "doc_id", d.ID, "file_name", d.FileName, "public", d.Public)
	v1.WriteOKData(w, r, toDocOut(d))
}
