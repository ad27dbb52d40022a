package doc

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/transport/web/logx"
	"github.com/EgorLis/mdshare/internal/transport/web/mw"
	v1 "github.com/EgorLis/mdshare/internal/transport/web/v1"
)

// List godoc
// @Summary     List documents
// @Description Own + public documents for authenticated callers, public only for anonymous ones.
// @Tags        docs
// @Produce     json
// @Param       login query string false "owner login (optional)"
// @Param       key   query string false "filter key (alias|file_name)"
// @Param       value query string false "filter value"
// @Param       limit query int    false "limit (default 50, max 1000)"
// @Param       sort  query string false "name|created"
// @Param       token query string false "Auth token (alternative to Authorization: Bearer)"
// @Success     200 {object} domain.APIEnvelope{data=object}
// @Failure     500 {object} domain.APIEnvelope
// @Router      /api/docs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "docs.list"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	me := meFromCtx(r)

	login := r.URL.Query().Get("login")
	key := r.URL.Query().Get("key")
	val := r.URL.Query().Get("value")
	sortQ := normalizeSort(r.URL.Query().Get("sort"))
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = min(max(n, 1), 1000)
		}
	}

	// list cache, keyed by the viewer's current version counter
	viewer := listViewer(me)
	ver := h.listVersion(r.Context(), viewer)
	ckey := listCacheKey(viewer, ver, login, key, val, sortQ, limit)
	b, err := h.Cache.Get(r.Context(), ckey)
	if err != nil {
		logx.Error(h.Log, reqID, op, "cache get list failed", err)
	} else if len(b) > 0 {
		w.Header().Set("Cache-Control", "private, max-age=60")
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		logx.Info(h.Log, reqID, op, "ok (cache)", "bytes", len(b))
		return
	}

	f := domain.ListFilter{
		Login: login, Key: key, Value: val, Limit: limit,
	}
	switch sortQ {
	case "name":
		f.Sort = domain.SortByNameAsc
	case "created":
		f.Sort = domain.SortByCreatedDesc
	}
	docs, err := h.Docs.DocsList(r.Context(), me, f)
	if err != nil {
		logx.Error(h.Log, reqID, op, "db list failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	out := struct {
		Docs []docOut `json:"docs"`
	}{Docs: make([]docOut, 0, len(docs))}
	for _, d := range docs {
		out.Docs = append(out.Docs, toDocOut(d))
	}

	env := domain.OkData(out)
	buf, _ := json.Marshal(env)
	_ = h.Cache.Set(r.Context(), ckey, buf, h.ListTTL)

	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	logx.Info(h.Log, reqID, op, "ok", "count", len(out.Docs))
	v1.WriteEnvelope(w, r, http.StatusOK, env)
}
