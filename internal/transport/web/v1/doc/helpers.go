package doc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	srt "sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/transport/web/mw"
)

const markdownMIME = "text/markdown; charset=utf-8"

func weakETag(version int64, sha []byte) string {
	pref := hex.EncodeToString(sha)
	if len(pref) > 8 {
		pref = pref[:8]
	}
	return fmt.Sprintf(`W/"%d-%s"`, version, pref)
}

func httpTime(t time.Time) string { return t.UTC().Format(http.TimeFormat) }

// meFromCtx returns the authenticated user or nil for anonymous requests.
func meFromCtx(r *http.Request) *domain.User {
	if u, ok := mw.UserFromCtx(r.Context()); ok {
		return &u
	}
	return nil
}

func docIDFromPath(r *http.Request) (domain.DocID, error) {
	return uuid.Parse(r.PathValue("id"))
}

func contentMeta(content []byte) (int64, []byte) {
	sum := sha256.Sum256(content)
	return int64(len(content)), sum[:]
}

// docOut is the wire shape of document metadata.
type docOut struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Alias    string `json:"alias,omitempty"`
	FileName string `json:"file_name"`
	Title    string `json:"title"`
	Public   bool   `json:"public"`
	Size     int64  `json:"size_bytes"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
}

func toDocOut(d domain.Document) docOut {
	return docOut{
		ID:       d.ID.String(),
		OwnerID:  d.OwnerID.String(),
		Alias:    d.Alias,
		FileName: d.FileName,
		Title:    d.Title(),
		Public:   d.Public,
		Size:     d.SizeBytes,
		Created:  d.CreatedAt.Format("2006-01-02 15:04:05"),
		Updated:  d.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// listViewer names the list-version bucket a request reads from.
func listViewer(me *domain.User) string {
	if me == nil {
		return domain.PublicListOwner
	}
	return me.ID.String()
}

// listVersion reads the viewer's list version counter; 0 when absent.
func (h *Handler) listVersion(ctx context.Context, viewer string) int64 {
	b, err := h.Cache.Get(ctx, domain.CacheKeyListVersion(viewer))
	if err != nil || len(b) == 0 {
		return 0
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// bumpListVersions invalidates cached lists after a mutation: always the
// owner's bucket, and the public bucket when public visibility is touched.
func (h *Handler) bumpListVersions(ctx context.Context, owner domain.UserID, publicTouched bool) {
	if _, err := h.Cache.Incr(ctx, domain.CacheKeyListVersion(owner.String())); err != nil {
		h.Log.Printf("bump owner list version: %v", err)
	}
	if publicTouched {
		if _, err := h.Cache.Incr(ctx, domain.CacheKeyListVersion(domain.PublicListOwner)); err != nil {
			h.Log.Printf("bump public list version: %v", err)
		}
	}
}

// listCacheKey builds a stable key from the viewer, its version counter and
// the normalized filter set.
func listCacheKey(viewer string, ver int64, login, key, value, sort string, limit int) string {
	parts := []string{
		"viewer=" + viewer,
		fmt.Sprintf("ver=%d", ver),
		"login=" + login,
		"key=" + key,
		"value=" + value,
		"sort=" + sort,
		fmt.Sprintf("limit=%d", limit),
	}
	srt.Strings(parts)
	return "list:" + sha256hex(strings.Join(parts, "&"))
}

func sha256hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func normalizeSort(s string) string {
	switch s {
	case "name", "created":
		return s
	default:
		return "name"
	}
}
