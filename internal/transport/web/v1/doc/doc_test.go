package doc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/markdown"
)

// ---- fakes over the domain ports ----

type fakeDocs struct {
	byID       map[domain.DocID]domain.Document
	logins     map[domain.UserID]string
	listCalls  int
	lastFilter domain.ListFilter
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{
		byID:   map[domain.DocID]domain.Document{},
		logins: map[domain.UserID]string{},
	}
}

func (f *fakeDocs) CreateDoc(_ context.Context, meta domain.Document) (domain.Document, error) {
	for _, d := range f.byID {
		if d.OwnerID == meta.OwnerID && d.FileName == meta.FileName {
			return domain.Document{}, domain.ErrConflict
		}
	}
	meta.ID = uuid.New()
	meta.Version = 1
	now := time.Now().UTC()
	meta.CreatedAt, meta.UpdatedAt = now, now
	f.byID[meta.ID] = meta
	return meta, nil
}

func (f *fakeDocs) DocByID(_ context.Context, id domain.DocID, forUser *domain.User) (domain.Document, error) {
	d, ok := f.byID[id]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	if d.Public || (forUser != nil && forUser.ID == d.OwnerID) {
		return d, nil
	}
	return domain.Document{}, domain.ErrNotFound
}

func (f *fakeDocs) DocUpdate(_ context.Context, id domain.DocID, owner domain.UserID, upd domain.DocUpdate) (domain.Document, error) {
	d, ok := f.byID[id]
	if !ok || d.OwnerID != owner {
		return domain.Document{}, domain.ErrNotFound
	}
	if upd.Alias != nil {
		d.Alias = *upd.Alias
	}
	if upd.Public != nil {
		d.Public = *upd.Public
	}
	if upd.ContentChanged {
		d.SizeBytes = upd.SizeBytes
		d.SHA256 = upd.SHA256
	}
	d.Version++
	d.UpdatedAt = time.Now().UTC()
	f.byID[id] = d
	return d, nil
}

func (f *fakeDocs) DocDelete(_ context.Context, id domain.DocID, owner domain.UserID) error {
	d, ok := f.byID[id]
	if !ok || d.OwnerID != owner {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeDocs) DocsList(_ context.Context, me *domain.User, fl domain.ListFilter) ([]domain.Document, error) {
	f.listCalls++
	f.lastFilter = fl
	var out []domain.Document
	for _, d := range f.byID {
		if !d.Public && (me == nil || me.ID != d.OwnerID) {
			continue
		}
		if fl.Login != "" && f.logins[d.OwnerID] != fl.Login {
			continue
		}
		switch fl.Key {
		case "alias":
			if d.Alias != fl.Value {
				continue
			}
		case "file_name":
			if d.FileName != fl.Value {
				continue
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	if fl.Limit > 0 && len(out) > fl.Limit {
		out = out[:fl.Limit]
	}
	return out, nil
}

type fakeStorage struct {
	objects    map[string][]byte
	failPut    error
	failDelete error
	puts       []string
	deletes    []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if f.failPut != nil {
		return f.failPut
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = b
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, int64, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, 0, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	if f.failDelete != nil {
		return f.failDelete
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) Ping(context.Context) error { return nil }

type fakeCache struct {
	store map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) { return f.store[key], nil }
func (f *fakeCache) Set(_ context.Context, key string, val []byte, _ int) error {
	f.store[key] = val
	return nil
}
func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}
func (f *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	n, _ := strconv.ParseInt(string(f.store[key]), 10, 64)
	n++
	f.store[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}
func (f *fakeCache) SetNX(_ context.Context, key string, val []byte, _ int) (bool, error) {
	if _, ok := f.store[key]; ok {
		return false, nil
	}
	f.store[key] = val
	return true, nil
}
func (f *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.store[key]
	return ok, nil
}
func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close()                     {}

// ---- harness ----

type testEnv struct {
	h       *Handler
	docs    *fakeDocs
	storage *fakeStorage
	cache   *fakeCache
	me      domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	docs := newFakeDocs()
	storage := newFakeStorage()
	cache := newFakeCache()
	me := domain.User{ID: uuid.New(), Login: "johnsmith"}
	docs.logins[me.ID] = me.Login
	return &testEnv{
		h: &Handler{
			Log:      log.New(io.Discard, "", 0),
			Docs:     docs,
			Storage:  storage,
			Cache:    cache,
			Renderer: markdown.NewRenderer(),
			DocTTL:   60,
			ListTTL:  30,
		},
		docs:    docs,
		storage: storage,
		cache:   cache,
		me:      me,
	}
}

func (e *testEnv) request(method, target string, body io.Reader, authed bool) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if authed {
		req = req.WithContext(domain.WithUser(req.Context(), e.me))
	}
	return req
}

func (e *testEnv) createDoc(t *testing.T, fileName, content string, public bool) domain.Document {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"file_name": fileName,
		"content":   content,
		"is_public": public,
	})
	req := e.request(http.MethodPost, "/api/docs", bytes.NewReader(body), true)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.h.Create(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, d := range e.docs.byID {
		if d.OwnerID == e.me.ID && d.FileName == fileName {
			return d
		}
	}
	t.Fatalf("document %q not stored", fileName)
	return domain.Document{}
}

func withPathID(req *http.Request, id domain.DocID) *http.Request {
	req.SetPathValue("id", id.String())
	return req
}

// ---- create ----

func TestCreateJSON(t *testing.T) {
	e := newTestEnv(t)

	d := e.createDoc(t, "notes.md", "# Hi", true)

	assert.Equal(t, domain.BlobKey(e.me.ID, "notes.md"), d.StoragePath)
	assert.Equal(t, []byte("# Hi"), e.storage.objects[d.StoragePath])
	assert.True(t, d.Public)
	assert.EqualValues(t, 4, d.SizeBytes)
	assert.NotEmpty(t, d.SHA256)

	// both the owner and the public list buckets were invalidated
	ownerVer, _ := e.cache.Get(context.Background(), domain.CacheKeyListVersion(e.me.ID.String()))
	publicVer, _ := e.cache.Get(context.Background(), domain.CacheKeyListVersion(domain.PublicListOwner))
	assert.Equal(t, "1", string(ownerVer))
	assert.Equal(t, "1", string(publicVer))
}

func TestCreateMultipart(t *testing.T) {
	e := newTestEnv(t)

	var buf bytes.Buffer
	mpw := multipart.NewWriter(&buf)
	fw, err := mpw.CreateFormFile("file", "upload.md")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("# Uploaded"))
	require.NoError(t, mpw.WriteField("alias", "My Upload"))
	require.NoError(t, mpw.WriteField("is_public", "true"))
	require.NoError(t, mpw.Close())

	req := e.request(http.MethodPost, "/api/docs", &buf, true)
	req.Header.Set("Content-Type", mpw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.h.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	key := domain.BlobKey(e.me.ID, "upload.md")
	assert.Equal(t, []byte("# Uploaded"), e.storage.objects[key])

	var found domain.Document
	for _, d := range e.docs.byID {
		found = d
	}
	assert.Equal(t, "My Upload", found.Alias)
	assert.True(t, found.Public)
}

func TestCreateCompensatesOnBlobFailure(t *testing.T) {
	e := newTestEnv(t)
	e.storage.failPut = errors.New("boom")

	body, _ := json.Marshal(map[string]any{"file_name": "notes.md", "content": "# Hi"})
	req := e.request(http.MethodPost, "/api/docs", bytes.NewReader(body), true)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.h.Create(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// the just-inserted row was deleted again
	assert.Empty(t, e.docs.byID)
	assert.Empty(t, e.storage.objects)
}

func TestCreateRejectsBadFileName(t *testing.T) {
	e := newTestEnv(t)

	for _, name := range []string{"", "notes.txt", "../escape.md", "dir/notes.md"} {
		body, _ := json.Marshal(map[string]any{"file_name": name, "content": "x"})
		req := e.request(http.MethodPost, "/api/docs", bytes.NewReader(body), true)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		e.h.Create(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "file name %q", name)
	}
	assert.Empty(t, e.docs.byID)
}

func TestCreateDuplicateFileName(t *testing.T) {
	e := newTestEnv(t)
	e.createDoc(t, "notes.md", "# One", false)

	body, _ := json.Marshal(map[string]any{"file_name": "notes.md", "content": "# Two"})
	req := e.request(http.MethodPost, "/api/docs", bytes.NewReader(body), true)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.h.Create(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, e.docs.byID, 1)
}

// ---- get ----

func TestGetPublicAnonymous(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "shared.md", "# Shared", true)

	req := withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String(), nil, false), d.ID)
	rec := httptest.NewRecorder()
	e.h.GetOne(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	var env struct {
		Data getResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "# Shared", env.Data.Content)
	assert.Equal(t, "shared.md", env.Data.FileName)
	assert.Equal(t, "shared.md", env.Data.Title) // no alias, falls back to file name
}

func TestGetPrivateAnonymousNotFound(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "secret.md", "# Secret", false)

	req := withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String(), nil, false), d.ID)
	rec := httptest.NewRecorder()
	e.h.GetOne(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPrivateOwner(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "secret.md", "# Secret", false)

	req := withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String(), nil, true), d.ID)
	rec := httptest.NewRecorder()
	e.h.GetOne(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetNotModified(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "notes.md", "# Hi", true)

	req := withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String(), nil, true), d.ID)
	rec := httptest.NewRecorder()
	e.h.GetOne(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req = withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String(), nil, true), d.ID)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	e.h.GetOne(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestGetBadID(t *testing.T) {
	e := newTestEnv(t)

	req := e.request(http.MethodGet, "/api/docs/not-a-uuid", nil, true)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()
	e.h.GetOne(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- html ----

func TestGetHTMLRendersAndCaches(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "page.md", "# Heading\n\n*text*", true)

	req := withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String()+"/html", nil, false), d.ID)
	rec := httptest.NewRecorder()
	e.h.GetHTML(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<em>text</em>")

	// rendered HTML was cached under the current version
	cached, _ := e.cache.Get(context.Background(), domain.CacheKeyDocHTML(d.ID, d.Version))
	assert.NotEmpty(t, cached)

	// second request is served from cache even with the blob gone
	delete(e.storage.objects, d.StoragePath)
	req = withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String()+"/html", nil, false), d.ID)
	rec = httptest.NewRecorder()
	e.h.GetHTML(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<em>text</em>")
}

func TestGetHTMLTitleFromFrontMatter(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "page.md", "---\ntitle: Release Notes\n---\n# Different Heading\n", true)

	req := withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String()+"/html", nil, false), d.ID)
	rec := httptest.NewRecorder()
	e.h.GetHTML(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, "<title>Release Notes</title>")
	// front matter itself never reaches the body
	assert.NotContains(t, out, "title: Release Notes")
}

func TestGetHTMLTitleFromFirstHeading(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "page.md", "intro text\n\n## Section One\n", true)

	req := withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String()+"/html", nil, false), d.ID)
	rec := httptest.NewRecorder()
	e.h.GetHTML(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Section One</title>")
}

func TestGetHTMLTitleFallsBackToDocTitle(t *testing.T) {
	e := newTestEnv(t)

	body, _ := json.Marshal(map[string]any{
		"file_name": "plain.md",
		"alias":     "My Plain Doc",
		"content":   "no headings here",
		"is_public": true,
	})
	req := e.request(http.MethodPost, "/api/docs", bytes.NewReader(body), true)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.h.Create(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var d domain.Document
	for _, stored := range e.docs.byID {
		d = stored
	}

	req = withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String()+"/html", nil, false), d.ID)
	rec = httptest.NewRecorder()
	e.h.GetHTML(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>My Plain Doc</title>")
}

func TestGetHTMLPrivateAnonymousNotFound(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "secret.md", "# Secret", false)

	req := withPathID(e.request(http.MethodGet, "/api/docs/"+d.ID.String()+"/html", nil, false), d.ID)
	rec := httptest.NewRecorder()
	e.h.GetHTML(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- update ----

func TestUpdateContentOverwritesBlobThenRow(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "notes.md", "# Old", false)
	oldSHA := d.SHA256

	body, _ := json.Marshal(map[string]any{"content": "# New content"})
	req := withPathID(e.request(http.MethodPatch, "/api/docs/"+d.ID.String(), bytes.NewReader(body), true), d.ID)
	rec := httptest.NewRecorder()
	e.h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []byte("# New content"), e.storage.objects[d.StoragePath])

	got := e.docs.byID[d.ID]
	assert.EqualValues(t, 2, got.Version)
	assert.NotEqual(t, oldSHA, got.SHA256)
	assert.EqualValues(t, len("# New content"), got.SizeBytes)
}

func TestUpdateBlobFailureLeavesRow(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "notes.md", "# Old", false)
	e.storage.failPut = errors.New("boom")

	body, _ := json.Marshal(map[string]any{"content": "# New"})
	req := withPathID(e.request(http.MethodPatch, "/api/docs/"+d.ID.String(), bytes.NewReader(body), true), d.ID)
	rec := httptest.NewRecorder()
	e.h.Update(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	got := e.docs.byID[d.ID]
	assert.EqualValues(t, 1, got.Version)
	assert.Equal(t, []byte("# Old"), e.storage.objects[d.StoragePath])
}

func TestUpdateVisibilityAndAlias(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "notes.md", "# Hi", false)

	body, _ := json.Marshal(map[string]any{"alias": "Renamed", "is_public": true})
	req := withPathID(e.request(http.MethodPatch, "/api/docs/"+d.ID.String(), bytes.NewReader(body), true), d.ID)
	rec := httptest.NewRecorder()
	e.h.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := e.docs.byID[d.ID]
	assert.Equal(t, "Renamed", got.Alias)
	assert.True(t, got.Public)
	// content untouched
	assert.Equal(t, []byte("# Hi"), e.storage.objects[d.StoragePath])
}

func TestUpdateForbiddenForNonOwner(t *testing.T) {
	e := newTestEnv(t)
	other := uuid.New()
	d := domain.Document{
		ID: uuid.New(), OwnerID: other, FileName: "theirs.md",
		Public: true, Version: 1, StoragePath: domain.BlobKey(other, "theirs.md"),
	}
	e.docs.byID[d.ID] = d

	body, _ := json.Marshal(map[string]any{"alias": "hijack"})
	req := withPathID(e.request(http.MethodPatch, "/api/docs/"+d.ID.String(), bytes.NewReader(body), true), d.ID)
	rec := httptest.NewRecorder()
	e.h.Update(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, e.docs.byID[d.ID].Alias)
}

func TestUpdateEmptyPatch(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "notes.md", "# Hi", false)

	req := withPathID(e.request(http.MethodPatch, "/api/docs/"+d.ID.String(), bytes.NewReader([]byte(`{}`)), true), d.ID)
	rec := httptest.NewRecorder()
	e.h.Update(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- delete ----

func TestDeleteRemovesBlobAndRow(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "notes.md", "# Hi", true)

	req := withPathID(e.request(http.MethodDelete, "/api/docs/"+d.ID.String(), nil, true), d.ID)
	rec := httptest.NewRecorder()
	e.h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, e.docs.byID)
	assert.Empty(t, e.storage.objects)
	assert.Equal(t, []string{d.StoragePath}, e.storage.deletes)

	var env struct {
		Response map[string]bool `json:"response"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Response[d.ID.String()])
}

func TestDeleteBlobFailureStillDeletesRow(t *testing.T) {
	e := newTestEnv(t)
	d := e.createDoc(t, "notes.md", "# Hi", false)
	e.storage.failDelete = errors.New("gone already")

	req := withPathID(e.request(http.MethodDelete, "/api/docs/"+d.ID.String(), nil, true), d.ID)
	rec := httptest.NewRecorder()
	e.h.Delete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, e.docs.byID)
}

func TestDeleteForbiddenForNonOwner(t *testing.T) {
	e := newTestEnv(t)
	other := uuid.New()
	d := domain.Document{
		ID: uuid.New(), OwnerID: other, FileName: "theirs.md",
		Public: true, Version: 1, StoragePath: domain.BlobKey(other, "theirs.md"),
	}
	e.docs.byID[d.ID] = d

	req := withPathID(e.request(http.MethodDelete, "/api/docs/"+d.ID.String(), nil, true), d.ID)
	rec := httptest.NewRecorder()
	e.h.Delete(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, e.docs.byID, 1)
}

// ---- list ----

func listedNames(t *testing.T, body []byte) []string {
	t.Helper()
	var env struct {
		Data struct {
			Docs []docOut `json:"docs"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	names := make([]string, 0, len(env.Data.Docs))
	for _, d := range env.Data.Docs {
		names = append(names, d.FileName)
	}
	return names
}

func TestListOwnerSeesOwnAndPublic(t *testing.T) {
	e := newTestEnv(t)
	e.createDoc(t, "mine-private.md", "a", false)
	e.createDoc(t, "mine-public.md", "b", true)

	other := uuid.New()
	e.docs.byID[uuid.New()] = domain.Document{
		ID: uuid.New(), OwnerID: other, FileName: "theirs-public.md", Public: true,
	}
	e.docs.byID[uuid.New()] = domain.Document{
		ID: uuid.New(), OwnerID: other, FileName: "theirs-private.md", Public: false,
	}

	req := e.request(http.MethodGet, "/api/docs", nil, true)
	rec := httptest.NewRecorder()
	e.h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	names := listedNames(t, rec.Body.Bytes())
	assert.ElementsMatch(t, []string{"mine-private.md", "mine-public.md", "theirs-public.md"}, names)
}

func TestListAnonymousSeesOnlyPublic(t *testing.T) {
	e := newTestEnv(t)
	e.createDoc(t, "mine-private.md", "a", false)
	e.createDoc(t, "mine-public.md", "b", true)

	req := e.request(http.MethodGet, "/api/docs", nil, false)
	rec := httptest.NewRecorder()
	e.h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"mine-public.md"}, listedNames(t, rec.Body.Bytes()))
}

func TestListServedFromCache(t *testing.T) {
	e := newTestEnv(t)
	e.createDoc(t, "notes.md", "a", false)

	req := e.request(http.MethodGet, "/api/docs", nil, true)
	rec := httptest.NewRecorder()
	e.h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, e.docs.listCalls)

	req = e.request(http.MethodGet, "/api/docs", nil, true)
	rec = httptest.NewRecorder()
	e.h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, e.docs.listCalls) // cache hit, repo untouched
}

func TestListInvalidatedByMutation(t *testing.T) {
	e := newTestEnv(t)
	e.createDoc(t, "one.md", "a", false)

	req := e.request(http.MethodGet, "/api/docs", nil, true)
	rec := httptest.NewRecorder()
	e.h.List(rec, req)
	require.Equal(t, 1, e.docs.listCalls)

	// a create bumps the owner's list version, so the old entry is skipped
	e.createDoc(t, "two.md", "b", false)

	req = e.request(http.MethodGet, "/api/docs", nil, true)
	rec = httptest.NewRecorder()
	e.h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, e.docs.listCalls)
	assert.ElementsMatch(t, []string{"one.md", "two.md"}, listedNames(t, rec.Body.Bytes()))
}

func TestListLimitClamped(t *testing.T) {
	e := newTestEnv(t)
	e.createDoc(t, "notes.md", "a", false)

	cases := []struct {
		query string
		want  int
	}{
		{"limit=2000", 1000},
		{"limit=1000", 1000},
		{"limit=7", 7},
		{"limit=0", 1},
		{"limit=-5", 1},
		{"limit=abc", 50}, // unparsable falls back to the default
		{"", 50},
	}
	for _, c := range cases {
		req := e.request(http.MethodGet, "/api/docs?"+c.query, nil, true)
		rec := httptest.NewRecorder()
		e.h.List(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, c.query)
		assert.Equal(t, c.want, e.docs.lastFilter.Limit, c.query)
	}
}

func TestListFilterByFileName(t *testing.T) {
	e := newTestEnv(t)
	e.createDoc(t, "one.md", "a", false)
	e.createDoc(t, "two.md", "b", false)

	req := e.request(http.MethodGet, "/api/docs?key=file_name&value=two.md", nil, true)
	rec := httptest.NewRecorder()
	e.h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"two.md"}, listedNames(t, rec.Body.Bytes()))
}
