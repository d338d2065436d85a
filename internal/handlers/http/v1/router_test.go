package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-react009/instaclone/config"
	"github.com/dev-react009/instaclone/internal/model"
	"github.com/dev-react009/instaclone/internal/service"
)

type memoryPosts struct {
	mu      sync.Mutex
	posts   []*model.Post
	listErr error
}

func (m *memoryPosts) Create(_ context.Context, post *model.Post) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *post
	saved.ID = strconv.Itoa(len(m.posts) + 1)
	m.posts = append(m.posts, &saved)
	return &saved, nil
}

func (m *memoryPosts) List(context.Context) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*model.Post(nil), m.posts...), nil
}

type memoryImages struct {
	n   int
	err error
}

func (m *memoryImages) Save(_ context.Context, upload model.Upload) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if _, err := io.Copy(io.Discard, upload.Body); err != nil {
		return "", err
	}
	m.n++
	return upload.Field + "-" + strconv.Itoa(m.n) + filepath.Ext(upload.Filename), nil
}

type fixture struct {
	router *gin.Engine
	posts  *memoryPosts
	images *memoryImages
}

func newFixture(t *testing.T, uploadDir, staticDir string) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()

	f := &fixture{posts: &memoryPosts{}, images: &memoryImages{}}
	svc := service.New(f.posts, f.images, log)
	router, err := New(svc, config.HTTPServer{StaticDir: staticDir, CORSOrigins: []string{"*"}}, uploadDir, log)
	require.NoError(t, err)
	f.router = router
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func postForm(t *testing.T, fields map[string]string, withImage bool) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withImage {
		part, err := w.CreateFormFile("image", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("\xff\xd8\xff fake jpeg"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/add/post", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func aliceFields() map[string]string {
	return map[string]string{
		"author":      "alice",
		"location":    "Paris",
		"description": "trip",
		"date":        "2024-01-01",
	}
}

func listPosts(t *testing.T, f *fixture) []map[string]interface{} {
	t.Helper()
	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/get/post", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var posts []map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
	return posts
}

func TestWelcome(t *testing.T) {
	f := newFixture(t, "", t.TempDir())

	rr := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Welcome to instaclone"}`, rr.Body.String())
}

func TestCreatePostEchoesFields(t *testing.T) {
	f := newFixture(t, "", t.TempDir())

	rr := f.do(postForm(t, aliceFields(), true))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var post map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &post))
	assert.Equal(t, "alice", post["author"])
	assert.Equal(t, "Paris", post["location"])
	assert.Equal(t, "trip", post["description"])
	assert.Equal(t, "2024-01-01", post["date"])
	assert.NotEmpty(t, post["image"])
	assert.NotEmpty(t, post["_id"])
}

func TestCreatePostWithoutImage(t *testing.T) {
	f := newFixture(t, "", t.TempDir())

	rr := f.do(postForm(t, aliceFields(), false))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"message":"No image file uploaded"}`, rr.Body.String())

	assert.Empty(t, listPosts(t, f))
	assert.Zero(t, f.images.n)
}

func TestCreatePostNotMultipart(t *testing.T) {
	f := newFixture(t, "", t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/api/add/post", strings.NewReader("author=alice"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, listPosts(t, f))
}

func TestCreatePostImageStoreFailure(t *testing.T) {
	f := newFixture(t, "", t.TempDir())
	f.images.err = errors.New("upload quota exceeded")

	rr := f.do(postForm(t, aliceFields(), true))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "upload quota exceeded")
	assert.Empty(t, listPosts(t, f))
}

func TestListCountsCreations(t *testing.T) {
	f := newFixture(t, "", t.TempDir())

	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/get/post", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, f.do(postForm(t, aliceFields(), true)).Code)
	}
	assert.Len(t, listPosts(t, f), 3)
}

func TestIdenticalCreationsAreNotDeduplicated(t *testing.T) {
	f := newFixture(t, "", t.TempDir())

	first := f.do(postForm(t, aliceFields(), true))
	second := f.do(postForm(t, aliceFields(), true))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b map[string]interface{}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.NotEqual(t, a["_id"], b["_id"])
	assert.Len(t, listPosts(t, f), 2)
}

func TestListStoreUnavailable(t *testing.T) {
	f := newFixture(t, "", t.TempDir())
	f.posts.listErr = errors.New("server selection timeout")

	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/get/post", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body["message"])
}

func TestStaticFallback(t *testing.T) {
	uploadDir, staticDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "image-1.jpg"), []byte("jpeg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "main.js"), []byte("console.log(1)"), 0o644))
	f := newFixture(t, uploadDir, staticDir)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/image-1.jpg", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jpeg", rr.Body.String())

	rr = f.do(httptest.NewRequest(http.MethodGet, "/main.js", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())

	rr = f.do(httptest.NewRequest(http.MethodGet, "/profile/alice", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "<html>app</html>", rr.Body.String())

	rr = f.do(httptest.NewRequest(http.MethodHead, "/main.js", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(httptest.NewRequest(http.MethodPost, "/main.js", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStaticFallbackStaysInsideServedDirs(t *testing.T) {
	uploadDir, staticDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(staticDir), "secret.txt"), []byte("top secret"), 0o644))
	f := newFixture(t, uploadDir, staticDir)

	rr := f.do(httptest.NewRequest(http.MethodGet, "/../secret.txt", nil))
	assert.NotEqual(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "top secret")
}

func TestStaticFallbackWithoutBuild(t *testing.T) {
	f := newFixture(t, "", filepath.Join(t.TempDir(), "missing"))

	rr := f.do(httptest.NewRequest(http.MethodGet, "/anything", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(httptest.NewRequest(http.MethodDelete, "/api/get/post", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGraphQLPosts(t *testing.T) {
	f := newFixture(t, "", t.TempDir())
	require.Equal(t, http.StatusOK, f.do(postForm(t, aliceFields(), true)).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(`{"query":"{ posts { id author image } }"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := f.do(req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"posts":[{"id":"1","author":"alice","image":"image-1.jpg"}]}}`, rr.Body.String())
}
