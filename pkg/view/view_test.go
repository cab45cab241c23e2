package view_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restbase/internal"
	"github.com/dmitrymomot/restbase/middlewares"
	"github.com/dmitrymomot/restbase/pkg/filehandler"
	"github.com/dmitrymomot/restbase/pkg/schema"
	"github.com/dmitrymomot/restbase/pkg/store"
	"github.com/dmitrymomot/restbase/pkg/validator"
	"github.com/dmitrymomot/restbase/pkg/view"
)

type post struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Author   string    `json:"author"`
	Cover    string    `json:"cover"`
	CreateAt time.Time `json:"create_at"`
	UpdateAt time.Time `json:"update_at"`
}

type postInput struct {
	Title   string `json:"title" validate:"required"`
	Author  string `json:"author" validate:"required"`
	Content string `json:"content"`
}

func (p postInput) Validate() error {
	return validator.Apply(validator.MaxLenString("title", p.Title, 100))
}

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

// bearer treats the token "admin" as a superuser and any other as a member.
func bearer(c internal.Context) internal.Identity {
	token, ok := strings.CutPrefix(c.Header("Authorization"), "Bearer ")
	if !ok || token == "" {
		return internal.Anonymous
	}
	return internal.User{ID: token, Superuser: token == "admin"}
}

type fixture struct {
	app  *internal.App
	repo *store.Memory[post]
}

func newFixture(t *testing.T, configure func(*view.Resource[post])) *fixture {
	t.Helper()
	return newFixtureWith(t, configure, internal.WithJSONPost(true))
}

func newFixtureWith(t *testing.T, configure func(*view.Resource[post]), opts ...internal.Option) *fixture {
	t.Helper()

	repo := store.NewMemory[post](store.WithTimestamps())
	res := &view.Resource[post]{
		Repository: repo,
		Schema:     schema.For[postInput](),
	}
	if configure != nil {
		configure(res)
	}

	guard := middlewares.SuperuserRequired(middlewares.GuardConfig{})
	app := internal.New(append(opts,
		internal.WithMiddleware(middlewares.Exception(), middlewares.Recover()),
		internal.WithIdentity(bearer),
		internal.WithHandlers(routes(func(r internal.Router) {
			view.Routes(r, "/posts", res, view.WithWriteMiddleware(guard))
		})),
	)...)
	return &fixture{app: app, repo: repo}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Msg  *string         `json:"msg"`
	Code int             `json:"code"`
}

func (e envelope) object(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(e.Data, &out))
	return out
}

func (f *fixture) do(t *testing.T, method, target, body, token string) envelope {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.app.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (f *fixture) seed(t *testing.T, n int, author string) []post {
	t.Helper()
	out := make([]post, 0, n)
	for i := range n {
		p, err := f.repo.Create(context.Background(), map[string]any{
			"title":   fmt.Sprintf("post %d", i),
			"content": "body",
			"author":  author,
		})
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("superuser", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		env := f.do(t, http.MethodPost, "/posts", `{"title":"Hello","author":"ann","content":"text"}`, "admin")

		require.Equal(t, 0, env.Code)
		assert.Nil(t, env.Msg)
		data := env.object(t)
		assert.Equal(t, "Hello", data["title"])
		assert.Equal(t, "text", data["content"])
		assert.NotEmpty(t, data["id"])
		assert.Equal(t, 1, f.repo.Len())
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		env := f.do(t, http.MethodPost, "/posts", `{"title":"Hello","author":"ann"}`, "")

		assert.Equal(t, 8, env.Code)
		assert.Equal(t, "Login required", *env.Msg)
		assert.Equal(t, "null", string(env.Data))
		assert.Equal(t, 0, f.repo.Len())
	})

	t.Run("member", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		env := f.do(t, http.MethodPost, "/posts", `{"title":"Hello","author":"ann"}`, "bob")

		assert.Equal(t, 9, env.Code)
		assert.Equal(t, 0, f.repo.Len())
	})

	t.Run("grouped validation errors", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		env := f.do(t, http.MethodPost, "/posts", `{"content":"only"}`, "admin")

		assert.Equal(t, 5, env.Code)
		assert.Equal(t, "field required: [title, author]", *env.Msg)
		assert.Equal(t, 0, f.repo.Len())
	})

	t.Run("form body", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader("title=Form&author=ann"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer admin")
		w := httptest.NewRecorder()
		f.app.ServeHTTP(w, req)

		assert.JSONEq(t, `"Form"`, mustField(t, w.Body.Bytes(), "title"))
	})

	t.Run("json post needs WithJSONPost", func(t *testing.T) {
		t.Parallel()

		f := newFixtureWith(t, nil)
		env := f.do(t, http.MethodPost, "/posts", `{"title":"Hello","author":"ann"}`, "admin")

		assert.Equal(t, 5, env.Code)
		assert.Equal(t, "field required: [title, author]", *env.Msg)
		assert.Equal(t, 0, f.repo.Len())

		req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader("title=Form&author=ann"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer admin")
		w := httptest.NewRecorder()
		f.app.ServeHTTP(w, req)
		assert.JSONEq(t, `"Form"`, mustField(t, w.Body.Bytes(), "title"))
	})

	t.Run("without schema", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, func(r *view.Resource[post]) { r.Schema = nil })
		env := f.do(t, http.MethodPost, "/posts", `{"title":"Raw"}`, "admin")
		require.Equal(t, 0, env.Code)
		assert.Equal(t, "Raw", env.object(t)["title"])
	})
}

func mustField(t *testing.T, body []byte, field string) string {
	t.Helper()
	var env struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return string(env.Data[field])
}

func TestList(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.seed(t, 20, "ann")
	f.seed(t, 5, "bob")

	type page struct {
		List  []map[string]any `json:"list"`
		Count int              `json:"count"`
	}
	decode := func(env envelope) page {
		var p page
		require.NoError(t, json.Unmarshal(env.Data, &p))
		return p
	}

	t.Run("first page", func(t *testing.T) {
		t.Parallel()

		env := f.do(t, http.MethodGet, "/posts?size=10", "", "")
		require.Equal(t, 0, env.Code)
		p := decode(env)
		assert.Equal(t, 25, p.Count)
		assert.Len(t, p.List, 10)
	})

	t.Run("default size", func(t *testing.T) {
		t.Parallel()

		p := decode(f.do(t, http.MethodGet, "/posts", "", ""))
		assert.Equal(t, 25, p.Count)
		assert.Len(t, p.List, view.DefaultPageSize)
	})

	t.Run("last page", func(t *testing.T) {
		t.Parallel()

		p := decode(f.do(t, http.MethodGet, "/posts?size=10&page=3", "", ""))
		assert.Len(t, p.List, 5)
	})

	t.Run("size zero disables pagination", func(t *testing.T) {
		t.Parallel()

		env := f.do(t, http.MethodGet, "/posts?size=0", "", "")
		var all []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &all))
		assert.Len(t, all, 25)
	})

	t.Run("filter", func(t *testing.T) {
		t.Parallel()

		p := decode(f.do(t, http.MethodGet, "/posts?author=bob&unknown=x", "", ""))
		assert.Equal(t, 5, p.Count)
		for _, item := range p.List {
			assert.Equal(t, "bob", item["author"])
		}
	})

	t.Run("filter from body", func(t *testing.T) {
		t.Parallel()

		p := decode(f.do(t, http.MethodPost, "/posts/search?size=50", `{"author":"ann"}`, ""))
		assert.Equal(t, 20, p.Count)
		assert.Len(t, p.List, 20)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		t.Parallel()

		env := f.do(t, http.MethodGet, "/posts?size=-1&page=0", "", "")
		assert.Equal(t, 5, env.Code)
		assert.Equal(t, "value is not a valid non-negative integer: [size], ensure this value is greater than or equal to 1: [page]", *env.Msg)
	})
}

func TestDetail(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(r *view.Resource[post]) { r.Exclude = []string{"content"} })
	p := f.seed(t, 1, "ann")[0]

	env := f.do(t, http.MethodGet, "/posts/"+p.ID, "", "")
	require.Equal(t, 0, env.Code)
	data := env.object(t)
	assert.Equal(t, p.ID, data["id"])
	assert.NotContains(t, data, "content")

	env = f.do(t, http.MethodGet, "/posts/missing", "", "")
	assert.Equal(t, 6, env.Code)
	assert.Contains(t, *env.Msg, "Object not found")
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	t.Run("put validates the full payload", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		p := f.seed(t, 1, "ann")[0]

		env := f.do(t, http.MethodPut, "/posts/"+p.ID, `{"title":"New"}`, "admin")
		assert.Equal(t, 5, env.Code)
		assert.Equal(t, "field required: [author]", *env.Msg)

		env = f.do(t, http.MethodPut, "/posts/"+p.ID, `{"title":"New","author":"bob"}`, "admin")
		require.Equal(t, 0, env.Code)
		data := env.object(t)
		assert.Equal(t, "New", data["title"])
		assert.Equal(t, p.ID, data["id"])
	})

	t.Run("patch keeps omitted fields", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		created, err := f.repo.Create(context.Background(), map[string]any{"title": "A", "content": "B", "author": "ann"})
		require.NoError(t, err)

		env := f.do(t, http.MethodPatch, "/posts/"+created.ID, `{"title":"C"}`, "admin")
		require.Equal(t, 0, env.Code)
		data := env.object(t)
		assert.Equal(t, "C", data["title"])
		assert.Equal(t, "B", data["content"])
		assert.Equal(t, "ann", data["author"])

		stored, err := f.repo.Find(context.Background(), store.Lookup{"id": created.ID})
		require.NoError(t, err)
		assert.Equal(t, "C", stored.Title)
		assert.Equal(t, created.CreateAt, stored.CreateAt)
	})

	t.Run("patch of a missing record", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		env := f.do(t, http.MethodPatch, "/posts/nope", `{"title":"C"}`, "admin")
		assert.Equal(t, 6, env.Code)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	p := f.seed(t, 2, "ann")[0]

	env := f.do(t, http.MethodDelete, "/posts/does-not-exist", "", "admin")
	assert.Equal(t, 6, env.Code)
	assert.Equal(t, 2, f.repo.Len())

	env = f.do(t, http.MethodDelete, "/posts/"+p.ID, "", "admin")
	require.Equal(t, 0, env.Code)
	assert.JSONEq(t, `"success"`, string(env.Data))
	assert.Equal(t, 1, f.repo.Len())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	current := map[string]any{"title": "A", "content": "B"}
	merged := view.Merge(current, map[string]any{"title": "C"})

	assert.Equal(t, map[string]any{"title": "C", "content": "B"}, merged)
	assert.Equal(t, "A", current["title"])

	out, err := schema.For[postInput]().Load(view.Merge(map[string]any{"title": "A", "author": "ann"}, map[string]any{"content": "x"}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "A", "author": "ann", "content": "x"}, out)
}

func TestObjectFinder(t *testing.T) {
	t.Parallel()

	repo := store.NewMemory[post]()
	p, err := repo.Create(context.Background(), map[string]any{"title": "t"})
	require.NoError(t, err)

	finder := view.ObjectFinder[post]{Repository: repo}

	got, err := finder.ByPK(context.Background(), p.ID, "id")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)

	_, err = finder.ByPK(context.Background(), "", "post_id")
	assert.EqualError(t, err, "Query param `post_id` is required")

	_, err = finder.Get(context.Background(), store.Lookup{"title": "other"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

type memUploader struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (u *memUploader) Upload(_ context.Context, key string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if key == "" {
		key = fmt.Sprintf("covers/%d.png", len(data))
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.files[key] = data
	return key, nil
}

func (u *memUploader) Load(_ context.Context, key string) (io.ReadCloser, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	data, ok := u.files[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestFiles(t *testing.T) {
	t.Parallel()

	t.Run("not implemented by default", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, nil)
		p := f.seed(t, 1, "ann")[0]

		env := f.do(t, http.MethodPost, "/posts/"+p.ID+"/upload", "", "admin")
		assert.Equal(t, 1, env.Code)
		assert.Equal(t, "Error: "+view.ErrNotImplemented.Error(), *env.Msg)

		env = f.do(t, http.MethodGet, "/posts/"+p.ID+"/download", "", "")
		assert.Equal(t, 1, env.Code)
	})

	t.Run("upload then download", func(t *testing.T) {
		t.Parallel()

		files := &memUploader{files: map[string][]byte{}}
		var f *fixture
		f = newFixture(t, func(r *view.Resource[post]) {
			r.FileUpload = view.UploadView{
				Parser:   filehandler.StreamParser{Field: "cover"},
				Uploader: files,
				Save: func(c internal.Context, key string) (any, error) {
					obj, err := f.repo.Update(c, c.Param("id"), map[string]any{"cover": key})
					if err != nil {
						return nil, err
					}
					return map[string]any{"cover": obj.Cover}, nil
				},
			}
			r.FileDownload = view.DownloadView{
				Loader: files,
				Load: func(c internal.Context) (string, error) {
					obj, err := f.repo.Find(c, store.Lookup{"id": c.Param("id")})
					return obj.Cover, err
				},
				Filename: func(string) string { return "cover.png" },
			}
		})
		p := f.seed(t, 1, "ann")[0]

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("cover", "cover.png")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\nimage"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/posts/"+p.ID+"/upload", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer admin")
		w := httptest.NewRecorder()
		f.app.ServeHTTP(w, req)
		assert.JSONEq(t, `{"data":{"cover":"covers/13.png"},"msg":null,"code":0}`, w.Body.String())

		req = httptest.NewRequest(http.MethodGet, "/posts/"+p.ID+"/download", nil)
		w = httptest.NewRecorder()
		f.app.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename=cover.png`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "\x89PNG\r\n\x1a\nimage", w.Body.String())
	})
}
