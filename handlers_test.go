package tinyrisks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	app := New(SiteConfig{
		Name:          "TinyRisks",
		URL:           "http://localhost:5000",
		Description:   "Notes and images",
		DatabasePath:  filepath.Join(dir, "test.db"),
		StaticDir:     filepath.Join(dir, "htdocs"),
		UploadDir:     filepath.Join(dir, "uploads"),
		AdminUsername: "admin",
		AdminPassword: "adminpass123",
		SessionSecret: "test-secret",
	})
	if err := app.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

func doJSON(app *App, method, path string, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

// doMultipart sends a multipart form with the given text fields and files.
// Files are written under fileField, one part per filename.
func doMultipart(t *testing.T, app *App, method, path string, fields map[string]string, fileField string, files map[string][]byte, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, content := range files {
		part, err := writer.CreateFormFile(fileField, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

// login authenticates as the seeded admin and returns the session cookies.
func login(t *testing.T, app *App) []*http.Cookie {
	t.Helper()
	rec := doJSON(app, http.MethodPost, "/api/login", `{"username":"admin","password":"adminpass123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no cookies")
	}
	return cookies
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestLoginSuccess(t *testing.T) {
	app := newTestApp(t)
	rec := doJSON(app, http.MethodPost, "/api/login", `{"username":"admin","password":"adminpass123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("no session cookie set")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	rec := doJSON(app, http.MethodPost, "/api/login", `{"username":"admin","password":"nope"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["error"] != "Invalid credentials" {
		t.Errorf("error = %v, want Invalid credentials", body["error"])
	}
}

func TestLoginUnknownUser(t *testing.T) {
	app := newTestApp(t)
	rec := doJSON(app, http.MethodPost, "/api/login", `{"username":"nobody","password":"adminpass123"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	app := newTestApp(t)
	for _, body := range []string{`{}`, `{"username":"admin"}`, `{"password":"adminpass123"}`} {
		rec := doJSON(app, http.MethodPost, "/api/login", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestLoginRateLimited(t *testing.T) {
	app := newTestApp(t)
	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = doJSON(app, http.MethodPost, "/api/login", `{"username":"admin","password":"nope"}`, nil)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Errorf("status after burst = %d, want 429", last.Code)
	}
}

func TestLoginSuccessesDoNotCountTowardLimit(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 8; i++ {
		rec := doJSON(app, http.MethodPost, "/api/login", `{"username":"admin","password":"adminpass123"}`, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("successful login %d status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(app, http.MethodPost, "/api/logout", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous logout status = %d, want 401", rec.Code)
	}

	cookies := login(t, app)
	rec = doJSON(app, http.MethodPost, "/api/logout", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", rec.Code)
	}
	expired := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionName && ck.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("logout did not expire the session cookie")
	}
}

func TestMutatingEndpointsRequireAuth(t *testing.T) {
	app := newTestApp(t)
	endpoints := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/upload"},
		{http.MethodPost, "/api/community-images"},
		{http.MethodPut, "/api/community-images/1"},
		{http.MethodDelete, "/api/community-images/1"},
		{http.MethodPost, "/api/text-posts"},
		{http.MethodPut, "/api/text-posts/1"},
		{http.MethodDelete, "/api/text-posts/1"},
	}
	for _, ep := range endpoints {
		rec := doJSON(app, ep.method, ep.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", ep.method, ep.path, rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "Unauthorized" {
			t.Errorf("%s %s: error = %v, want Unauthorized", ep.method, ep.path, body["error"])
		}
	}
}

func TestUploadAndListImages(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)

	rec := doMultipart(t, app, http.MethodPost, "/api/upload",
		map[string]string{"description": "sunset"},
		"image", map[string][]byte{"Test.PNG": []byte("png bytes")}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	file, _ := body["file"].(string)
	if !strings.HasPrefix(file, "img-") || !strings.HasSuffix(file, ".png") {
		t.Errorf("file = %q, want img-*.png", file)
	}
	url, _ := body["url"].(string)
	if url != "/static/uploads/"+file {
		t.Errorf("url = %q, want /static/uploads/%s", url, file)
	}
	if got := storedFiles(t, app.Config.UploadDir); len(got) != 1 || got[0] != file {
		t.Errorf("stored files = %v, want [%s]", got, file)
	}

	rec = doJSON(app, http.MethodGet, "/api/images", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var images []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &images); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("listed %d images, want 1", len(images))
	}
	if images[0]["url"] != url {
		t.Errorf("listed url = %v, want %s", images[0]["url"], url)
	}
	if images[0]["description"] != "sunset" {
		t.Errorf("listed description = %v, want sunset", images[0]["description"])
	}
}

func TestUploadMissingFilePart(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)
	rec := doMultipart(t, app, http.MethodPost, "/api/upload",
		map[string]string{"description": "no file"}, "image", nil, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "No file part" {
		t.Errorf("error = %v, want No file part", body["error"])
	}
}

func TestUploadInvalidType(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)
	rec := doMultipart(t, app, http.MethodPost, "/api/upload", nil,
		"image", map[string][]byte{"notes.txt": []byte("text")}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Invalid file type" {
		t.Errorf("error = %v, want Invalid file type", body["error"])
	}
	if got := storedFiles(t, app.Config.UploadDir); len(got) != 0 {
		t.Errorf("stored files = %v, want none", got)
	}
}

// blockWrites installs a trigger aborting the given statement kind on a
// table, so one metadata write fails while everything else still works.
func blockWrites(t *testing.T, app *App, table, op string) {
	t.Helper()
	stmt := fmt.Sprintf(`CREATE TRIGGER block_%s_%s BEFORE %s ON %s BEGIN SELECT RAISE(ABORT, 'write blocked'); END`,
		op, table, op, table)
	if _, err := app.Store.db.Exec(stmt); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
}

func TestUploadRemovesFileWhenInsertFails(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)
	blockWrites(t, app, "images", "INSERT")

	rec := doMultipart(t, app, http.MethodPost, "/api/upload", nil,
		"image", map[string][]byte{"photo.png": []byte("png bytes")}, cookies)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Internal server error" {
		t.Errorf("error = %v, want the generic message", body["error"])
	}
	if got := storedFiles(t, app.Config.UploadDir); len(got) != 0 {
		t.Errorf("failed upload left files behind: %v", got)
	}
}

func TestGalleryCreateRemovesFilesWhenInsertFails(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)
	blockWrites(t, app, "community_images", "INSERT")

	rec := doMultipart(t, app, http.MethodPost, "/api/community-images",
		map[string]string{"title": "Doomed"},
		"images", map[string][]byte{
			"a.jpg": []byte("aaa"),
			"b.png": []byte("bbb"),
		}, cookies)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := storedFiles(t, app.Config.UploadDir); len(got) != 0 {
		t.Errorf("failed create left files behind: %v", got)
	}
}

func TestGalleryUpdateKeepsOriginalFilesWhenRowWriteFails(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)

	rec := doMultipart(t, app, http.MethodPost, "/api/community-images",
		map[string]string{"title": "Stable"},
		"images", map[string][]byte{
			"a.jpg": []byte("aaa"),
			"b.png": []byte("bbb"),
		}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	id := int64(decodeBody(t, rec)["id"].(float64))
	oldFiles := storedFiles(t, app.Config.UploadDir)
	sort.Strings(oldFiles)

	blockWrites(t, app, "community_images", "UPDATE")
	rec = doMultipart(t, app, http.MethodPut, fmt.Sprintf("/api/community-images/%d", id),
		map[string]string{"title": "Stable, revised"},
		"images", map[string][]byte{"c.webp": []byte("ccc")}, cookies)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("update status = %d, want 500", rec.Code)
	}

	// The new file is rolled back and the original set survives.
	got := storedFiles(t, app.Config.UploadDir)
	sort.Strings(got)
	if len(got) != len(oldFiles) {
		t.Fatalf("stored files = %v, want original %v", got, oldFiles)
	}
	for i := range got {
		if got[i] != oldFiles[i] {
			t.Fatalf("stored files = %v, want original %v", got, oldFiles)
		}
	}
}

func TestGalleryPostLifecycle(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)

	rec := doMultipart(t, app, http.MethodPost, "/api/community-images",
		map[string]string{"title": "Beach day", "caption": "waves", "description": "three shots"},
		"images", map[string][]byte{
			"a.jpg": []byte("aaa"),
			"b.png": []byte("bbb"),
			"c.gif": []byte("ccc"),
		}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	id := int64(body["id"].(float64))
	if got := storedFiles(t, app.Config.UploadDir); len(got) != 3 {
		t.Fatalf("stored %d files, want 3", len(got))
	}
	oldFiles := storedFiles(t, app.Config.UploadDir)

	rec = doJSON(app, http.MethodGet, fmt.Sprintf("/api/community-images/%d", id), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var post GalleryPost
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if post.Title != "Beach day" || len(post.Images) != 3 {
		t.Errorf("post = %+v, want title Beach day with 3 images", post)
	}
	for _, name := range post.Images {
		if !strings.HasPrefix(name, "community-") {
			t.Errorf("image name %q lacks community- prefix", name)
		}
	}

	// Replacing the image set drops the old files once the row is updated.
	rec = doMultipart(t, app, http.MethodPut, fmt.Sprintf("/api/community-images/%d", id),
		map[string]string{"title": "Beach day, revised"},
		"images", map[string][]byte{
			"d.webp": []byte("ddd"),
			"e.jpeg": []byte("eee"),
		}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	now := storedFiles(t, app.Config.UploadDir)
	if len(now) != 2 {
		t.Fatalf("stored %d files after update, want 2", len(now))
	}
	for _, old := range oldFiles {
		for _, name := range now {
			if name == old {
				t.Errorf("old file %s survived the update", old)
			}
		}
	}

	// Metadata-only update keeps the image set.
	rec = doMultipart(t, app, http.MethodPut, fmt.Sprintf("/api/community-images/%d", id),
		map[string]string{"title": "Final title"}, "images", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("metadata update status = %d", rec.Code)
	}
	if got := storedFiles(t, app.Config.UploadDir); len(got) != 2 {
		t.Errorf("stored %d files after metadata update, want 2", len(got))
	}

	rec = doJSON(app, http.MethodDelete, fmt.Sprintf("/api/community-images/%d", id), "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if got := storedFiles(t, app.Config.UploadDir); len(got) != 0 {
		t.Errorf("stored files after delete = %v, want none", got)
	}
	rec = doJSON(app, http.MethodGet, fmt.Sprintf("/api/community-images/%d", id), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestGalleryPostRequiresTitle(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)
	rec := doMultipart(t, app, http.MethodPost, "/api/community-images",
		map[string]string{"title": "   "},
		"images", map[string][]byte{"a.jpg": []byte("aaa")}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Title is required" {
		t.Errorf("error = %v, want Title is required", body["error"])
	}
	if got := storedFiles(t, app.Config.UploadDir); len(got) != 0 {
		t.Errorf("stored files = %v, want none", got)
	}
}

func TestGalleryPostTooManyImages(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)
	files := make(map[string][]byte, 10)
	for i := 0; i < 10; i++ {
		files[fmt.Sprintf("img%d.jpg", i)] = []byte("x")
	}
	rec := doMultipart(t, app, http.MethodPost, "/api/community-images",
		map[string]string{"title": "Too many"}, "images", files, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "9") {
		t.Errorf("error = %v, want mention of the 9-image cap", body["error"])
	}
	if got := storedFiles(t, app.Config.UploadDir); len(got) != 0 {
		t.Errorf("stored files = %v, want none", got)
	}
}

func TestGalleryPostNotFound(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/api/community-images/999", "/api/community-images/abc"} {
		rec := doJSON(app, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestTextPostVisibility(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)

	rec := doJSON(app, http.MethodPost, "/api/text-posts",
		`{"title":"Draft thoughts","content":"not ready","published":false}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("create draft status = %d, body %s", rec.Code, rec.Body.String())
	}
	draftID := int64(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(app, http.MethodPost, "/api/text-posts",
		`{"title":"Hello world","content":"live","published":true,"tags":["intro"]}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("create published status = %d", rec.Code)
	}

	// Drafts are indistinguishable from missing posts without a session.
	rec = doJSON(app, http.MethodGet, fmt.Sprintf("/api/text-posts/%d", draftID), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("anonymous draft get status = %d, want 404", rec.Code)
	}
	rec = doJSON(app, http.MethodGet, fmt.Sprintf("/api/text-posts/%d", draftID), "", cookies)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated draft get status = %d, want 200", rec.Code)
	}

	rec = doJSON(app, http.MethodGet, "/api/text-posts", "", nil)
	var anon []TextPost
	if err := json.Unmarshal(rec.Body.Bytes(), &anon); err != nil {
		t.Fatalf("decode anonymous list: %v", err)
	}
	if len(anon) != 1 || anon[0].Title != "Hello world" {
		t.Errorf("anonymous list = %+v, want only the published post", anon)
	}

	rec = doJSON(app, http.MethodGet, "/api/text-posts", "", cookies)
	var all []TextPost
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode admin list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin list has %d posts, want 2", len(all))
	}
}

func TestTextPostValidation(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)
	cases := []struct {
		body, wantErr string
	}{
		{`{"content":"no title"}`, "Title is required"},
		{`{"title":"   ","content":"blank title"}`, "Title is required"},
		{`{"title":"t"}`, "Content is required"},
		{`{"title":"t","content":"c","tags":"not-a-list"}`, "Tags must be a list of strings"},
	}
	for _, tc := range cases {
		rec := doJSON(app, http.MethodPost, "/api/text-posts", tc.body, cookies)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", tc.body, rec.Code)
			continue
		}
		if body := decodeBody(t, rec); body["error"] != tc.wantErr {
			t.Errorf("body %s: error = %v, want %s", tc.body, body["error"], tc.wantErr)
		}
	}
}

func TestTextPostUpdateAndDelete(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)

	rec := doJSON(app, http.MethodPost, "/api/text-posts",
		`{"title":"First","content":"v1","published":true}`, cookies)
	id := int64(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(app, http.MethodPut, fmt.Sprintf("/api/text-posts/%d", id),
		`{"title":"First, revised","content":"v2","published":true}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(app, http.MethodGet, fmt.Sprintf("/api/text-posts/%d", id), "", nil)
	var post TextPost
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if post.Title != "First, revised" || post.Content != "v2" {
		t.Errorf("post after update = %+v", post)
	}

	rec = doJSON(app, http.MethodPut, "/api/text-posts/999",
		`{"title":"x","content":"y"}`, cookies)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing post status = %d, want 404", rec.Code)
	}

	rec = doJSON(app, http.MethodDelete, fmt.Sprintf("/api/text-posts/%d", id), "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(app, http.MethodGet, fmt.Sprintf("/api/text-posts/%d", id), "", cookies)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
	rec = doJSON(app, http.MethodDelete, fmt.Sprintf("/api/text-posts/%d", id), "", cookies)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", rec.Code)
	}
}

func TestRobotsAndFeed(t *testing.T) {
	app := newTestApp(t)
	cookies := login(t, app)
	doJSON(app, http.MethodPost, "/api/text-posts",
		`{"title":"Feed item","content":"body","published":true}`, cookies)

	rec := doJSON(app, http.MethodGet, "/robots.txt", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Sitemap:") {
		t.Errorf("robots.txt status %d body %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(app, http.MethodGet, "/feed.xml", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Feed item") {
		t.Errorf("feed.xml status %d, want published post in feed", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<description>Notes and images</description>") {
		t.Error("feed.xml is missing the channel description")
	}

	rec = doJSON(app, http.MethodGet, "/sitemap.xml", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/posts/") {
		t.Errorf("sitemap.xml status %d, want post URL present", rec.Code)
	}
}
