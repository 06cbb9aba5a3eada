package adapthttp_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	adapthttp "eventfeed/internal/adapter/http"
	"eventfeed/internal/adapter/memory"
	"eventfeed/internal/app"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// newTestServer wires real services onto the in-memory adapter and returns a
// client with a cookie jar, so login cookies flow like a browser's.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client, *memory.MediaStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := memory.New()
	media := memory.NewMediaStore()
	log := zap.NewNop()

	pubSvc := app.NewPublicationService(db.Publications(), media, log)
	userSvc := app.NewUserService(db.Users(), db.Publications(), media, log)
	authSvc := app.NewAuthService(db.Users(), []byte("test-secret"), time.Hour, log)

	srv := adapthttp.New(pubSvc, userSvc, authSvc, adapthttp.SSOConfig{}, []string{"http://localhost:3000"}, log)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return ts, &http.Client{Jar: jar}, media
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func registerAndLogin(t *testing.T, client *http.Client, base, username, email string) {
	t.Helper()

	resp, body := doJSON(t, client, http.MethodPost, base+"/register", map[string]string{
		"username": username,
		"password": "secret123",
		"email":    email,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%v)", resp.StatusCode, body)
	}

	resp, body = doJSON(t, client, http.MethodPost, base+"/login", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%v)", resp.StatusCode, body)
	}
}

func createPublication(t *testing.T, client *http.Client, base string) string {
	t.Helper()

	resp, body := doJSON(t, client, http.MethodPost, base+"/publications", map[string]any{
		"titles":       "Concert",
		"descriptions": "Open air concert",
		"category":     "musical",
		"startDates":   "2026-09-01",
		"endDates":     "2026-09-02",
		"locations":    map[string]float64{"lat": 40.4, "long": -3.7},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	id, _ := body["publicationId"].(string)
	if id == "" {
		t.Fatalf("create: missing publicationId in %v", body)
	}
	return id
}

func TestRegisterLoginSession(t *testing.T) {
	ts, client, _ := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")

	resp, body := doJSON(t, client, http.MethodGet, ts.URL+"/session", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Errorf("expected session user alice, got %v", user)
	}
	if _, leaked := user["passwords"]; leaked {
		t.Error("password hash must never be serialized")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts, client, _ := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/register", map[string]string{
		"username": "bob",
		"password": "secret123",
		"email":    "alice@example.com",
	})
	if resp.StatusCode != http.StatusNotAcceptable {
		t.Errorf("expected 406, got %d", resp.StatusCode)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ts, client, _ := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/register", map[string]string{
		"username": "alice",
		"password": "secret123",
		"email":    "other@example.com",
	})
	if resp.StatusCode != http.StatusNotAcceptable {
		t.Errorf("expected 406, got %d", resp.StatusCode)
	}
}

func TestCreatePublication_RequiresAuth(t *testing.T) {
	ts, client, _ := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/publications", map[string]any{
		"titles": "Concert",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 without a token, got %d", resp.StatusCode)
	}
}

func TestEmptyFeedIsNotFound(t *testing.T) {
	ts, client, _ := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodGet, ts.URL+"/publications", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 on empty feed, got %d", resp.StatusCode)
	}
}

func TestPublicationLifecycle(t *testing.T) {
	ts, client, _ := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")
	id := createPublication(t, client, ts.URL)

	resp, body := doJSON(t, client, http.MethodGet, ts.URL+"/publications/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	if body["titles"] != "Concert" {
		t.Errorf("expected titles 'Concert', got %v", body["titles"])
	}
	medias, _ := body["medias"].(map[string]any)
	if photos, _ := medias["photos"].([]any); len(photos) != 0 {
		t.Errorf("expected no photos, got %v", photos)
	}

	resp, body = doJSON(t, client, http.MethodGet,
		ts.URL+"/publications/searched/for/category/musical", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("category search: expected 200, got %d", resp.StatusCode)
	}
	if found, _ := body["publicationsSearched"].([]any); len(found) != 1 {
		t.Errorf("expected 1 search result, got %v", body)
	}

	resp, _ = doJSON(t, client, http.MethodGet,
		ts.URL+"/publications/searched/for/category/charity", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("empty category: expected 404, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, client, http.MethodDelete, ts.URL+"/publications/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, client, http.MethodGet, ts.URL+"/publications/"+id, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestGetPublication_InvalidID(t *testing.T) {
	ts, client, _ := newTestServer(t)

	resp, _ := doJSON(t, client, http.MethodGet, ts.URL+"/publications/not-hex", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for an invalid id, got %d", resp.StatusCode)
	}
}

func TestUpdatePublication_KeepsAbsentFields(t *testing.T) {
	ts, client, _ := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")
	id := createPublication(t, client, ts.URL)

	resp, body := doJSON(t, client, http.MethodPut, ts.URL+"/publications/"+id, map[string]any{
		"title": "Festival",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%v)", resp.StatusCode, body)
	}

	pub, _ := body["publication"].(map[string]any)
	if pub["titles"] != "Festival" {
		t.Errorf("expected updated title, got %v", pub["titles"])
	}
	if pub["descriptions"] != "Open air concert" {
		t.Errorf("absent field must keep its value, got %v", pub["descriptions"])
	}
}

func TestToggleLikeParity(t *testing.T) {
	ts, client, _ := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")
	id := createPublication(t, client, ts.URL)

	resp, body := doJSON(t, client, http.MethodPatch, ts.URL+"/publications/"+id+"/like", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first toggle: expected 200, got %d", resp.StatusCode)
	}
	if body["liked"] != true || body["likesCount"] != float64(1) {
		t.Errorf("first toggle: expected liked=true count=1, got %v", body)
	}
	if msg, _ := body["message"].(string); msg == "" {
		t.Errorf("toggle response must carry a message, got %v", body)
	}

	resp, body = doJSON(t, client, http.MethodPatch, ts.URL+"/publications/"+id+"/like", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second toggle: expected 200, got %d", resp.StatusCode)
	}
	if body["liked"] != false || body["likesCount"] != float64(0) {
		t.Errorf("second toggle: expected liked=false count=0, got %v", body)
	}
}

func TestCreatePublication_Multipart(t *testing.T) {
	ts, client, media := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"titles":       "Charity run",
		"descriptions": "Annual charity run",
		"category":     "charity",
		"startDates":   "2026-10-01",
		"endDates":     "2026-10-01",
		"locations":    `{"lat":41.0,"long":-4.0}`,
	}
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="media"; filename="poster.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	fmt.Fprint(part, "not really a png")
	_ = w.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/publications", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%v)", resp.StatusCode, body)
	}

	id, _ := body["publicationId"].(string)
	resp, body = doJSON(t, client, http.MethodGet, ts.URL+"/publications/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", resp.StatusCode)
	}
	medias, _ := body["medias"].(map[string]any)
	photos, _ := medias["photos"].([]any)
	if len(photos) != 1 {
		t.Fatalf("expected 1 photo, got %v", medias)
	}
	if len(media.Objects()) != 1 {
		t.Errorf("expected 1 stored asset, got %v", media.Objects())
	}
}

func TestDeletePublication_RemovesAssets(t *testing.T) {
	ts, client, media := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("titles", "Concert")
	_ = w.WriteField("descriptions", "With media")
	_ = w.WriteField("category", "musical")
	_ = w.WriteField("startDates", "2026-09-01")
	_ = w.WriteField("endDates", "2026-09-02")
	_ = w.WriteField("locations", `{"lat":40.4,"long":-3.7}`)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="media"; filename="clip.mp4"`)
	h.Set("Content-Type", "video/mp4")
	part, _ := w.CreatePart(h)
	fmt.Fprint(part, "not really a video")
	_ = w.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/publications", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	id, _ := body["publicationId"].(string)

	if len(media.Objects()) != 1 {
		t.Fatalf("expected 1 stored asset before delete, got %v", media.Objects())
	}

	resp, _ = doJSON(t, client, http.MethodDelete, ts.URL+"/publications/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
	if len(media.Objects()) != 0 {
		t.Errorf("expected no stored assets after delete, got %v", media.Objects())
	}
}

func TestProfileShowsLikedPublications(t *testing.T) {
	ts, client, _ := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")
	id := createPublication(t, client, ts.URL)

	resp, _ := doJSON(t, client, http.MethodPatch, ts.URL+"/publications/"+id+"/like", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, client, http.MethodGet, ts.URL+"/profile", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", resp.StatusCode)
	}
	liked, _ := body["likedPublications"].([]any)
	if len(liked) != 1 {
		t.Fatalf("expected 1 liked publication, got %v", body)
	}
	first, _ := liked[0].(map[string]any)
	if first["liked"] != true {
		t.Errorf("liked publication must carry liked=true, got %v", first)
	}
}

func TestLoginCookieSecureOverTLS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := memory.New()
	media := memory.NewMediaStore()
	log := zap.NewNop()
	pubSvc := app.NewPublicationService(db.Publications(), media, log)
	userSvc := app.NewUserService(db.Users(), db.Publications(), media, log)
	authSvc := app.NewAuthService(db.Users(), []byte("test-secret"), time.Hour, log)
	srv := adapthttp.New(pubSvc, userSvc, authSvc, adapthttp.SSOConfig{}, []string{"http://localhost:3000"}, log)

	ts := httptest.NewTLSServer(srv.Router())
	t.Cleanup(ts.Close)
	client := ts.Client()

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/register", map[string]string{
		"username": "alice",
		"password": "secret123",
		"email":    "alice@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/login", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	var authCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "authToken" {
			authCookie = ck
		}
	}
	if authCookie == nil {
		t.Fatal("login must set the authToken cookie")
	}
	if !authCookie.Secure {
		t.Error("authToken cookie must be Secure over TLS")
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	ts, client, _ := newTestServer(t)

	registerAndLogin(t, client, ts.URL, "alice", "alice@example.com")

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, client, http.MethodGet, ts.URL+"/session", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("session after logout: expected 403, got %d", resp.StatusCode)
	}
}
