package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"lostfound/internal/common/enum"
	"lostfound/internal/handler/page"
	uploadHandler "lostfound/internal/handler/upload"
	database "lostfound/internal/pkg/db"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/middleware"
	"lostfound/internal/pkg/redis"
	"lostfound/internal/service/account"
	"lostfound/internal/service/account/model"
	"lostfound/internal/service/item"
	itemModel "lostfound/internal/service/item/model"
	"lostfound/internal/service/migrate"
	"lostfound/internal/service/notification"
	"lostfound/internal/service/storage"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`\d{6}`)

type outbox struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (o *outbox) Notify(_ context.Context, n notification.Notification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, n)
	return nil
}

func (o *outbox) lastCode(t *testing.T, to string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].To == to {
			code := codePattern.FindString(o.sent[i].Body)
			require.NotEmpty(t, code)
			return code
		}
	}
	t.Fatalf("no notification sent to %s", to)
	return ""
}

type app struct {
	router   *gin.Engine
	accounts account.IService
	items    item.IService
	box      *outbox
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.SetupMemory()
	require.NoError(t, err)
	require.NoError(t, migrate.Run(db))
	t.Cleanup(func() { _ = db.Close() })

	rds := redis.NewMemory()
	opts := jwt.DefaultOptions("test-secret")
	opts.SaveMethod = jwt.REDIS
	auth := jwt.New(rds, opts)

	dir := t.TempDir()
	store, err := storage.NewLocal(dir, "/uploads")
	require.NoError(t, err)

	view, err := page.Load()
	require.NoError(t, err)

	box := &outbox{}
	accounts := account.NewService(db, account.NewCodeStore(rds, 15*time.Minute), box, auth)
	items := item.NewService(db, store, item.NoopEvents{})

	r := NewRouter(&Deps{
		Auth:      auth,
		Accounts:  accounts,
		Items:     items,
		Uploads:   uploadHandler.NewReportRegistry(items, time.Hour),
		View:      view,
		UploadDir: dir,
		UploadURL: "/uploads",
	})
	return &app{router: r, accounts: accounts, items: items, box: box}
}

// browser keeps cookies between requests the way a user agent would.
type browser struct {
	app     *app
	cookies map[string]*http.Cookie
}

func (a *app) browser() *browser {
	return &browser{app: a, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.app.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return b.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(t, req)
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 6))))
	return buf.Bytes()
}

type filePart struct {
	name    string
	content []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile("photos", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

const (
	testEmail    = "ada@example.com"
	testPassword = "analytical"
)

func (a *app) register(t *testing.T) *model.User {
	t.Helper()
	user, err := a.accounts.Register(context.Background(), &model.RegisterInput{
		Name:            "Ada Lovelace",
		CampusID:        "ab123",
		Email:           testEmail,
		Department:      "Mathematics",
		Phone:           "(555) 123-4567",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	return user
}

func (a *app) registerVerified(t *testing.T) *model.User {
	t.Helper()
	user := a.register(t)
	require.NoError(t, a.accounts.VerifyEmail(testEmail, a.box.lastCode(t, testEmail)))
	return user
}

func (b *browser) login(t *testing.T) {
	t.Helper()
	rec := b.post(t, "/login", url.Values{"identifier": {"AB123"}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, b.cookies, middleware.SessionCookieName)
}

type apiResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeAPI(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLoginPage_Panels(t *testing.T) {
	b := newApp(t).browser()

	doc := document(t, b.get(t, "/login"))
	_, loginHidden := doc.Find("#login-panel").Attr("hidden")
	_, signupHidden := doc.Find("#signup-panel").Attr("hidden")
	assert.False(t, loginHidden)
	assert.True(t, signupHidden)

	doc = document(t, b.get(t, "/login?panel=signup"))
	_, loginHidden = doc.Find("#login-panel").Attr("hidden")
	_, signupHidden = doc.Find("#signup-panel").Attr("hidden")
	assert.True(t, loginHidden)
	assert.False(t, signupHidden)

	rec := b.get(t, "/register")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?panel=signup", rec.Header().Get("Location"))
}

func TestRegister_InvalidFieldsRerender(t *testing.T) {
	b := newApp(t).browser()

	rec := b.post(t, "/register", url.Values{
		"name":             {"Ada"},
		"campus_id":        {"AB-1"},
		"email":            {"ada@@bad"},
		"phone":            {"555 0100"},
		"password":         {"short"},
		"confirm_password": {"short"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	doc := document(t, rec)
	_, signupHidden := doc.Find("#signup-panel").Attr("hidden")
	assert.False(t, signupHidden)
	assert.Equal(t, "Ada", doc.Find("#name").AttrOr("value", ""))
	assert.True(t, doc.Find("#name").HasClass("is-valid"))
	assert.True(t, doc.Find("#email").HasClass("is-invalid"))
	assert.True(t, doc.Find("#campus_id").HasClass("is-invalid"))
	assert.True(t, doc.Find("#password").HasClass("is-invalid"))
	assert.Empty(t, doc.Find("#password").AttrOr("value", ""))
	assert.Contains(t, doc.Find("#signup-panel .invalid-feedback").Text(), "Please enter a valid email address")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	b := newApp(t).browser()

	rec := b.post(t, "/register", url.Values{
		"name":             {"Ada Lovelace"},
		"campus_id":        {"AB123"},
		"email":            {testEmail},
		"phone":            {"555 0100"},
		"password":         {"analytical"},
		"confirm_password": {"different"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	doc := document(t, rec)
	assert.Contains(t, doc.Find(".alert-error").Text(), "Passwords do not match")
}

func TestRegister_SendsToVerification(t *testing.T) {
	a := newApp(t)
	b := a.browser()

	rec := b.post(t, "/register", url.Values{
		"name":             {"Ada Lovelace"},
		"campus_id":        {"ab123"},
		"email":            {testEmail},
		"phone":            {"555 0100"},
		"password":         {testPassword},
		"confirm_password": {testPassword},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/verify-email?email=ada%40example.com", rec.Header().Get("Location"))

	doc := document(t, b.get(t, rec.Header().Get("Location")))
	assert.Contains(t, doc.Find(".alert-success").Text(), "Registration successful")
	assert.Equal(t, testEmail, doc.Find("#email").AttrOr("value", ""))

	rec = b.post(t, "/verify-email", url.Values{"email": {testEmail}, "code": {"000000x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = b.post(t, "/verify-email", url.Values{"email": {testEmail}, "code": {a.box.lastCode(t, testEmail)}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLogin(t *testing.T) {
	a := newApp(t)
	a.register(t)
	b := a.browser()

	rec := b.post(t, "/login", url.Values{"identifier": {"AB123"}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/verify-email?email=ada%40example.com", rec.Header().Get("Location"))
	assert.NotContains(t, b.cookies, middleware.SessionCookieName)

	require.NoError(t, a.accounts.VerifyEmail(testEmail, a.box.lastCode(t, testEmail)))

	rec = b.post(t, "/login", url.Values{"identifier": {testEmail}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, document(t, rec).Find(".alert-error").Text(), "Invalid credentials")

	rec = b.post(t, "/login", url.Values{
		"identifier": {testEmail},
		"password":   {testPassword},
		"next":       {"//evil.example"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Contains(t, b.cookies, middleware.SessionCookieName)

	doc := document(t, b.get(t, "/dashboard"))
	assert.Equal(t, "Ada Lovelace", doc.Find(".nav-user .user-name").Text())
	assert.Equal(t, 3, doc.Find("button[data-action]").Length())
	assert.Equal(t, "/dashboard/actions/report-lost", doc.Find("button[data-action=report-lost]").Closest("form").AttrOr("action", ""))

	rec = b.get(t, "/logout")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotContains(t, b.cookies, middleware.SessionCookieName)
	doc = document(t, b.get(t, "/"))
	assert.Contains(t, doc.Find(".alert-success").Text(), "logged out")
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	b := newApp(t).browser()

	rec := b.get(t, "/report_lost")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Freport_lost", rec.Header().Get("Location"))

	doc := document(t, b.get(t, rec.Header().Get("Location")))
	assert.Equal(t, "/report_lost", doc.Find("input[name=next]").AttrOr("value", ""))
}

func TestDashboardActions(t *testing.T) {
	b := newApp(t).browser()

	rec := b.get(t, "/dashboard/actions/report-lost")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "report-lost-redirect.html", rec.Header().Get("Location"))

	rec = b.get(t, "/dashboard/actions/report-lost-redirect.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/report_lost", document(t, rec).Find("a#target").AttrOr("href", ""))

	rec = b.get(t, "/view-items-redirect.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/items", document(t, rec).Find("a#target").AttrOr("href", ""))

	rec = b.get(t, "/dashboard/actions/delete-everything")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, document(t, rec).Find(".error-message").Text(), "delete-everything")
}

func TestNavigationMenus(t *testing.T) {
	b := newApp(t).browser()

	doc := document(t, b.get(t, "/about"))
	assert.Equal(t, 3, doc.Find("li.dropdown").Length())
	assert.Zero(t, doc.Find("li.dropdown.open").Length())
	assert.Equal(t, "?menu=items", doc.Find("li[data-menu=items] > a.dropdown-toggle").AttrOr("href", ""))

	doc = document(t, b.get(t, "/about?menu=report"))
	open := doc.Find("li.dropdown.open")
	require.Equal(t, 1, open.Length())
	assert.Equal(t, "report", open.AttrOr("data-menu", ""))
	_, hidden := open.Find("ul.dropdown-menu").Attr("hidden")
	assert.False(t, hidden)
	_, hidden = doc.Find("li[data-menu=items] ul.dropdown-menu").Attr("hidden")
	assert.True(t, hidden)

	doc = document(t, b.get(t, "/about?menu=unknown"))
	assert.Zero(t, doc.Find("li.dropdown.open").Length())
}

func TestReportFlow(t *testing.T) {
	a := newApp(t)
	a.registerVerified(t)
	b := a.browser()
	b.login(t)

	doc := document(t, b.get(t, "/report_found"))
	assert.Equal(t, "/report_found", doc.Find("form").AttrOr("action", ""))

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Blue umbrella",
		"description": "Left in the library",
	}, filePart{name: "umbrella.png", content: pngBytes(t)})
	req := httptest.NewRequest(http.MethodPost, "/report_found", body)
	req.Header.Set("Content-Type", contentType)
	rec := b.do(t, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	doc = document(t, rec)
	assert.True(t, doc.Find("#contact_phone").HasClass("is-invalid"))
	assert.Equal(t, "Blue umbrella", doc.Find("#title").AttrOr("value", ""))
	assert.Equal(t, "Left in the library", doc.Find("#description").Text())

	body, contentType = multipartBody(t, map[string]string{
		"title":         "Blue umbrella",
		"description":   "Left in the library",
		"contact_phone": "555 0100",
	}, filePart{name: "umbrella.png", content: pngBytes(t)})
	req = httptest.NewRequest(http.MethodPost, "/report_found", body)
	req.Header.Set("Content-Type", contentType)
	rec = b.do(t, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	doc = document(t, b.get(t, "/dashboard"))
	assert.Contains(t, doc.Find(".alert-success").Text(), "Found item reported successfully!")
	listed := doc.Find("li.item")
	require.Equal(t, 1, listed.Length())
	id := listed.AttrOr("data-id", "")
	require.NotEmpty(t, id)

	doc = document(t, b.get(t, "/item/"+id))
	assert.Equal(t, "Blue umbrella", doc.Find(".item-details h1").Text())
	assert.Equal(t, "555 0100", doc.Find(".contact").Text())
	assert.True(t, strings.HasPrefix(doc.Find("img.item-photo").AttrOr("src", ""), "/uploads/"))
	assert.Equal(t, 1, doc.Find("#resolve").Length())

	photo := b.get(t, doc.Find("img.item-photo").AttrOr("src", ""))
	assert.Equal(t, http.StatusOK, photo.Code)

	rec = b.post(t, "/item/"+id+"/resolve", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	doc = document(t, b.get(t, "/item/"+id))
	assert.Contains(t, doc.Find(".alert-success").Text(), "resolved")
	assert.Zero(t, doc.Find("#resolve").Length())
	assert.Equal(t, "resolved", doc.Find(".item-details .status").Text())

	anonymous := a.browser()
	doc = document(t, anonymous.get(t, "/item/"+id))
	assert.Zero(t, doc.Find(".contact").Length())
}

func TestReport_RejectsNonImage(t *testing.T) {
	a := newApp(t)
	a.registerVerified(t)
	b := a.browser()
	b.login(t)

	body, contentType := multipartBody(t, map[string]string{
		"title":         "Keys",
		"description":   "Ring with three keys",
		"contact_phone": "555 0100",
	}, filePart{name: "keys.txt", content: []byte("not a photo")})
	req := httptest.NewRequest(http.MethodPost, "/report_lost", body)
	req.Header.Set("Content-Type", contentType)
	rec := b.do(t, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, document(t, rec).Find(".alert-error").Text(), "Invalid file type")
}

func TestItemsPageAndSearch(t *testing.T) {
	a := newApp(t)
	user := a.registerVerified(t)
	reports := []struct {
		title    string
		itemType string
	}{
		{"Black wallet", "lost"},
		{"Student card", "found"},
		{"Red scarf", "lost"},
	}
	for _, r := range reports {
		_, err := a.items.Report(context.Background(), user.ID, itemInput(r.title, r.itemType), nil)
		require.NoError(t, err)
	}
	b := a.browser()

	doc := document(t, b.get(t, "/items"))
	assert.Equal(t, 3, doc.Find("li.item").Length())

	doc = document(t, b.get(t, "/items?type=lost"))
	assert.Equal(t, 2, doc.Find("li.item").Length())

	doc = document(t, b.get(t, "/items?limit=2"))
	assert.Equal(t, 2, doc.Find("li.item").Length())
	assert.Equal(t, "?limit=2&page=2", doc.Find("a[rel=next]").AttrOr("href", ""))

	doc = document(t, b.get(t, "/search?search=wallet"))
	require.Equal(t, 1, doc.Find("li.item").Length())
	assert.Equal(t, "Black wallet", doc.Find("li.item a").Text())

	doc = document(t, b.get(t, "/search?search=bicycle"))
	assert.Equal(t, 1, doc.Find("p.empty").Length())

	rec := b.get(t, "/item/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoRoute(t *testing.T) {
	b := newApp(t).browser()

	rec := b.get(t, "/api/nothing-here")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeAPI(t, rec).Message)

	rec = b.get(t, "/nothing-here")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404", document(t, rec).Find("main h1").Text())

	assert.Equal(t, http.StatusNoContent, b.get(t, "/favicon.ico").Code)
	assert.Equal(t, http.StatusOK, b.get(t, "/static/css/style.css").Code)
}

func itemInput(title, itemType string) *itemModel.ReportInput {
	return &itemModel.ReportInput{
		Title:        title,
		Description:  title + " reported in testing",
		ContactPhone: "555 0100",
		ItemType:     enum.ItemTypeEnum(itemType),
	}
}

func apiLogin(t *testing.T, b *browser) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"identifier":"`+testEmail+`","password":"`+testPassword+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := b.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.LoginResult
	require.NoError(t, json.Unmarshal(decodeAPI(t, rec).Data, &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func TestUploadAPI(t *testing.T) {
	a := newApp(t)
	a.registerVerified(t)
	b := a.browser()
	token := apiLogin(t, b)

	authed := func(req *http.Request) *http.Request {
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	rec := b.do(t, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body, contentType := multipartBody(t, nil,
		filePart{name: "bag.png", content: pngBytes(t)},
		filePart{name: "notes.txt", content: []byte("just text")},
	)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/uploads?wait=true", body))
	req.Header.Set("Content-Type", contentType)
	rec = b.do(t, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var state struct {
		Files []struct {
			ID string `json:"id"`
		} `json:"files"`
		Approved []string `json:"approved"`
		Previews []struct {
			Name  string `json:"name"`
			Width int    `json:"width"`
		} `json:"previews"`
		Skipped []string `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(decodeAPI(t, rec).Data, &state))
	require.Len(t, state.Files, 1)
	assert.Equal(t, []string{"notes.txt"}, state.Skipped)
	require.Len(t, state.Previews, 1)
	assert.Equal(t, "bag.png", state.Previews[0].Name)
	assert.Positive(t, state.Previews[0].Width)

	submit := func() *httptest.ResponseRecorder {
		req := authed(httptest.NewRequest(http.MethodPost, "/api/uploads/submit", strings.NewReader(
			`{"title":"Grey backpack","description":"Near the gym","contact_phone":"555 0100","item_type":"found"}`)))
		req.Header.Set("Content-Type", "application/json")
		return b.do(t, req)
	}

	rec = submit()
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please approve at least one photo", decodeAPI(t, rec).Message)

	rec = b.do(t, authed(httptest.NewRequest(http.MethodPost, "/api/uploads/unknown/approve", nil)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = b.do(t, authed(httptest.NewRequest(http.MethodPost, "/api/uploads/"+state.Files[0].ID+"/approve", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(decodeAPI(t, rec).Data, &state))
	assert.Equal(t, []string{state.Files[0].ID}, state.Approved)

	rec = submit()
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Found item reported successfully!", decodeAPI(t, rec).Message)

	found, err := a.items.Recent(10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Grey backpack", found[0].Title)

	rec = b.do(t, authed(httptest.NewRequest(http.MethodDelete, "/api/uploads", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
