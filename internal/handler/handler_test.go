package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/printmate/printmate/internal/ctxkeys"
	"github.com/printmate/printmate/internal/db/dbtest"
	"github.com/printmate/printmate/internal/media"
	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/printer"
	"github.com/printmate/printmate/internal/repository"
	"github.com/printmate/printmate/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "Sup3r!secret"

type fakeDispatcher struct {
	got string
	err error
}

func (d *fakeDispatcher) Submit(ctx context.Context, fileURL string) (*model.PrintAck, error) {
	d.got = fileURL
	if d.err != nil {
		return nil, d.err
	}
	return &model.PrintAck{Message: "queued"}, nil
}

type fixture struct {
	db         *sqlx.DB
	user       *model.User
	files      repository.FileRepository
	auth       *service.AuthService
	fileSvc    *service.FileService
	dispatcher *fakeDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := dbtest.New(t)
	users := repository.NewUserRepository(database)
	files := repository.NewFileRepository(database)

	auth := service.NewAuthService(users, "test-secret", false, time.Hour, 16, time.Minute)
	user, err := auth.Register(context.Background(), service.RegisterInput{
		Email:     "ada@example.com",
		Phone:     "5551234567",
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Password:  testPassword,
	})
	require.NoError(t, err)

	return &fixture{
		db:         database,
		user:       user,
		files:      files,
		auth:       auth,
		fileSvc:    service.NewFileService(files, media.NewCloudinaryHost("demo"), 2, 10),
		dispatcher: &fakeDispatcher{},
	}
}

func (f *fixture) seedFiles(t *testing.T, n int) []*model.File {
	t.Helper()

	base := time.Date(2025, time.December, 10, 12, 0, 0, 0, time.UTC)
	var out []*model.File
	for i := range n {
		file := &model.File{
			ID:           fmt.Sprintf("file-%02d", i),
			OwnerID:      f.user.ID,
			Name:         fmt.Sprintf("scan-%02d.pdf", i),
			PublicID:     fmt.Sprintf("uploads/scan-%02d", i),
			Type:         model.FileTypePDF,
			SizeBytes:    2048,
			UploadedAt:   base.Add(-time.Duration(i) * time.Hour),
			URL:          fmt.Sprintf("https://cdn.example.com/scan-%02d.pdf", i),
			Format:       "pdf",
			ResourceType: "image",
		}
		require.NoError(t, f.files.Create(context.Background(), file))
		out = append(out, file)
	}
	return out
}

func withIdentity(r *http.Request, u *model.User) *http.Request {
	return r.WithContext(ctxkeys.WithIdentity(r.Context(), u.Identity()))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	h := NewAuthHandler(f.auth)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
		wantErrs   []string
	}{
		{"missing fields", `{"identifier":"","password":""}`, http.StatusBadRequest, "Validation failed", []string{"identifier", "password"}},
		{"bad identifier", `{"identifier":"not-an-id","password":"x"}`, http.StatusBadRequest, "Validation failed", []string{"identifier"}},
		{"malformed body", `{`, http.StatusBadRequest, "Invalid request body", nil},
		{"unknown email", `{"identifier":"nobody@example.com","password":"x"}`, http.StatusUnauthorized, "No account found with this email or phone number", nil},
		{"wrong password", `{"identifier":"ada@example.com","password":"wrong"}`, http.StatusUnauthorized, "Incorrect password", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp authResponse
			decodeBody(t, rec, &resp)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMsg, resp.Message)
			for _, field := range tt.wantErrs {
				assert.Contains(t, resp.Errors, field)
			}
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t)
	h := NewAuthHandler(f.auth)

	for _, identifier := range []string{"ADA@example.com", "5551234567"} {
		t.Run(identifier, func(t *testing.T) {
			body := fmt.Sprintf(`{"identifier":%q,"password":%q}`, identifier, testPassword)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			var resp authResponse
			decodeBody(t, rec, &resp)
			assert.True(t, resp.Success)
			require.NotNil(t, resp.Data)
			assert.Equal(t, f.user.ID, resp.Data.User.ID)
			assert.Equal(t, "ada@example.com", resp.Data.User.Email)

			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, service.AuthCookieName, cookies[0].Name)
			assert.True(t, cookies[0].HttpOnly)

			userID, err := f.auth.VerifyJWT(cookies[0].Value)
			require.NoError(t, err)
			assert.Equal(t, f.user.ID, userID)
		})
	}
}

func TestLogoutAndMe(t *testing.T) {
	f := newFixture(t)
	h := NewAuthHandler(f.auth)

	rec := httptest.NewRecorder()
	h.Me(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), f.user))
	require.Equal(t, http.StatusOK, rec.Code)
	var me authResponse
	decodeBody(t, rec, &me)
	assert.Equal(t, "Ada", me.Data.User.Firstname)

	rec = httptest.NewRecorder()
	h.Logout(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), f.user))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRecentFiles(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedFiles(t, 3)
	h := NewFileHandler(f.fileSvc)

	get := func(query string) *httptest.ResponseRecorder {
		req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/files/recent?"+query, nil), f.user)
		rec := httptest.NewRecorder()
		h.Recent(rec, req)
		return rec
	}

	rec := get("userId=" + f.user.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var first model.Page
	decodeBody(t, rec, &first)
	require.Len(t, first.Files, 2)
	assert.Equal(t, seeded[0].ID, first.Files[0].ID)
	assert.Equal(t, seeded[1].ID, first.Files[1].ID)
	assert.True(t, first.HasMore)
	assert.Equal(t, 3, first.Total)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, "2 KB", first.Files[0].Size)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/c_fill,h_300,w_300/uploads/scan-00", first.Files[0].ThumbnailURL)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/uploads/scan-00", first.Files[0].PreviewURL)

	rec = get("userId=" + f.user.ID + "&cursor=" + *first.NextCursor)
	require.Equal(t, http.StatusOK, rec.Code)
	var second model.Page
	decodeBody(t, rec, &second)
	require.Len(t, second.Files, 1)
	assert.Equal(t, seeded[2].ID, second.Files[0].ID)
	assert.False(t, second.HasMore)
	assert.Nil(t, second.NextCursor)
	assert.Contains(t, rec.Body.String(), `"nextCursor":null`)
}

func TestRecentFilesEmpty(t *testing.T) {
	f := newFixture(t)
	h := NewFileHandler(f.fileSvc)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/files/recent?userId="+f.user.ID, nil), f.user)
	rec := httptest.NewRecorder()
	h.Recent(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"files":[],"nextCursor":null,"hasMore":false,"total":0}`, rec.Body.String())
}

func TestRecentFilesErrors(t *testing.T) {
	f := newFixture(t)
	h := NewFileHandler(f.fileSvc)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
	}{
		{"missing user", "", http.StatusBadRequest, "invalid_request"},
		{"other user", "userId=someone-else", http.StatusForbidden, "forbidden"},
		{"bad limit", "userId=" + f.user.ID + "&limit=ten", http.StatusBadRequest, "invalid_request"},
		{"bad cursor", "userId=" + f.user.ID + "&cursor=%21%21", http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/files/recent?"+tt.query, nil), f.user)
			rec := httptest.NewRecorder()
			h.Recent(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp errorResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRecentFilesStorageFailure(t *testing.T) {
	f := newFixture(t)
	h := NewFileHandler(f.fileSvc)
	require.NoError(t, f.db.Close())

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/files/recent?userId="+f.user.ID, nil), f.user)
	rec := httptest.NewRecorder()
	h.Recent(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp errorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "storage_unavailable", resp.Code)
}

func TestPrint(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedFiles(t, 1)

	tests := []struct {
		name       string
		body       string
		backendErr error
		wantStatus int
		wantMsg    string
		wantURL    string
	}{
		{"by url", `{"fileUrl":"https://cdn.example.com/a.pdf"}`, nil, http.StatusOK, service.PrintSuccessMessage, "https://cdn.example.com/a.pdf"},
		{"by id", `{"fileId":"` + seeded[0].ID + `"}`, nil, http.StatusOK, service.PrintSuccessMessage, seeded[0].URL},
		{"unknown id", `{"fileId":"missing"}`, nil, http.StatusNotFound, "File not found", ""},
		{"empty url", `{"fileUrl":""}`, nil, http.StatusBadRequest, "A valid file URL is required", ""},
		{"bad scheme", `{"fileUrl":"ftp://host/a.pdf"}`, nil, http.StatusBadRequest, "A valid file URL is required", ""},
		{"malformed body", `nope`, nil, http.StatusBadRequest, "Invalid request body", ""},
		{"backend rejects", `{"fileUrl":"https://cdn.example.com/a.pdf"}`, &printer.BackendError{Status: http.StatusUnauthorized, Message: "Unauthorized"}, http.StatusUnauthorized, "Unauthorized", "https://cdn.example.com/a.pdf"},
		{"backend down", `{"fileUrl":"https://cdn.example.com/a.pdf"}`, printer.ErrUnavailable, http.StatusBadGateway, printFailedMessage, "https://cdn.example.com/a.pdf"},
		{"backend not json", `{"fileUrl":"https://cdn.example.com/a.pdf"}`, printer.ErrNotJSON, http.StatusBadGateway, printFailedMessage, "https://cdn.example.com/a.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &fakeDispatcher{err: tt.backendErr}
			h := NewPrintHandler(service.NewPrintService(dispatcher, f.fileSvc))

			req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/print", bytes.NewBufferString(tt.body)), f.user)
			rec := httptest.NewRecorder()
			h.Submit(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp struct {
				Message string `json:"message"`
			}
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Equal(t, tt.wantURL, dispatcher.got)
		})
	}
}

func TestHelp(t *testing.T) {
	helpService, err := service.NewHelpService()
	require.NoError(t, err)
	h := NewHelpHandler(helpService)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/help", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Pages []*model.HelpPage `json:"pages"`
	}
	decodeBody(t, rec, &list)
	require.NotEmpty(t, list.Pages)
	assert.Equal(t, "getting-started", list.Pages[0].Slug)
	assert.Empty(t, list.Pages[0].HTMLContent)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/help/{slug}", h.Show)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/help/printing", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var page model.HelpPage
	decodeBody(t, rec, &page)
	assert.Equal(t, "printing", page.Slug)
	assert.Contains(t, page.HTMLContent, "<ol>")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/help/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	h := NewHealthHandler(service.NewHealthService(f.db), "PrintMate")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"service":"PrintMate","status":"ok","code":200,"message":"PrintMate API is running"}`, rec.Body.String())

	require.NoError(t, f.db.Close())
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp healthResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "unavailable", resp.Status)
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not found","code":"not_found"}`, rec.Body.String())
}
