package resumes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-service/internal/bootstrap"
	"resume-service/internal/resumes"
	"resume-service/internal/shared/config"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{
		Port:            "0",
		Env:             "dev",
		JWTSecret:       "test-secret",
		TokenTTL:        30 * time.Minute,
		CORSAllowOrigin: []string{"http://localhost:5173"},
		AIProvider:      "static",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func signup(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/users", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter2secret",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, resp.Code, resp.Body.String())
	}

	login := doJSON(t, router, http.MethodPost, "/api/v1/users/login", "", map[string]string{
		"username": username,
		"password": "hunter2secret",
	})
	if login.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, login.Code, login.Body.String())
	}
	var token struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(login.Body).Decode(&token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return token.AccessToken
}

func createResume(t *testing.T, router *gin.Engine, token, title, content string) string {
	t.Helper()
	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", token, map[string]string{
		"title":   title,
		"content": content,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create resume: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id in create response")
	}
	return created.ID
}

// The core authorization flow: two accounts, one resume, cross-account reads
// rejected with 403 while the owner sees 200.
func TestResumeOwnershipAcrossAccounts(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	aliceToken := signup(t, router, "alice")
	bobToken := signup(t, router, "bob")

	resumeID := createResume(t, router, aliceToken, "Backend Engineer", "Go, Postgres, Kafka")

	asBob := doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+resumeID, bobToken, nil)
	if asBob.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d: %s", asBob.Code, asBob.Body.String())
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(asBob.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "forbidden" {
		t.Fatalf("expected forbidden code, got %q", envelope.Error.Code)
	}

	asAlice := doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+resumeID, aliceToken, nil)
	if asAlice.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d: %s", asAlice.Code, asAlice.Body.String())
	}
	var resume struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(asAlice.Body).Decode(&resume); err != nil {
		t.Fatalf("decode resume: %v", err)
	}
	if resume.Title != "Backend Engineer" || resume.Content != "Go, Postgres, Kafka" {
		t.Fatalf("unexpected resume: %+v", resume)
	}
}

func TestResumesRequireToken(t *testing.T) {
	app := buildApp(t)

	resp := doJSON(t, app.Router, http.MethodGet, "/api/v1/resumes", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListReturnsOnlyOwnResumes(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	aliceToken := signup(t, router, "alice")
	bobToken := signup(t, router, "bob")

	createResume(t, router, aliceToken, "Alice One", "a")
	createResume(t, router, aliceToken, "Alice Two", "b")
	createResume(t, router, bobToken, "Bob One", "c")

	resp := doJSON(t, router, http.MethodGet, "/api/v1/resumes", aliceToken, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var list []struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 resumes, got %d", len(list))
	}
	for _, item := range list {
		if item.Title == "Bob One" {
			t.Fatalf("another user's resume leaked into the list")
		}
	}
}

func TestUpdateResumePartial(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	token := signup(t, router, "alice")
	resumeID := createResume(t, router, token, "Backend Engineer", "original body")

	resp := doJSON(t, router, http.MethodPut, "/api/v1/resumes/"+resumeID, token, map[string]string{
		"title": "Senior Backend Engineer",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var updated struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.Title != "Senior Backend Engineer" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	if updated.Content != "original body" {
		t.Fatalf("content changed on a title-only update: %q", updated.Content)
	}
}

func TestUpdateResumeNoFieldsUnprocessable(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	token := signup(t, router, "alice")
	resumeID := createResume(t, router, token, "Backend Engineer", "body")

	resp := doJSON(t, router, http.MethodPut, "/api/v1/resumes/"+resumeID, token, map[string]string{})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateOtherUsersResumeForbidden(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	aliceToken := signup(t, router, "alice")
	bobToken := signup(t, router, "bob")
	resumeID := createResume(t, router, aliceToken, "Backend Engineer", "body")

	resp := doJSON(t, router, http.MethodPut, "/api/v1/resumes/"+resumeID, bobToken, map[string]string{
		"title": "Hijacked",
	})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestImproveAppendsMarkerAndRecordsHistory(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	token := signup(t, router, "alice")
	resumeID := createResume(t, router, token, "Backend Engineer", "original body")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+resumeID+"/improve", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var improved struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&improved); err != nil {
		t.Fatalf("decode improve response: %v", err)
	}
	if improved.Content != "original body [Improved]" {
		t.Fatalf("unexpected improved content: %q", improved.Content)
	}

	memRepo, ok := app.ResumesRepo.(*resumes.MemoryRepo)
	if !ok {
		t.Fatalf("expected memory repo in test bootstrap")
	}
	history := memRepo.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(history))
	}
	if history[0].ResumeID != resumeID || history[0].OriginalContent != "original body" {
		t.Fatalf("unexpected history entry: %+v", history[0])
	}
	if history[0].ImprovedContent != "original body [Improved]" {
		t.Fatalf("unexpected improved content in history: %q", history[0].ImprovedContent)
	}
}

func TestImproveWithoutContentNotFound(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	token := signup(t, router, "alice")
	resumeID := createResume(t, router, token, "Backend Engineer", "")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+resumeID+"/improve", token, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDeleteResumeThenGone(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	token := signup(t, router, "alice")
	resumeID := createResume(t, router, token, "Backend Engineer", "body")

	resp := doJSON(t, router, http.MethodDelete, "/api/v1/resumes/"+resumeID, token, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.Code, resp.Body.String())
	}

	gone := doJSON(t, router, http.MethodGet, "/api/v1/resumes/"+resumeID, token, nil)
	if gone.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d: %s", gone.Code, gone.Body.String())
	}
}

func TestDeleteMissingResumeNotFound(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	token := signup(t, router, "alice")

	resp := doJSON(t, router, http.MethodDelete, "/api/v1/resumes/no-such-id", token, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDeletingAccountPurgesResumes(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	token := signup(t, router, "alice")
	createResume(t, router, token, "Backend Engineer", "body")

	me := doJSON(t, router, http.MethodGet, "/api/v1/users", "", nil)
	var list []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(me.Body).Decode(&list); err != nil {
		t.Fatalf("decode users list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 user, got %d", len(list))
	}

	resp := doJSON(t, router, http.MethodDelete, "/api/v1/users/"+list[0].ID, token, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.Code, resp.Body.String())
	}

	remaining, err := app.ResumesRepo.ListByOwner(context.Background(), list[0].ID, 100, 0)
	if err != nil {
		t.Fatalf("list remaining resumes: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no resumes after account deletion, got %d", len(remaining))
	}
}

func TestCreateResumeRejectsBlankTitle(t *testing.T) {
	app := buildApp(t)
	router := app.Router

	token := signup(t, router, "alice")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", token, map[string]string{
		"title": "   ",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}
