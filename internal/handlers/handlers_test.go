// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Bean-Machinie/beanmachine/internal/handlers"
	appmw "github.com/Bean-Machinie/beanmachine/internal/middleware"
	"github.com/Bean-Machinie/beanmachine/internal/repository"
	authsvc "github.com/Bean-Machinie/beanmachine/internal/services/auth"
	projectsvc "github.com/Bean-Machinie/beanmachine/internal/services/project"
	"github.com/Bean-Machinie/beanmachine/internal/services/session"
	"github.com/Bean-Machinie/beanmachine/internal/testutil"
)

// testApp bundles a fully routed Echo instance around a test database,
// mirroring the production wiring.
type testApp struct {
	e        *echo.Echo
	repo     *repository.Repository
	mailer   *testutil.MailRecorder
	sessions *session.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	_, repo := testutil.NewTestDB(t)
	mailer := &testutil.MailRecorder{}
	sessions := testutil.NewSessionManager(t)

	authService := authsvc.NewService(repo, mailer)
	projectService := projectsvc.NewService(repo)

	authHandlers := handlers.NewAuth(authService, sessions)
	profileHandlers := handlers.NewProfile(repo)
	projectHandlers := handlers.NewProjects(projectService)

	e := echo.New()
	e.Use(appmw.LoadUser(sessions, repo))

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandlers.Register)
	authGroup.POST("/verify", authHandlers.Verify)
	authGroup.POST("/login", authHandlers.Login)
	authGroup.POST("/logout", authHandlers.Logout)
	authGroup.GET("/me", authHandlers.Me, appmw.RequireAuth)

	profile := api.Group("/profile", appmw.RequireAuth)
	profile.GET("", profileHandlers.Get)
	profile.PATCH("", profileHandlers.Update)

	projects := api.Group("/projects", appmw.RequireAuth)
	projects.GET("", projectHandlers.List)
	projects.POST("", projectHandlers.Create)
	projects.PATCH("/:id", projectHandlers.Update)
	projects.POST("/:id/items", projectHandlers.AddItem)
	projects.POST("/:id/assets", projectHandlers.AddAssets)
	projects.DELETE("/:id/assets", projectHandlers.RemoveAssets)

	return &testApp{e: e, repo: repo, mailer: mailer, sessions: sessions}
}

// do performs a request against the app, optionally with a session
// cookie, and returns the response.
func (app *testApp) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)
	return rec
}

// register creates and verifies an account and returns its session
// cookie from a login.
func (app *testApp) register(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	rec := app.do(t, http.MethodPost, "/api/auth/register", `{"email":"`+email+`","password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/api/auth/verify", `{"token":"`+app.mailer.LastToken(t)+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return sessionCookie(t, rec)
}

// sessionCookie extracts the session cookie from a response.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == "_test_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// decode unmarshals a JSON response body.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
