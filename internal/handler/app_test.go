package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/topic-distribution-admin/internal/repository"
	"github.com/noah-isme/topic-distribution-admin/internal/screen"
	"github.com/noah-isme/topic-distribution-admin/internal/service"
	"github.com/noah-isme/topic-distribution-admin/pkg/apiclient"
	"github.com/noah-isme/topic-distribution-admin/pkg/middleware/requestid"
)

const testCookie = "user"

type remoteCall struct {
	Method string
	Path   string
	Body   string
}

// remoteAPI is a canned topic-distribution API.
type remoteAPI struct {
	t      *testing.T
	mu     sync.Mutex
	routes map[string]func(body string) (int, string)
	calls  []remoteCall
}

func newRemoteAPI(t *testing.T) *remoteAPI {
	r := &remoteAPI{t: t, routes: map[string]func(string) (int, string){}}
	r.on("POST /auth/login", func(body string) (int, string) {
		if strings.Contains(body, `"password":"secret"`) {
			return http.StatusOK, `{"user":{"id":1,"login":"admin","full_name":"Админ Админович","role":"teacher"}}`
		}
		return http.StatusUnauthorized, `{"message":"Неверный логин или пароль"}`
	})
	r.on("POST /auth/register", func(string) (int, string) {
		return http.StatusCreated, `{"message":"Пользователь зарегистрирован"}`
	})
	r.static("GET /user/distributions", http.StatusOK, `[
		{"id":1,"discipline":"Математика","group_name":"ИВТ-21","teacher_id":1,"type":"coursework","deadline":"2025-01-02T00:00:00.000Z","status":"active"}
	]`)
	r.static("GET /user/teachers", http.StatusOK, `[{"id":1,"name":"Иванов И.И."},{"id":2,"name":"Петров П.П."}]`)
	r.static("GET /user/listthemes", http.StatusOK, `[{"id":3,"title":"Компиляторы","type":"bachelor","source":"teacher","status":"available"}]`)
	r.static("GET /user/get_students", http.StatusOK, `{"students":[{"user_id":7,"login":"s7","full_name":"Сидоров","group_name":"ИВТ-21"}]}`)
	r.static("PATCH /user/distributions/1/status", http.StatusOK, `{}`)
	r.static("POST /user/distributions", http.StatusCreated, `{"id":2,"discipline":"Химия","group_name":"Х-1","teacher_id":2,"type":"coursework","deadline":"2025-03-01T00:00:00.000Z","status":"active"}`)
	return r
}

func (r *remoteAPI) on(route string, fn func(body string) (int, string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[route] = fn
}

func (r *remoteAPI) static(route string, status int, body string) {
	r.on(route, func(string) (int, string) { return status, body })
}

func (r *remoteAPI) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	raw, _ := io.ReadAll(req.Body)
	route := req.Method + " " + req.URL.Path

	r.mu.Lock()
	r.calls = append(r.calls, remoteCall{Method: req.Method, Path: req.URL.Path, Body: string(raw)})
	fn, ok := r.routes[route]
	r.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
		return
	}
	status, body := fn(string(raw))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (r *remoteAPI) callsTo(method, path string) []remoteCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []remoteCall
	for _, c := range r.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

type testApp struct {
	router   *gin.Engine
	remote   *remoteAPI
	registry *screen.Registry
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	remote := newRemoteAPI(t)
	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)

	metrics := service.NewMetricsService()
	api := apiclient.New(server.URL, 5*time.Second, metrics, nil)
	cacheSvc := service.NewCacheService(repository.NewMemoryCacheRepository(), metrics, time.Minute, nil, true)
	validate := service.NewValidator()

	teachers := service.NewTeacherService(repository.NewTeacherRepository(api), cacheSvc, validate, nil)
	students := service.NewStudentService(repository.NewStudentRepository(api), cacheSvc, validate, nil)
	topics := service.NewTopicService(repository.NewTopicRepository(api), cacheSvc, validate, nil)
	distributions := service.NewDistributionService(repository.NewDistributionRepository(api), teachers, topics, validate, metrics, nil)
	auth := service.NewAuthService(repository.NewAuthRepository(api), validate, nil, service.AuthConfig{SessionSecret: "test-secret", SessionTTL: time.Hour})

	registry := screen.NewRegistry(context.Background(), screen.Deps{
		Distributions: distributions,
		Students:      students,
		Teachers:      teachers,
		Topics:        topics,
		Dashboard:     service.NewDashboardService(topics, students, teachers, nil),
		Metrics:       metrics,
	})
	t.Cleanup(registry.Shutdown)

	workspace := NewWorkspaceHandler(registry, service.NewExportService(distributions, nil, nil, true, nil))
	r := gin.New()
	r.Use(requestid.Middleware())
	RegisterRoutes(r, Router{
		APIPrefix:  "/api/v1",
		CookieName: testCookie,
		Sessions:   auth,
		Auth:       NewAuthHandler(auth, registry, CookieConfig{Name: testCookie}),
		Workspace:  workspace,
		Pages:      NewPageHandler(workspace, "/api/v1"),
		Metrics:    NewMetricsHandler(metrics, nil),
		Exports:    true,
	})
	return &testApp{router: r, remote: remote, registry: registry}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

func (a *testApp) do(t *testing.T, method, path, body string, cookie *http.Cookie, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/login", `{"login":"admin","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}
