package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/planloom/minutes/pkg/module"
	"github.com/planloom/minutes/pkg/routes"
)

func testModule(t *testing.T, prefix string) *module.Module {
	t.Helper()

	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/ping", Handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(prefix))
			}},
		},
	})
	return module.New(prefix, mux)
}

func TestRouterDispatchesByPrefix(t *testing.T) {
	router := module.NewRouter()
	router.Mount(testModule(t, "/api"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if rec.Body.String() != "/api" {
		t.Errorf("body: got %q, want /api", rec.Body.String())
	}
}

func TestRouterFallsBackToNative(t *testing.T) {
	router := module.NewRouter()
	router.Mount(testModule(t, "/api"))
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("native route status: got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown route status: got %d, want 404", rec.Code)
	}
}

func TestModulePrefixValidation(t *testing.T) {
	for _, prefix := range []string{"", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("prefix %q must panic", prefix)
				}
			}()
			module.New(prefix, http.NewServeMux())
		})
	}
}

func TestRouterNormalizesTrailingSlash(t *testing.T) {
	router := module.NewRouter()
	router.Mount(testModule(t, "/api"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
}
