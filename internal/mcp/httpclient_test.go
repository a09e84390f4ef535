package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/coachplan/internal/models"
	"github.com/claude/coachplan/internal/storage"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths, query params and key.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "k" {
			t.Errorf("X-API-Key = %q, want k", got)
		}
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestListPlans verifies the client filter is passed through and the list is parsed.
func TestListPlans(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/plans": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("client_id"); got != "c1" {
				t.Errorf("client_id=%q, want c1", got)
			}
			writeTestJSON(t, w, []models.PlanSummary{{ID: "p1", Title: "Spring Block", DurationWeeks: 4}})
		},
	})
	defer ts.Close()

	plans, err := NewHTTPClient(ts.URL, "k").ListPlans(context.Background(), "c1")
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 || plans[0].Title != "Spring Block" {
		t.Errorf("plans = %+v", plans)
	}
}

// TestGetPlanRoundTrip verifies the full plan document survives the REST hop,
// including inherited and explicit progression fields.
func TestGetPlanRoundTrip(t *testing.T) {
	p := samplePlan()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/plans/" + p.ID.String(): func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, p)
		},
	})
	defer ts.Close()

	got, err := NewHTTPClient(ts.URL, "k").GetPlan(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	wp := got.Sessions[0].Sections[1].Rows[0].WeeklyProgression[0]
	if v, ok := wp.LoadKg.Get(); !ok || v != 105 {
		t.Errorf("week 2 load = %v, %v", v, ok)
	}
	if wp.Reps.IsSet() {
		t.Error("inherited reps came back set")
	}
}

// TestGetPlanNotFound verifies a 404 maps to storage.ErrNotFound.
func TestGetPlanNotFound(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/plans/" + id.String(): func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "k").GetPlan(context.Background(), id)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestToolNames verifies the tool listing is turned into an id to name map.
func TestToolNames(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/tools": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.Tool{{ID: "t1", Name: "Barbell"}, {ID: "t2", Name: "Kettlebell"}})
		},
	})
	defer ts.Close()

	names, err := NewHTTPClient(ts.URL, "k").ToolNames(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if names["t1"] != "Barbell" || names["t2"] != "Kettlebell" {
		t.Errorf("names = %v", names)
	}
}

// TestHTTPClientServerError verifies non-200 responses surface as errors.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database down"}`))
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "k").GetStats(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, storage.ErrNotFound) {
		t.Error("500 reported as not found")
	}
}

