package dcim

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracore/projection"
)

// fakeDCIM is a minimal in-memory stand-in for the NetBox-shaped API,
// keyed by collection + natural-key field, used to assert Scenario G:
// the same effect applied twice must not duplicate a resource.
type fakeDCIM struct {
	mu         sync.Mutex
	nextID     int
	byPath     map[string][]map[string]any
	createHits int
}

func newFakeDCIM() *fakeDCIM {
	return &fakeDCIM{byPath: map[string][]map[string]any{}}
}

func (f *fakeDCIM) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		path := r.URL.Path
		switch r.Method {
		case http.MethodGet:
			var matches []map[string]any
			for _, obj := range f.byPath[path] {
				if matchesQuery(obj, r.URL.Query()) {
					matches = append(matches, obj)
				}
			}
			writeJSON(w, map[string]any{"count": len(matches), "results": matches})

		case http.MethodPost:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.nextID++
			body["id"] = float64(f.nextID)
			f.byPath[path] = append(f.byPath[path], body)
			f.createHits++
			writeJSON(w, body)

		case http.MethodPatch:
			writeJSON(w, map[string]any{"id": 1})

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

func matchesQuery(obj map[string]any, query map[string][]string) bool {
	for field, values := range query {
		if len(values) == 0 {
			continue
		}
		v, ok := obj[field]
		if !ok {
			return false
		}
		if stringOf(v) != values[0] {
			return false
		}
	}
	return true
}

func stringOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestExecutor_CreateDevice_IsIdempotent(t *testing.T) {
	fake := newFakeDCIM()
	srv := fake.server()
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", nil)
	executor := NewExecutor(client, "dc1")

	effect := projection.DatabaseWrite("devices", map[string]any{
		"name":        "db-01.example.com",
		"device_role": "physical_server",
		"status":      "active",
		"custom_fields": map[string]any{
			"cim_aggregate_id": "01J00000000000000000000000",
		},
	})

	ctx := context.Background()
	require.NoError(t, executor.Execute(ctx, []projection.Effect{effect}))
	require.NoError(t, executor.Execute(ctx, []projection.Effect{effect}))

	assert.Len(t, fake.byPath["/api/dcim/devices/"], 1, "replaying the same effect must not duplicate the device")
}

func TestExecutor_Execute_IgnoresUnmappedEffects(t *testing.T) {
	fake := newFakeDCIM()
	srv := fake.server()
	defer srv.Close()

	executor := NewExecutor(NewClient(srv.URL, "test-token", nil), "dc1")

	err := executor.Execute(context.Background(), []projection.Effect{
		projection.LogEffect("info", "noop"),
	})
	assert.NoError(t, err)
	assert.Zero(t, fake.createHits)
}
