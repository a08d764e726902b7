package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/prefillgrid/internal/mapping"
	"github.com/specialistvlad/prefillgrid/internal/notify"
	"github.com/specialistvlad/prefillgrid/internal/prefill"
	"github.com/specialistvlad/prefillgrid/internal/session"
	"github.com/specialistvlad/prefillgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupServer loads the fixture blueprint and serves the API.
func setupServer(t *testing.T) (*App, *httptest.Server) {
	t.Helper()

	a, _, _ := setupApp(t, Config{Command: CommandServe})
	ctx, _ := testutil.Context(t)
	require.NoError(t, a.loadBlueprint(ctx))

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		a.session.Mappings().Close()
	})
	return a, srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestAPI_Health(t *testing.T) {
	_, srv := setupServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))
}

func TestAPI_BlueprintStatus(t *testing.T) {
	_, srv := setupServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/blueprint", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[map[string]any](t, body)
	assert.Equal(t, true, got["loaded"])
	assert.Equal(t, false, got["loading"])
	assert.Equal(t, "bp_onboarding", got["id"])
}

func TestAPI_Reload(t *testing.T) {
	a, srv := setupServer(t)
	before, err := a.session.SourcesFor("final")
	require.NoError(t, err)

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/blueprint/reload", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	after, err := a.session.SourcesFor("final")
	require.NoError(t, err)
	assert.Same(t, &before[0], &after[0], "identical document keeps the resolver")
}

func TestAPI_ClearError(t *testing.T) {
	a, _, _ := setupApp(t, Config{Command: CommandServe, BlueprintURL: t.TempDir() + "/missing.json"})
	ctx, _ := testutil.Context(t)
	require.Error(t, a.loadBlueprint(ctx))

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/blueprint", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[session.Status](t, body).Error)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/blueprint/error", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/blueprint", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[session.Status](t, body).Error)
}

func TestAPI_NodesAndEdges(t *testing.T) {
	_, srv := setupServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/blueprint/nodes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	nodes := decode[[]session.NodeView](t, body)
	require.Len(t, nodes, 5)
	assert.Equal(t, "customer", nodes[0].ID)
	assert.True(t, nodes[0].HasTargetConnection)
	assert.False(t, nodes[0].HasSourceConnection)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/blueprint/edges", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edges := decode[[]session.EdgeView](t, body)
	require.Len(t, edges, 5)
	assert.Equal(t, "final-review", edges[4].ID)
}

func TestAPI_Globals(t *testing.T) {
	_, srv := setupServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/globals", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[
		{"key":"test_data","type":"any","value":null},
		{"key":"test_data2","type":"any","value":null},
		{"key":"test_data3","type":"any","value":null}
	]`, string(body))
}

func TestAPI_Fields(t *testing.T) {
	_, srv := setupServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/nodes/final/fields", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"nodeId":"final","fields":["summary","approved"]}`, string(body))

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/nodes/ghost/fields", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Sources(t *testing.T) {
	_, srv := setupServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/nodes/address/sources", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[prefill.Grouped](t, body)
	want := prefill.Group([]prefill.DataSource{
		prefill.Global("test_data"),
		prefill.Global("test_data2"),
		prefill.Global("test_data3"),
		prefill.FormField("customer", "Customer Info Form", "name"),
		prefill.FormField("customer", "Customer Info Form", "email"),
		prefill.FormField("customer", "Customer Info Form", "phone"),
	})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grouped sources mismatch (-want +got):\n%s", diff)
	}
}

func TestAPI_Selection(t *testing.T) {
	_, srv := setupServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/selection", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	empty := decode[selectionResponse](t, body)
	assert.Empty(t, empty.NodeID)
	assert.Empty(t, empty.Sources.Groups)
	assert.Empty(t, empty.Available)

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/selection", `{"nodeId":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, http.MethodPut, srv.URL+"/api/selection", `{"nodeId":"b_form"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sel := decode[selectionResponse](t, body)
	assert.Equal(t, "b_form", sel.NodeID)
	assert.Equal(t, "f_customer", sel.FormID)
	require.Len(t, sel.Sources.Groups, 2)
	assert.Equal(t, "Customer Info Form", sel.Sources.Groups[1].ParentName)
	assert.Len(t, sel.Available, len(sel.Sources.LeafIDToSource))
	assert.Equal(t, prefill.Global("test_data"), sel.Available[0])

	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/selection", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/selection", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_MappingLifecycle(t *testing.T) {
	a, srv := setupServer(t)
	rec := &notify.Recorder{}
	ctx, _ := testutil.Context(t)
	notify.Forward(ctx, a.session.Mappings(), rec)

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/mappings/recent", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/mappings",
		`{"leafId":"address:city","targetNodeId":"final","targetFieldKey":"summary"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode[mapping.PrefillMapping](t, body)
	assert.Equal(t, prefill.FormField("address", "Address Info Form", "city"), created.Source)

	resp, body = do(t, http.MethodPost, srv.URL+"/api/mappings",
		`{"source":{"type":"global","id":"global","name":"Global","fieldKey":"test_data"},"targetNodeId":"final","targetFieldKey":"approved"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/api/mappings?node=final", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]mapping.PrefillMapping](t, body), 2)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/mappings?node=address", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/api/mappings/recent", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "approved", decode[mapping.PrefillMapping](t, body).TargetFieldKey)

	resp, body = do(t, http.MethodDelete, srv.URL+"/api/mappings?node=final&field=summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"removed":1}`, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/api/mappings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]mapping.PrefillMapping](t, body), 1)

	kinds := []mapping.EventKind{}
	for _, ev := range rec.Events() {
		if ev.Kind != mapping.EventHighlightCleared {
			kinds = append(kinds, ev.Kind)
		}
	}
	assert.Equal(t, []mapping.EventKind{mapping.EventAdded, mapping.EventAdded, mapping.EventRemoved}, kinds)
}

func TestAPI_MappingErrors(t *testing.T) {
	_, srv := setupServer(t)

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "malformed body", method: http.MethodPost, path: "/api/mappings", body: `{`, status: http.StatusBadRequest},
		{name: "missing target", method: http.MethodPost, path: "/api/mappings", body: `{"leafId":"global:test_data"}`, status: http.StatusBadRequest},
		{name: "no source", method: http.MethodPost, path: "/api/mappings", body: `{"targetNodeId":"final","targetFieldKey":"summary"}`, status: http.StatusBadRequest},
		{name: "downstream leaf", method: http.MethodPost, path: "/api/mappings", body: `{"leafId":"final:summary","targetNodeId":"address","targetFieldKey":"city"}`, status: http.StatusUnprocessableEntity},
		{name: "downstream source", method: http.MethodPost, path: "/api/mappings", body: `{"source":{"type":"form_field","id":"final","name":"Final","fieldKey":"summary"},"targetNodeId":"address","targetFieldKey":"city"}`, status: http.StatusUnprocessableEntity},
		{name: "unconfigured global", method: http.MethodPost, path: "/api/mappings", body: `{"source":{"type":"global","id":"global","name":"Global","fieldKey":"secret"},"targetNodeId":"final","targetFieldKey":"x"}`, status: http.StatusUnprocessableEntity},
		{name: "unknown target node", method: http.MethodPost, path: "/api/mappings", body: `{"leafId":"global:test_data","targetNodeId":"ghost","targetFieldKey":"x"}`, status: http.StatusNotFound},
		{name: "delete without field", method: http.MethodDelete, path: "/api/mappings?node=final", status: http.StatusBadRequest},
		{name: "wrong method", method: http.MethodPatch, path: "/api/mappings", status: http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := do(t, tc.method, srv.URL+tc.path, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(body))
		})
	}
}

func TestAPI_NoBlueprint(t *testing.T) {
	a, _, _ := setupApp(t, Config{Command: CommandServe})
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	resp, _ := do(t, http.MethodGet, srv.URL+"/api/blueprint/nodes", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/nodes/final/sources", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, http.StatusNotFound, statusFor(session.ErrNodeNotFound))
}
