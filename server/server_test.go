package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novatech-ai/deskrouter/schema"
)

type stubPipeline struct {
	result schema.PipelineResult
	err    error
}

func (s *stubPipeline) Run(context.Context, string) (schema.PipelineResult, error) {
	return s.result, s.err
}

type stubRouter struct {
	decision schema.RoutingDecision
}

func (s *stubRouter) Route(context.Context, string) schema.RoutingDecision {
	return s.decision
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleQuery(t *testing.T) {
	pipeline := &stubPipeline{result: schema.PipelineResult{
		Query:             "pricing plans?",
		DepartmentsRouted: []schema.Department{"Sales"},
		Answer:            "We offer Basic and Pro plans.",
	}}
	srv := New(pipeline, &stubRouter{}, nil)

	rec := post(t, srv.Handler(), "/v1/query", `{"query":"pricing plans?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp queryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pricing plans?", resp.Query)
	assert.Equal(t, []string{"Sales"}, resp.DepartmentsRouted)
	assert.Equal(t, "We offer Basic and Pro plans.", resp.Answer)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHandleQueryRejectsEmpty(t *testing.T) {
	srv := New(&stubPipeline{}, &stubRouter{}, nil)
	for _, body := range []string{`{}`, `{"query":""}`, `{"query":"   "}`, `not json`} {
		rec := post(t, srv.Handler(), "/v1/query", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestHandleQueryGenerationFailure(t *testing.T) {
	pipeline := &stubPipeline{err: &schema.GenerationError{Stage: "merge", Err: errors.New("upstream down")}}
	srv := New(pipeline, &stubRouter{}, nil)

	rec := post(t, srv.Handler(), "/v1/query", `{"query":"anything"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleQueryInternalFailure(t *testing.T) {
	pipeline := &stubPipeline{err: errors.New("boom")}
	srv := New(pipeline, &stubRouter{}, nil)

	rec := post(t, srv.Handler(), "/v1/query", `{"query":"anything"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleRoute(t *testing.T) {
	router := &stubRouter{decision: schema.RoutingDecision{
		State:       schema.StateRouted,
		Departments: []schema.Department{"Sales", "Finance"},
	}}
	srv := New(&stubPipeline{}, router, nil)

	rec := post(t, srv.Handler(), "/v1/route", `{"query":"pricing and payment terms"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp routeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "routed", resp.State)
	assert.Equal(t, []string{"Sales", "Finance"}, resp.Departments)
}

func TestHealthz(t *testing.T) {
	srv := New(&stubPipeline{}, &stubRouter{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	srv := New(&stubPipeline{}, &stubRouter{}, prometheus.NewRegistry())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
