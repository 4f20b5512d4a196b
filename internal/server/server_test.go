package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsense/diligence/internal/domain"
)

type stubRunner struct {
	report *domain.DealReport
	err    error
	delay  time.Duration

	queries []string
}

func (r *stubRunner) Run(_ context.Context, query string) (*domain.DealReport, error) {
	r.queries = append(r.queries, query)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.report, nil
}

func testServer(runner Runner) *Server {
	registry := domain.NewRegistry(domain.DefaultCompanies)
	return New(runner, registry, log.New(io.Discard, "", 0), 1)
}

func sampleReport() *domain.DealReport {
	return &domain.DealReport{
		Date:    time.Now(),
		Company: domain.Company{ID: "BBD", Name: "BBD Ltd"},
		Summary: "all clear",
		Overall: domain.OverallScore{Recommendation: domain.RecommendGo},
	}
}

func TestHealthz(t *testing.T) {
	srv := testServer(&stubRunner{report: sampleReport()})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")

	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestCompanies(t *testing.T) {
	srv := testServer(&stubRunner{})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/companies")

	require.NoError(t, err)
	defer resp.Body.Close()

	var companies []domain.Company
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&companies))
	assert.Len(t, companies, len(domain.DefaultCompanies))
}

func TestCategories(t *testing.T) {
	srv := testServer(&stubRunner{})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/categories")

	require.NoError(t, err)
	defer resp.Body.Close()

	var categories []domain.DocumentCategory
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	assert.Contains(t, categories, domain.CategoryFinancial)
}

func TestAnalyzeWait(t *testing.T) {
	runner := &stubRunner{report: sampleReport()}
	srv := testServer(runner)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	body := bytes.NewBufferString(`{"query": "Run a full due diligence on BBD"}`)
	resp, err := http.Post(ts.URL+"/analyze?wait=true", "application/json", body)

	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var run Analysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, StatusCompleted, run.Status)
	require.NotNil(t, run.Report)
	assert.Equal(t, "BBD", run.Report.Company.ID)
	assert.Len(t, runner.queries, 1)
}

func TestAnalyzeWaitRunnerError(t *testing.T) {
	srv := testServer(&stubRunner{err: errors.New("model unavailable")})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	body := bytes.NewBufferString(`{"query": "Run a full due diligence on BBD"}`)
	resp, err := http.Post(ts.URL+"/analyze?wait=true", "application/json", body)

	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAnalyzeEnqueueAndPoll(t *testing.T) {
	runner := &stubRunner{report: sampleReport()}
	srv := testServer(runner)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.Start(ctx)

	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	body := bytes.NewBufferString(`{"query": "Run a full due diligence on BBD"}`)
	resp, err := http.Post(ts.URL+"/analyze", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var accepted map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accepted))
	id := accepted["analysis_id"]
	require.NotEmpty(t, id)

	// Poll until the background worker finishes.
	deadline := time.Now().Add(2 * time.Second)
	var run Analysis
	for time.Now().Before(deadline) {
		r2, err := http.Get(ts.URL + "/analyses/" + id)
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(r2.Body).Decode(&run))
		r2.Body.Close()
		if run.Status == StatusCompleted || run.Status == StatusFailed {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, StatusCompleted, run.Status)
	require.NotNil(t, run.CompletedAt)
}

func TestAnalyzeValidation(t *testing.T) {
	srv := testServer(&stubRunner{})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty query", `{"query": ""}`, http.StatusBadRequest},
		{"invalid json", `{not json`, http.StatusBadRequest},
		{"unknown company", `{"query": "analyze", "company_id": "NOPE"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/analyze", "application/json", bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAnalyzeCompanyIDAppendsTarget(t *testing.T) {
	runner := &stubRunner{report: sampleReport()}
	srv := testServer(runner)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	body := bytes.NewBufferString(`{"query": "assess financial health", "company_id": "bbd"}`)
	resp, err := http.Post(ts.URL+"/analyze?wait=true", "application/json", body)

	require.NoError(t, err)
	resp.Body.Close()
	require.Len(t, runner.queries, 1)
	assert.Contains(t, runner.queries[0], "(target: BBD Ltd)")
}

func TestGetAnalysisNotFound(t *testing.T) {
	srv := testServer(&stubRunner{})
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/analyses/does-not-exist")

	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
