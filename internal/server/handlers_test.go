package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/piwi3910/RailCut/internal/engine"
	"github.com/piwi3910/RailCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistant struct {
	configured bool
	draft      model.FormDraft
	err        error
	got        string
}

func (f *fakeAssistant) Configured() bool { return f.configured }

func (f *fakeAssistant) ParseText(_ context.Context, description string) (model.FormDraft, error) {
	f.got = description
	return f.draft, f.err
}

func testRequest() model.Request {
	return model.Request{
		OverallHeight:     1020,
		BaselineHeight:    100,
		PostProfile:       "40x40",
		LinkProfile:       "40x20",
		TopRailProfile:    "40x40",
		BottomRailProfile: "40x40",
		BarProfile:        "20x20",
		MaxGap:            110,
		Fixation:          "plate",
		Infill:            model.InfillVertical,
		PlateDimensions:   "200x200x10",
		PlateHoles:        "4 x 14",
		PlatePitches:      "160x160",
		Pieces: []model.Piece{{
			SectionCount: 2,
			Structure: []model.StructureItem{
				model.Post(), model.Section(1000), model.Link(), model.Section(1000), model.Post(),
			},
		}},
	}
}

var testOrigins = []string{"http://localhost:5500"}

func newTestHandler(a Assistant) http.Handler {
	return NewHandler(a, testOrigins, log.New(io.Discard))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Detail
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestHandler(nil), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err, "every response carries a request id")
}

func TestRequestIDIsEchoed(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestProcessData(t *testing.T) {
	rec := do(t, newTestHandler(nil), http.MethodPost, "/api/process-data", testRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp processResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)

	want, err := engine.Process(testRequest())
	require.NoError(t, err)
	assert.Equal(t, want.Nomenclature, resp.Data.Nomenclature)
	require.Len(t, resp.Data.Pieces, 1)
	assert.InDelta(t, 950.0, resp.Data.Pieces[0].Sections[0].FreeLength, 1e-9)
	require.NotNil(t, resp.Data.Plate)
	assert.Equal(t, 4, resp.Data.Plate.HoleCount)
}

func TestProcessData_StructureMismatch(t *testing.T) {
	req := testRequest()
	req.Pieces[0].Structure = []model.StructureItem{model.Post(), model.Section(1000), model.Section(1000), model.Post()}

	rec := do(t, newTestHandler(nil), http.MethodPost, "/api/process-data", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "piece 1")
}

func TestProcessData_InvalidPlate(t *testing.T) {
	req := testRequest()
	req.PlateHoles = "four holes"

	rec := do(t, newTestHandler(nil), http.MethodPost, "/api/process-data", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessData_ValidationError(t *testing.T) {
	req := testRequest()
	req.MaxGap = 0
	req.Infill = "diagonal"

	rec := do(t, newTestHandler(nil), http.MethodPost, "/api/process-data", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	msg := detail(t, rec)
	assert.Contains(t, msg, "max_gap")
	assert.Contains(t, msg, "infill")
}

func TestProcessData_BadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/process-data", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	newTestHandler(nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, detail(t, rec), "invalid JSON")
}

func TestProcessData_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestHandler(nil), http.MethodGet, "/api/process-data", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDrawPDF(t *testing.T) {
	plan, err := engine.Process(testRequest())
	require.NoError(t, err)

	rec := do(t, newTestHandler(nil), http.MethodPost, "/api/draw-pdf", plan)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "guardrail_plan.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestDrawPDF_EmptyPlan(t *testing.T) {
	rec := do(t, newTestHandler(nil), http.MethodPost, "/api/draw-pdf", model.Plan{Description: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExports(t *testing.T) {
	plan, err := engine.Process(testRequest())
	require.NoError(t, err)
	h := newTestHandler(nil)

	rec := do(t, h, http.MethodPost, "/api/export/xlsx", plan)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

	rec = do(t, h, http.MethodPost, "/api/export/labels", plan)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestParseText(t *testing.T) {
	a := &fakeAssistant{configured: true, draft: model.DefaultFormDraft()}
	a.draft.PieceCount = 3

	rec := do(t, newTestHandler(a), http.MethodPost, "/api/parse-text", descriptionRequest{Description: "three runs"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "three runs", a.got)

	var draft model.FormDraft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))
	assert.Equal(t, 3, draft.PieceCount)
}

func TestParseText_NotConfigured(t *testing.T) {
	for name, a := range map[string]Assistant{
		"nil":         nil,
		"without key": &fakeAssistant{},
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, newTestHandler(a), http.MethodPost, "/api/parse-text", descriptionRequest{Description: "x"})
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestParseText_Failure(t *testing.T) {
	a := &fakeAssistant{configured: true, err: errors.New("upstream timeout")}

	rec := do(t, newTestHandler(a), http.MethodPost, "/api/parse-text", descriptionRequest{Description: "x"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, detail(t, rec), "upstream timeout")
}

func TestFail_HidesInternalErrors(t *testing.T) {
	h := &handler{logger: log.New(io.Discard)}
	rec := httptest.NewRecorder()
	h.fail(rec, httptest.NewRequest(http.MethodPost, "/api/draw-pdf", nil), errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, detail(t, rec), "disk on fire")
}

func TestCORS_Preflight(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/process-data", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "http://localhost:5500", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORS_OriginFiltering(t *testing.T) {
	tests := []struct {
		name    string
		handler http.Handler
		origin  string
		want    string
	}{
		{"allowed origin", newTestHandler(nil), "http://localhost:5500", "http://localhost:5500"},
		{"other origin", newTestHandler(nil), "https://evil.example", ""},
		{"no origins configured", NewHandler(nil, nil, log.New(io.Discard)), "http://localhost:5500", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
