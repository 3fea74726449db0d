package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/app"
	"github.com/ternarybob/pdfextractor/internal/common"
	"github.com/ternarybob/pdfextractor/internal/models"
)

func newTestServer(t *testing.T, debug bool) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	config := common.NewDefaultConfig()
	config.Debug = debug
	config.Storage.Type = common.StorageTypeSQLite
	config.Storage.SQLite.Path = filepath.Join(dir, "server.db")
	config.Uploads.PDFFolder = filepath.Join(dir, "uploads", "pdfs")
	config.Uploads.ImageFolder = filepath.Join(dir, "uploads", "images")

	application, err := app.New(config, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })

	ts := httptest.NewServer(New(application).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func samplePDF(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x * 30), B: 40, A: 255})
		}
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	doc.AddPage()
	doc.Cell(0, 10, "Server round trip")
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("logo", opts, bytes.NewReader(pngBuf.Bytes()))
	doc.ImageOptions("logo", 20, 40, 20, 20, false, opts, 0, "")

	var out bytes.Buffer
	require.NoError(t, doc.Output(&out))
	return out.Bytes()
}

func getJSON(t *testing.T, url string, target interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
	return resp
}

func TestServer_HealthAndHeaders(t *testing.T) {
	ts := newTestServer(t, false)

	for _, path := range []string{"/health", "/api/v1/health"} {
		var body map[string]string
		resp := getJSON(t, ts.URL+path, &body)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "healthy", body["status"])
		assert.NotEmpty(t, resp.Header.Get("X-Process-Time"))
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestServer_RootAndNotFound(t *testing.T) {
	ts := newTestServer(t, false)

	var welcome map[string]string
	resp := getJSON(t, ts.URL+"/", &welcome)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/v1", welcome["api_prefix"])
	assert.Contains(t, welcome["documentation"], "/api/v1")

	var notFound map[string]string
	resp = getJSON(t, ts.URL+"/api/v1/nothing-here", &notFound)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", notFound["detail"])

	resp = getJSON(t, ts.URL+"/api/v1/debug/generate-uuid", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "debug routes are off by default")
}

func TestServer_DebugRoute(t *testing.T) {
	ts := newTestServer(t, true)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/api/v1/debug/generate-uuid", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["generated_uuid"], 36)
}

func TestServer_ExtractRoundTrip(t *testing.T) {
	ts := newTestServer(t, false)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "sample.pdf")
	require.NoError(t, err)
	_, err = part.Write(samplePDF(t))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(ts.URL+"/api/v1/extract?include_summary=false", writer.FormDataContentType(), &form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created models.ExtractResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "sample.pdf", created.Filename)
	assert.Contains(t, created.Text.Pages["Page 1"], "Server round trip")
	assert.Nil(t, created.Summary)
	require.Len(t, created.Images, 1)

	var fetched models.ExtractResult
	resp = getJSON(t, ts.URL+"/api/v1/documents/"+created.ID, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Text, fetched.Text)
	assert.Equal(t, created.Images, fetched.Images)

	var list models.DocumentList
	resp = getJSON(t, ts.URL+"/api/v1/documents?limit=5", &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Documents, 1)
	assert.Equal(t, created.ID, list.Documents[0].ID)

	img, err := http.Get(ts.URL + created.Images[0].URL)
	require.NoError(t, err)
	img.Body.Close()
	assert.Equal(t, http.StatusOK, img.StatusCode)
	assert.Equal(t, "image/png", img.Header.Get("Content-Type"))
}

func TestServer_StatusEndpoints(t *testing.T) {
	ts := newTestServer(t, false)

	var workers map[string]models.WorkerStatus
	resp := getJSON(t, ts.URL+"/api/v1/workers/status", &workers)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	worker := workers["file_cleanup_worker"]
	assert.True(t, worker.Running)
	assert.Equal(t, 10, worker.RetentionMinutes)
	assert.Equal(t, 1, worker.JobCount)
	assert.NotNil(t, worker.NextRun)

	var llmStatus map[string]models.LLMStatus
	resp = getJSON(t, ts.URL+"/api/v1/llm/status", &llmStatus)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ollama", llmStatus["llm_service"].Provider)
}

func TestRecoveryMiddleware(t *testing.T) {
	s := &Server{app: &app.App{Logger: arbor.NewLogger()}}
	handler := s.withMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/extract", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
}

func TestUploadReadTimeout(t *testing.T) {
	assert.Equal(t, 2*time.Minute, uploadReadTimeout(0))
	assert.Equal(t, 2*time.Minute, uploadReadTimeout(50))
	assert.Equal(t, 400*time.Second, uploadReadTimeout(200))
}

func TestNew_ServerLimitsFollowUploadConfig(t *testing.T) {
	dir := t.TempDir()
	config := common.NewDefaultConfig()
	config.Storage.Type = common.StorageTypeSQLite
	config.Storage.SQLite.Path = filepath.Join(dir, "limits.db")
	config.Uploads.PDFFolder = filepath.Join(dir, "pdfs")
	config.Uploads.ImageFolder = filepath.Join(dir, "images")
	config.Uploads.MaxUploadMB = 300

	application, err := app.New(config, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })

	srv := New(application)
	assert.Equal(t, 600*time.Second, srv.server.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.server.ReadHeaderTimeout)
	assert.Equal(t, 64<<10, srv.server.MaxHeaderBytes)
	assert.Equal(t, "0.0.0.0:8000", srv.server.Addr)
}
