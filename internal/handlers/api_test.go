package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pdfextractor/internal/common"
)

func TestRootHandler_WelcomeKeys(t *testing.T) {
	handler := NewAPIHandler(common.NewDefaultConfig(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	handler.RootHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"message", "documentation", "api_prefix", "version"}, keys(body))
	assert.Contains(t, body["documentation"], body["api_prefix"])
}

func TestRootHandler_UnknownPath(t *testing.T) {
	handler := NewAPIHandler(common.NewDefaultConfig(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	handler.RootHandler(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateUUIDHandler(t *testing.T) {
	handler := NewAPIHandler(common.NewDefaultConfig(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	handler.GenerateUUIDHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/debug/generate-uuid", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"generated_uuid"}, keys(body))
	_, err := uuid.Parse(body["generated_uuid"])
	assert.NoError(t, err)
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
