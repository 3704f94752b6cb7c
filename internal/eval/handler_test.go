package eval

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func evaluateRequest(t *testing.T, runner Runner, body string) (int, map[string]any) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestEvalService(t, runner, stubOverlay{}, nil)
	r := gin.New()
	NewHandler(zaptest.NewLogger(t), svc).RegisterRoutes(r.Group("/api"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHandlerEvaluate(t *testing.T) {
	runner := &recordingRunner{out: Output{Stdout: []byte(`{"shots":1}`)}}
	code, resp := evaluateRequest(t, runner, `{"spells":["BOMB"],"fold_nodes":true}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, map[string]any{"shots": float64(1)}, resp["data"])
	assert.NotContains(t, runner.args, "-f")
}

func TestHandlerEvaluateFailures(t *testing.T) {
	code, resp := evaluateRequest(t, &recordingRunner{}, `{"spells":[]}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, resp["success"])

	code, resp = evaluateRequest(t, &recordingRunner{out: Output{ExitCode: 2, Stderr: []byte("boom")}}, `{"spells":["BOMB"]}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "boom", resp["details"])

	code, resp = evaluateRequest(t, &recordingRunner{out: Output{Stdout: []byte("not json")}}, `{"spells":["BOMB"]}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "not json", resp["raw"])

	code, _ = evaluateRequest(t, &recordingRunner{}, `{"spells":`)
	assert.Equal(t, http.StatusBadRequest, code)
}
