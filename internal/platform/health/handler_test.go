package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SlpAus/noita-wand-engine-backend/internal/gamelink"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type locatorStub struct {
	fakeRoot
}

func (l *locatorStub) Root(context.Context) string { return l.status.Path }

func TestStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	game := &switchPinger{}
	root := &locatorStub{}
	m := NewMonitor(zaptest.NewLogger(t), game, root)
	r := gin.New()
	NewHandler(m, root).RegisterRoutes(r.Group("/api"))

	get := func() map[string]any {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	assert.Equal(t, map[string]any{"connected": false, "game_root": "", "root_source": "none"}, get())

	// 上线后监视器刷新目录，状态接口立即反映在线握手得到的目录
	game.set(true)
	assert.Equal(t, map[string]any{"connected": true, "game_root": "D:/Noita", "root_source": string(gamelink.RootLive)}, get())
}
