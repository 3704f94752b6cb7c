package health

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/gamelink"
	"github.com/SlpAus/noita-wand-engine-backend/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type switchPinger struct {
	mu     sync.Mutex
	online bool
}

func (p *switchPinger) set(online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = online
}

func (p *switchPinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.online {
		return nil
	}
	return gamelink.ErrNoResponse
}

type fakeRoot struct {
	status    gamelink.RootStatus
	refreshes int
}

func (r *fakeRoot) Status() gamelink.RootStatus { return r.status }

func (r *fakeRoot) Refresh(context.Context) gamelink.RootStatus {
	r.refreshes++
	r.status = gamelink.RootStatus{Path: "D:/Noita", Source: gamelink.RootLive}
	return r.status
}

func TestTransitions(t *testing.T) {
	game := &switchPinger{}
	root := &fakeRoot{status: gamelink.RootStatus{Path: "C:/Noita", Source: gamelink.RootProbe}}
	m := NewMonitor(zaptest.NewLogger(t), game, root)
	ctx := context.Background()

	assert.Equal(t, StateUnknown, m.Snapshot().State)

	tr := m.PerformCheck(ctx)
	assert.Equal(t, Transition{From: StateUnknown, To: StateDisconnected}, tr)
	assert.False(t, m.Snapshot().Connected)
	assert.Zero(t, root.refreshes)

	game.set(true)
	tr = m.PerformCheck(ctx)
	assert.True(t, tr.CameUp())
	assert.True(t, m.Snapshot().Connected)
	assert.Equal(t, 1, root.refreshes)
	assert.Equal(t, gamelink.RootLive, root.Status().Source)

	tr = m.PerformCheck(ctx)
	assert.False(t, tr.Changed())

	// 已经是在线握手得到的目录，再次上线时不刷新
	game.set(false)
	m.PerformCheck(ctx)
	game.set(true)
	m.PerformCheck(ctx)
	assert.Equal(t, 1, root.refreshes)
}

func TestRunStopsOnShutdown(t *testing.T) {
	log := zaptest.NewLogger(t)
	mgr := lifecycle.NewManager(log)
	handle, err := mgr.NewServiceHandle("game-monitor")
	require.NoError(t, err)

	game := &switchPinger{online: true}
	m := NewMonitor(log, game, nil)
	done := make(chan struct{})
	go func() {
		m.Run(handle, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.Snapshot().Connected }, time.Second, time.Millisecond)
	mgr.Shutdown()
	assert.Empty(t, mgr.WaitWithTimeout(time.Second))
	<-done
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.Equal(t, "disconnected", StateDisconnected.String())
}
