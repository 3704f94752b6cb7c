package lifecycle

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDuplicateService(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	_, err := m.NewServiceHandle("monitor")
	require.NoError(t, err)
	_, err = m.NewServiceHandle("monitor")
	assert.Error(t, err)
}

func TestEveryStopsOnShutdown(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	h, err := m.NewServiceHandle("ticker")
	require.NoError(t, err)

	var calls atomic.Int32
	go h.Every(time.Millisecond, func(context.Context) { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	m.Shutdown()
	assert.Empty(t, m.WaitWithTimeout(time.Second))
}

func TestWaitReportsStragglers(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	h, err := m.NewServiceHandle("stuck")
	require.NoError(t, err)
	_, err = m.NewServiceHandle("also-stuck")
	require.NoError(t, err)

	h.Close()
	h.Close()
	m.Shutdown()
	assert.Equal(t, []string{"also-stuck"}, m.WaitWithTimeout(10*time.Millisecond))
}

func TestSleepInterrupted(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	h, err := m.NewServiceHandle("sleeper")
	require.NoError(t, err)
	defer h.Close()

	m.Shutdown()
	assert.ErrorIs(t, h.Sleep(time.Hour), context.Canceled)
}
