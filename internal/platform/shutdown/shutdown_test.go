package shutdown

import (
	"context"
	"testing"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestShutdownOrder(t *testing.T) {
	log := zaptest.NewLogger(t)
	graceful := lifecycle.NewManager(log)
	forceful := lifecycle.NewManager(log)
	c := NewCoordinator(log, graceful, forceful)

	var events []string
	handle, err := graceful.NewServiceHandle("worker")
	require.NoError(t, err)
	stopped := make(chan struct{})
	go func() {
		handle.Every(time.Hour, func(context.Context) {})
		close(stopped)
	}()

	c.OnFinish(func() { events = append(events, "first") })
	c.OnFinish(func() { events = append(events, "second") })
	c.Shutdown(nil)

	<-stopped
	assert.Equal(t, []string{"second", "first"}, events)
}
