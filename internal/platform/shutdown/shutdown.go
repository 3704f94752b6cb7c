package shutdown

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/pkg/lifecycle"
	"go.uber.org/zap"
)

const (
	httpTimeout     = 15 * time.Second
	gracefulTimeout = 10 * time.Second
	forcefulTimeout = 1 * time.Second
)

// Coordinator 编排停机流程: 先关闭HTTP服务器，再等待后台任务，最后释放资源
type Coordinator struct {
	log             *zap.Logger
	GracefulManager *lifecycle.Manager
	ForcefulManager *lifecycle.Manager
	finalizers      []func()
}

func NewCoordinator(log *zap.Logger, gracefulMgr, forcefulMgr *lifecycle.Manager) *Coordinator {
	return &Coordinator{
		log:             log,
		GracefulManager: gracefulMgr,
		ForcefulManager: forcefulMgr,
	}
}

// OnFinish 注册在所有后台任务退出后执行的清理函数，按注册的逆序执行
func (c *Coordinator) OnFinish(fn func()) {
	c.finalizers = append(c.finalizers, fn)
}

// ListenForSignalsAndShutdown 阻塞直到收到中断信号，然后执行停机
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	<-sigChan
	c.log.Info("收到关闭信号，开始优雅停机")
	c.Shutdown(server)
}

// Shutdown 执行停机流程
func (c *Coordinator) Shutdown(server *http.Server) {
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			c.log.Error("HTTP服务器关闭错误", zap.Error(err))
		} else {
			c.log.Info("HTTP服务器已关闭")
		}
	}

	c.GracefulManager.Shutdown()
	remaining := c.GracefulManager.WaitWithTimeout(gracefulTimeout)
	if len(remaining) > 0 {
		c.log.Warn("第一阶段超时，强制停止剩余任务", zap.Strings("services", remaining))
		c.ForcefulManager.Shutdown()
		c.ForcefulManager.WaitWithTimeout(forcefulTimeout)
	}

	for i := len(c.finalizers) - 1; i >= 0; i-- {
		c.finalizers[i]()
	}
	c.log.Info("优雅停机完成")
}
