// Package health 定期检查与游戏的连接，并在连接恢复时刷新安装目录。
package health

import (
	"context"
	"time"

	"github.com/SlpAus/noita-wand-engine-backend/internal/gamelink"
	"github.com/SlpAus/noita-wand-engine-backend/pkg/lifecycle"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Pinger 检查游戏是否在线
type Pinger interface {
	Ping(ctx context.Context) error
}

// RootRefresher 是安装目录定位器中监视器用到的部分
type RootRefresher interface {
	Status() gamelink.RootStatus
	Refresh(ctx context.Context) gamelink.RootStatus
}

// Monitor 记录游戏的在线状态
type Monitor struct {
	log    *zap.Logger
	game   Pinger
	root   RootRefresher
	status statusManager
	now    func() time.Time
}

func NewMonitor(log *zap.Logger, game Pinger, root RootRefresher) *Monitor {
	return &Monitor{log: log, game: game, root: root, now: time.Now}
}

// Snapshot 返回最近一次检查的结果
func (m *Monitor) Snapshot() Snapshot {
	return m.status.snapshot()
}

// PerformCheck 执行一次检查
func (m *Monitor) PerformCheck(ctx context.Context) Transition {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	err := m.game.Ping(pingCtx)

	t := m.status.assess(err == nil, m.now())
	if !t.Changed() {
		return t
	}

	switch t.To {
	case StateConnected:
		m.log.Info("游戏已连接")
	case StateDisconnected:
		if t.From == StateConnected {
			m.log.Warn("游戏连接已断开", zap.Error(err))
		} else {
			m.log.Info("游戏未运行，使用离线数据")
		}
	}

	// 探测得到的目录可能不是正在运行的那份安装，连接恢复后以在线握手为准
	if t.CameUp() && m.root != nil && m.root.Status().Source != gamelink.RootLive {
		s := m.root.Refresh(ctx)
		m.log.Info("已刷新游戏安装目录", zap.String("root", s.Path), zap.String("source", string(s.Source)))
	}
	return t
}

// Run 在后台循环检查，直到生命周期句柄被取消
func (m *Monitor) Run(handle *lifecycle.Handle, interval time.Duration) {
	m.log.Info("游戏连接检查器已启动", zap.Duration("interval", interval))
	m.PerformCheck(handle.Ctx())
	handle.Every(interval, func(ctx context.Context) {
		m.PerformCheck(ctx)
	})
	m.log.Info("游戏连接检查器已停止")
}
