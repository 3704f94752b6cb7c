package gamelink

import (
	"context"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// RootSource 标记安装目录是如何被发现的
type RootSource string

const (
	RootNone  RootSource = "none"
	RootLive  RootSource = "live"
	RootProbe RootSource = "probe"
)

// RootStatus 是安装目录缓存的显式状态。目录一旦找到就不再校验，
// 只有 Refresh 会替换它。
type RootStatus struct {
	Path         string     `json:"path"`
	Source       RootSource `json:"source"`
	DiscoveredAt time.Time  `json:"discovered_at"`
}

// RootQuerier 能通过在线握手返回安装目录
type RootQuerier interface {
	GameRoot(ctx context.Context) (string, error)
}

// RootLocator 负责发现并缓存游戏安装目录
type RootLocator struct {
	log    *zap.Logger
	q      RootQuerier
	known  []string
	state  atomic.Pointer[RootStatus]
	exists func(path string) bool
	now    func() time.Time
}

func NewRootLocator(log *zap.Logger, q RootQuerier, known []string) *RootLocator {
	return &RootLocator{
		log:    log,
		q:      q,
		known:  known,
		exists: dirExists,
		now:    time.Now,
	}
}

// Root 返回缓存的安装目录，尚未找到时尝试发现。找不到时返回空字符串，下次调用会重试。
func (l *RootLocator) Root(ctx context.Context) string {
	if s := l.state.Load(); s != nil && s.Path != "" {
		return s.Path
	}
	return l.Refresh(ctx).Path
}

// Status 返回当前缓存状态，不触发发现
func (l *RootLocator) Status() RootStatus {
	if s := l.state.Load(); s != nil {
		return *s
	}
	return RootStatus{Source: RootNone}
}

// Refresh 重新发现安装目录并替换缓存。在线握手失败时回退到已知路径。
func (l *RootLocator) Refresh(ctx context.Context) RootStatus {
	status := l.discover(ctx)
	if status.Path != "" {
		prev := l.state.Swap(&status)
		if prev == nil || prev.Path != status.Path {
			l.log.Info("已定位游戏安装目录", zap.String("path", status.Path), zap.String("source", string(status.Source)))
		}
		return status
	}
	// 保留之前的结果，避免一次失败的探测清空可用的目录
	if prev := l.state.Load(); prev != nil {
		return *prev
	}
	return status
}

func (l *RootLocator) discover(ctx context.Context) RootStatus {
	if l.q != nil {
		root, err := l.q.GameRoot(ctx)
		if err == nil && root != "" {
			return RootStatus{Path: normalizeSlashes(root), Source: RootLive, DiscoveredAt: l.now()}
		}
		if err != nil {
			l.log.Debug("在线查询安装目录失败", zap.Error(err))
		}
	}
	for _, p := range l.known {
		if l.exists(p) {
			return RootStatus{Path: normalizeSlashes(p), Source: RootProbe, DiscoveredAt: l.now()}
		}
	}
	return RootStatus{Source: RootNone}
}

func normalizeSlashes(p string) string {
	return strings.TrimRight(strings.ReplaceAll(p, `\`, "/"), "/")
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
