package lifecycle

import (
	"context"
	"time"
)

// Handle 是分发给后台任务的生命周期句柄。
// 任务退出前必须调用 Close，否则 Manager 会一直等待它。
type Handle struct {
	name  string
	ctx   context.Context
	close func()
}

// Name 返回注册时使用的任务名
func (h *Handle) Name() string {
	return h.name
}

// Ctx 在停机信号广播后被取消
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done 返回停机信号的channel
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Close 通知管理器该任务已退出。可以重复调用。
func (h *Handle) Close() {
	h.close()
}

// Sleep 休眠指定时长，收到停机信号时提前返回 ctx 的错误
func (h *Handle) Sleep(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-h.ctx.Done():
		return h.ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Every 每隔 interval 调用一次 fn，直到停机。fn 执行期间不会计时，
// 所以两次调用之间至少间隔 interval。退出时自动调用 Close。
func (h *Handle) Every(interval time.Duration, fn func(ctx context.Context)) {
	defer h.Close()
	for {
		if err := h.Sleep(interval); err != nil {
			return
		}
		fn(h.ctx)
	}
}
