package health

import (
	"sync"
	"time"
)

// State 是与游戏连接的状态
type State int

const (
	StateUnknown State = iota
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Transition 描述一次状态变化
type Transition struct {
	From State
	To   State
}

// Changed 在状态确实发生变化时为 true
func (t Transition) Changed() bool {
	return t.From != t.To
}

// CameUp 在连接从非连接状态变为连接时为 true
func (t Transition) CameUp() bool {
	return t.To == StateConnected && t.From != StateConnected
}

// statusManager 线程安全地保存最近一次检查的结果
type statusManager struct {
	mu        sync.RWMutex
	state     State
	checkedAt time.Time
}

// Snapshot 是对外暴露的只读状态
type Snapshot struct {
	State     State     `json:"-"`
	Connected bool      `json:"connected"`
	CheckedAt time.Time `json:"checked_at"`
}

func (sm *statusManager) snapshot() Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return Snapshot{State: sm.state, Connected: sm.state == StateConnected, CheckedAt: sm.checkedAt}
}

// assess 记录一次检查结果并返回状态变化
func (sm *statusManager) assess(connected bool, at time.Time) Transition {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	next := StateDisconnected
	if connected {
		next = StateConnected
	}
	t := Transition{From: sm.state, To: next}
	sm.state = next
	sm.checkedAt = at
	return t
}
