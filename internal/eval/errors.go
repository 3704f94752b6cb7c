package eval

import (
	"errors"
	"fmt"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/apperr"
)

// ErrNoSpells 表示请求中没有任何法术，此时不会启动模拟器
var ErrNoSpells = fmt.Errorf("%w: 没有选择要评估的法术", apperr.EmptyInput)

// ProcessError 表示模拟器以非零状态退出或无法启动
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("评估失败 (退出码 %d)", e.ExitCode)
}

func (e *ProcessError) Unwrap() error { return e.Err }

func (e *ProcessError) Is(target error) bool { return target == apperr.External }

// ParseError 表示模拟器正常退出，但输出不是单个有效的JSON值
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("无法解析模拟器输出: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == apperr.External }

var errTrailingData = errors.New("JSON值之后存在多余数据")
