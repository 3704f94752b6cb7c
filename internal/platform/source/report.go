// Package source 描述磁盘数据源 (翻译表、映射表、脚本) 的加载结果。
package source

import (
	"errors"
	"os"
)

// Status 区分 "因不存在而为空" 与 "因损坏而为空"
type Status int

const (
	Loaded Status = iota
	Missing
	Malformed
)

func (s Status) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Missing:
		return "missing"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

// Report 记录单个数据源的加载情况
type Report struct {
	Path    string `json:"path"`
	Status  Status `json:"-"`
	Rows    int    `json:"rows"`
	Skipped int    `json:"skipped"`
	Err     error  `json:"-"`
}

// Failed 返回一个带错误的报告，文件不存在时标记为 Missing
func Failed(path string, err error) Report {
	if errors.Is(err, os.ErrNotExist) {
		return Report{Path: path, Status: Missing}
	}
	return Report{Path: path, Status: Malformed, Err: err}
}
