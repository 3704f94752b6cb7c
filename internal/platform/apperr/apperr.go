// Package apperr 定义错误类别，并在HTTP边界将其转换为状态码。
package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误类别。领域错误通过 %w 包装或实现 Is 方法归入其中之一。
var (
	// Unreachable 表示游戏进程不可达，调用方应回退到离线数据
	Unreachable = errors.New("游戏未连接")
	// EmptyInput 表示请求缺少必要的数据
	EmptyInput = errors.New("没有可用数据")
	// External 表示外部进程执行失败或输出无法解析
	External = errors.New("外部程序执行失败")
	// BadRequest 表示请求本身格式错误
	BadRequest = errors.New("请求格式错误")
)

// Status 返回错误对应的HTTP状态码
func Status(err error) int {
	switch {
	case errors.Is(err, Unreachable):
		return http.StatusServiceUnavailable
	case errors.Is(err, EmptyInput):
		return http.StatusNotFound
	case errors.Is(err, BadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond 写入统一的失败响应。extra 中的字段会合并到响应体中。
func Respond(c *gin.Context, err error, extra gin.H) {
	body := gin.H{"success": false, "error": err.Error()}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(Status(err), body)
}
