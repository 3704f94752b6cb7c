package eval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os/exec"
	"strings"
)

// Output 是外部进程的执行结果
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner 同步执行外部程序
type Runner interface {
	Run(ctx context.Context, dir, name string, args []string) (Output, error)
}

// ExecRunner 使用 os/exec 启动进程。不设超时，只随 ctx 取消。
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args []string) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return out, err
}

// parseOutput 要求输出恰好是一个JSON值
func parseOutput(stdout []byte) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(stdout))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, &ParseError{Raw: lossyString(stdout), Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Raw: lossyString(stdout), Err: errTrailingData}
	}
	return raw, nil
}

// lossyString 将非法的UTF-8字节替换为替换字符
func lossyString(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
