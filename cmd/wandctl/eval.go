package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/SlpAus/noita-wand-engine-backend/internal/eval"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRun bool
	pretty bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <wand.json>",
	Short: "评估一个法杖并输出模拟器的结果",
	Long:  `读取与 /api/evaluate 相同格式的请求文件，调用 wand_eval_tree 并把结果写到标准输出。`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

func init() {
	evalCmd.Flags().BoolVar(&dryRun, "dry-run", false, "只打印将要执行的命令")
	evalCmd.Flags().BoolVar(&pretty, "pretty", false, "格式化输出JSON")
}

func runEval(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("无法读取请求文件: %w", err)
	}
	var req eval.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("请求文件格式错误: %w", err)
	}

	app, cleanup, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	if dryRun {
		line, err := app.Eval.Describe(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, line)
		return nil
	}

	result, err := app.Eval.Evaluate(cmd.Context(), req)
	if err != nil {
		var procErr *eval.ProcessError
		if errors.As(err, &procErr) && procErr.Stderr != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), procErr.Stderr)
		}
		app.Log.Error("评估失败", zap.Error(err))
		return err
	}

	return writeResult(out, result, pretty)
}

// writeResult 输出模拟器结果，格式化时保留原始的键顺序与数字文本
func writeResult(out io.Writer, result []byte, pretty bool) error {
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, result, "", "  "); err == nil {
			buf.WriteByte('\n')
			_, err = out.Write(buf.Bytes())
			return err
		}
	}
	_, err := fmt.Fprintln(out, string(result))
	return err
}
