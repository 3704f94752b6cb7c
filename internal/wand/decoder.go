package wand

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"sort"
	"strconv"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Mode 区分两种模组的序列化格式
type Mode string

const (
	ModeWandEditor Mode = "wand-editor"
	ModeSpellLab   Mode = "spell-lab"
)

// Decoder 将模组保存的 Lua 序列化字符串解码为JSON
type Decoder interface {
	Decode(ctx context.Context, mode Mode, payload string) (json.RawMessage, error)
}

// LuaDecoder 在进程内用 gopher-lua 求值序列化字符串。
// 每次调用使用独立的虚拟机，只加载基础库。
type LuaDecoder struct {
	log *zap.Logger
}

func NewLuaDecoder(log *zap.Logger) *LuaDecoder {
	return &LuaDecoder{log: log}
}

func (d *LuaDecoder) Decode(ctx context.Context, mode Mode, payload string) (out json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("解码Lua数据时发生panic", zap.Any("panic", r))
			out, err = nil, fmt.Errorf("无法解码 %s 数据: %v", mode, r)
		}
	}()

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)

	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.fn), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return nil, fmt.Errorf("无法加载Lua库 %s: %w", lib.name, err)
		}
	}

	value, err := evalPayload(L, payload)
	if err != nil {
		return nil, err
	}

	out, err = json.Marshal(normalize(mode, toGo(value, 0)))
	if err != nil {
		return nil, fmt.Errorf("无法转换解码结果: %w", err)
	}
	return out, nil
}

// evalPayload 先把负载当作表达式求值，失败时再当作带 return 的代码块执行
func evalPayload(L *lua.LState, payload string) (lua.LValue, error) {
	fn, err := L.LoadString("return " + payload)
	if err != nil {
		fn, err = L.LoadString(payload)
		if err != nil {
			return nil, fmt.Errorf("无法解析Lua数据: %w", err)
		}
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, fmt.Errorf("执行Lua数据失败: %w", err)
	}
	v := L.Get(-1)
	L.Pop(1)
	return v, nil
}

const maxDepth = 32

// maxArrayIndex 限制转换为数组的整数键，更大的键按对象处理
const maxArrayIndex = 1 << 16

// toGo 将 Lua 值转换为可以序列化为JSON的Go值。
// 只含正整数键且足够稠密的表转换为数组，空位为 nil。
func toGo(v lua.LValue, depth int) any {
	switch lv := v.(type) {
	case lua.LBool:
		return bool(lv)
	case lua.LNumber:
		f := float64(lv)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case lua.LString:
		return string(lv)
	case *lua.LTable:
		if depth >= maxDepth {
			return nil
		}
		return tableToGo(lv, depth+1)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, depth int) any {
	count, maxIndex := 0, 0
	arrayLike := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		n, ok := k.(lua.LNumber)
		if !ok || float64(n) != math.Trunc(float64(n)) || n < 1 || float64(n) > maxArrayIndex {
			arrayLike = false
			return
		}
		if int(n) > maxIndex {
			maxIndex = int(n)
		}
	})

	if count == 0 {
		return []any{}
	}
	if arrayLike && maxIndex <= 2*count {
		arr := make([]any, maxIndex)
		t.ForEach(func(k, v lua.LValue) {
			arr[int(k.(lua.LNumber))-1] = toGo(v, depth)
		})
		return arr
	}

	obj := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = strconv.FormatFloat(float64(kv), 'f', -1, 64)
		default:
			return
		}
		obj[key] = toGo(v, depth)
	})
	return obj
}

// normalize 统一顶层结构为法杖数组
func normalize(mode Mode, v any) any {
	switch val := v.(type) {
	case []any:
		return val
	case map[string]any:
		if mode == ModeSpellLab {
			if wands, ok := val["wands"]; ok {
				return normalize(mode, wands)
			}
			if _, ok := val["all_actions"]; ok {
				return []any{val}
			}
		}
		if mode == ModeWandEditor {
			if _, ok := val["spells"]; ok {
				return []any{val}
			}
		}
		// 稀疏的数字键表：按键排序转为数组
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, errA := strconv.ParseFloat(keys[i], 64)
			b, errB := strconv.ParseFloat(keys[j], 64)
			if errA == nil && errB == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		arr := make([]any, 0, len(keys))
		for _, k := range keys {
			arr = append(arr, val[k])
		}
		return arr
	default:
		return []any{}
	}
}

// ExternalDecoder 调用外部 luajit 辅助脚本解码，输入通过临时文件传递
type ExternalDecoder struct {
	log    *zap.Logger
	luajit string
	helper string
}

func NewExternalDecoder(log *zap.Logger, luajit, helper string) *ExternalDecoder {
	return &ExternalDecoder{log: log, luajit: luajit, helper: helper}
}

func (d *ExternalDecoder) Decode(ctx context.Context, mode Mode, payload string) (json.RawMessage, error) {
	tmp, err := os.CreateTemp("", "wand-import-*.txt")
	if err != nil {
		return nil, fmt.Errorf("无法创建临时文件: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(payload); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("无法写入临时文件: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.luajit, d.helper, string(mode), tmp.Name())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			d.log.Warn("导入辅助脚本执行失败", zap.String("mode", string(mode)), zap.String("stderr", stderr.String()))
		}
		return nil, fmt.Errorf("导入辅助脚本执行失败: %w", err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if !json.Valid(out) {
		return nil, fmt.Errorf("导入辅助脚本输出不是有效的JSON")
	}
	return json.RawMessage(out), nil
}

// NewDecoder 根据配置选择解码方式
func NewDecoder(log *zap.Logger, kind, luajit, helper string) Decoder {
	if kind == "luajit" {
		return NewExternalDecoder(log, luajit, helper)
	}
	return NewLuaDecoder(log)
}
