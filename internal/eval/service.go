package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Options 是模拟器的位置和数据目录
type Options struct {
	LuaJIT    string
	Dir       string
	DataRoot  string
	SyncModID string
}

// OverlaySource 提供最近一次同步缓存的模组信息
type OverlaySource interface {
	ActiveMods() []string
	Appends() map[string]string
}

// ModLister 在线查询启用的模组
type ModLister interface {
	ActiveMods(ctx context.Context) ([]string, error)
}

// RootFinder 返回游戏安装目录，未知时为空
type RootFinder interface {
	Root(ctx context.Context) string
}

// Service 负责一次完整的评估：准备临时模组、生成参数、执行并解析输出
type Service struct {
	log     *zap.Logger
	opts    Options
	overlay OverlaySource
	game    ModLister
	root    RootFinder
	runner  Runner
}

func NewService(log *zap.Logger, opts Options, overlay OverlaySource, game ModLister, root RootFinder, runner Runner) *Service {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Service{log: log, opts: opts, overlay: overlay, game: game, root: root, runner: runner}
}

// Evaluate 执行评估并原样返回模拟器的JSON输出
func (s *Service) Evaluate(ctx context.Context, req Request) (json.RawMessage, error) {
	if len(req.Slots()) == 0 {
		return nil, ErrNoSpells
	}

	scratch, err := NewScratch(s.opts.Dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := scratch.Close(); err != nil {
			s.log.Warn("无法删除临时模组目录", zap.String("dir", scratch.Dir), zap.Error(err))
		}
	}()

	appendFiles, err := scratch.WriteAppends(s.overlay.Appends())
	if err != nil {
		return nil, err
	}
	if err := scratch.WriteInit(MockScript(req.Conditions, appendFiles)); err != nil {
		return nil, err
	}

	args := BuildArgs(req, Invocation{
		DataRoot:   s.opts.DataRoot,
		GameRoot:   s.root.Root(ctx),
		ScratchMod: scratch.ID,
		Mods:       s.activeMods(ctx),
		SyncModID:  s.opts.SyncModID,
	})
	s.log.Info("开始评估", zap.String("dir", s.opts.Dir), zap.String("cmd", s.opts.LuaJIT+" "+strings.Join(args, " ")))

	out, err := s.runner.Run(ctx, s.opts.Dir, s.opts.LuaJIT, args)
	if err != nil {
		return nil, &ProcessError{ExitCode: -1, Stderr: err.Error(), Err: err}
	}
	if out.ExitCode != 0 {
		stderr := lossyString(out.Stderr)
		s.log.Warn("评估进程退出码非零", zap.Int("code", out.ExitCode), zap.String("stderr", stderr))
		return nil, &ProcessError{ExitCode: out.ExitCode, Stderr: stderr}
	}

	result, err := parseOutput(out.Stdout)
	if err != nil {
		s.log.Warn("无法解析评估输出", zap.Error(err), zap.Int("bytes", len(out.Stdout)))
		return nil, err
	}
	return result, nil
}

// activeMods 优先在线查询，失败或为空时使用缓存的列表
func (s *Service) activeMods(ctx context.Context) []string {
	if s.game != nil {
		mods, err := s.game.ActiveMods(ctx)
		if err == nil && len(mods) > 0 {
			return mods
		}
		if err != nil {
			s.log.Debug("无法在线获取模组列表，使用缓存", zap.Error(err))
		}
	}
	return s.overlay.ActiveMods()
}

// Describe 返回将要执行的完整命令，用于调试输出
func (s *Service) Describe(ctx context.Context, req Request) (string, error) {
	if len(req.Slots()) == 0 {
		return "", ErrNoSpells
	}
	args := BuildArgs(req, Invocation{
		DataRoot:   s.opts.DataRoot,
		GameRoot:   s.root.Root(ctx),
		ScratchMod: ScratchPrefix + "preview",
		Mods:       s.overlay.ActiveMods(),
		SyncModID:  s.opts.SyncModID,
	})
	return fmt.Sprintf("cd %s && %s %s", s.opts.Dir, s.opts.LuaJIT, strings.Join(args, " ")), nil
}
