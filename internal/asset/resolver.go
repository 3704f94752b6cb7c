// Package asset 按游戏虚拟文件系统的顺序查找图标文件
package asset

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// RootFinder 返回游戏安装目录，未知时为空
type RootFinder interface {
	Root(ctx context.Context) string
}

// ModSource 返回最近同步的启用模组列表
type ModSource interface {
	ActiveMods() []string
}

// Resolver 依次在解包目录、安装目录和每个启用模组的目录下查找文件
type Resolver struct {
	log      *zap.Logger
	dataRoot string
	root     RootFinder
	mods     ModSource
}

func NewResolver(log *zap.Logger, dataRoot string, root RootFinder, mods ModSource) *Resolver {
	return &Resolver{log: log, dataRoot: dataRoot, root: root, mods: mods}
}

// cleanRelative 规范化请求路径，拒绝跳出根目录的路径
func cleanRelative(p string) (string, bool) {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", false
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}

// Candidates 返回按优先级排列的候选文件路径
func (r *Resolver) Candidates(ctx context.Context, iconPath string) []string {
	rel, ok := cleanRelative(iconPath)
	if !ok {
		return nil
	}
	relOS := filepath.FromSlash(rel)

	candidates := []string{filepath.Join(r.dataRoot, relOS)}
	root := ""
	if r.root != nil {
		root = r.root.Root(ctx)
	}
	if root == "" {
		return candidates
	}
	candidates = append(candidates, filepath.Join(root, relOS))
	if r.mods != nil {
		for _, mod := range r.mods.ActiveMods() {
			if mod == "" || strings.ContainsAny(mod, `/\`) || mod == ".." {
				continue
			}
			candidates = append(candidates, filepath.Join(root, "mods", mod, relOS))
		}
	}
	return candidates
}

// Lookup 返回第一个存在的普通文件
func (r *Resolver) Lookup(ctx context.Context, iconPath string) (string, bool) {
	for _, p := range r.Candidates(ctx, iconPath) {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, true
		}
	}
	r.log.Debug("找不到图标", zap.String("path", iconPath))
	return "", false
}
