package eval

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// ScratchPrefix 是临时模组目录名的前缀
const ScratchPrefix = "twwe_mock_"

// Scratch 是单次评估独占的临时模组目录，位于模拟器的 mods/ 下
type Scratch struct {
	ID  string
	Dir string
}

// NewScratch 在 evalDir/mods 下创建一个唯一命名的目录
func NewScratch(evalDir string) (*Scratch, error) {
	id := ScratchPrefix + uuid.NewString()
	dir := filepath.Join(evalDir, "mods", id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("无法创建临时模组目录: %w", err)
	}
	return &Scratch{ID: id, Dir: dir}, nil
}

// WriteAppends 将每段追加脚本写成单独的文件，按原路径排序以保证顺序稳定。
// 返回这些文件在模拟器虚拟文件系统中的路径。
func (s *Scratch) WriteAppends(appends map[string]string) ([]string, error) {
	keys := make([]string, 0, len(appends))
	for k := range appends {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	files := make([]string, 0, len(keys))
	for i, k := range keys {
		name := "gen_" + strconv.Itoa(i) + ".lua"
		if err := os.WriteFile(filepath.Join(s.Dir, name), []byte(appends[k]), 0o644); err != nil {
			return nil, fmt.Errorf("无法写入追加脚本 %s: %w", k, err)
		}
		files = append(files, path.Join("mods", s.ID, name))
	}
	return files, nil
}

// WriteInit 写入模组的 init.lua
func (s *Scratch) WriteInit(script string) error {
	if err := os.WriteFile(filepath.Join(s.Dir, "init.lua"), []byte(script), 0o644); err != nil {
		return fmt.Errorf("无法写入 init.lua: %w", err)
	}
	return nil
}

// Close 删除整个目录
func (s *Scratch) Close() error {
	return os.RemoveAll(s.Dir)
}
