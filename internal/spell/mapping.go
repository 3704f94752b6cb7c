package spell

import (
	"bufio"
	"os"
	"strings"

	"github.com/SlpAus/noita-wand-engine-backend/internal/platform/source"
)

// MappingEntry 是手工维护的法术名称修正
type MappingEntry struct {
	Official string
	Mod      string
	Aliases  string
}

// Mapping 以法术ID为键
type Mapping map[string]MappingEntry

// LoadMapping 读取以 "|" 分隔的映射表。表头与分隔行被忽略，字段不足四个的行被跳过。
// 文件不存在时返回空映射。
func LoadMapping(path string) (Mapping, source.Report) {
	f, err := os.Open(path)
	if err != nil {
		return Mapping{}, source.Failed(path, err)
	}
	defer f.Close()

	m, rep := ParseMapping(bufio.NewScanner(f))
	rep.Path = path
	return m, rep
}

// ParseMapping 从扫描器中逐行解析映射表
func ParseMapping(sc *bufio.Scanner) (Mapping, source.Report) {
	m := make(Mapping)
	rep := source.Report{Status: source.Loaded}

	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "|") || strings.HasPrefix(line, "SPELL ID") || strings.HasPrefix(line, "---") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 4 {
			rep.Skipped++
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		m[parts[0]] = MappingEntry{
			Official: parts[1],
			Mod:      parts[2],
			Aliases:  parts[3],
		}
		rep.Rows++
	}
	if err := sc.Err(); err != nil {
		rep.Status = source.Malformed
		rep.Err = err
	}
	return m, rep
}
