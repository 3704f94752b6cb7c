package config

import (
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Data     DataConfig     `mapstructure:"data"`
	Eval     EvalConfig     `mapstructure:"eval"`
	Phonetic PhoneticConfig `mapstructure:"phonetic"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Health   HealthConfig   `mapstructure:"health"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode         string     `mapstructure:"mode"`
	Address      string     `mapstructure:"address"`
	FrontendDist string     `mapstructure:"frontendDist"`
	Cors         CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// GameConfig 定义了与游戏进程通信的配置
type GameConfig struct {
	// Address 是游戏内同步模组监听的本地地址
	Address string `mapstructure:"address"`
	// RootProbeTimeout 用于探测安装目录的短超时
	RootProbeTimeout time.Duration `mapstructure:"rootProbeTimeout"`
	// DataTimeout 用于需要游戏序列化大量数据的指令
	DataTimeout time.Duration `mapstructure:"dataTimeout"`
	// KnownRoots 是常见的游戏安装目录，按顺序探测
	KnownRoots []string `mapstructure:"knownRoots"`
	// SaveDir 是存档目录 (save00)，用于读取 mod_config.xml
	SaveDir string `mapstructure:"saveDir"`
	// SyncModID 是游戏侧同步模组的ID，不会被转发给模拟器
	SyncModID string `mapstructure:"syncModID"`
}

// DataConfig 定义了解包后的游戏数据位置
type DataConfig struct {
	Root             string   `mapstructure:"root"`
	TranslationFiles []string `mapstructure:"translationFiles"`
	MappingFile      string   `mapstructure:"mappingFile"`
	StaticExport     string   `mapstructure:"staticExport"`
}

// EvalConfig 定义了外部模拟器的配置
type EvalConfig struct {
	LuaJIT       string `mapstructure:"luajit"`
	Dir          string `mapstructure:"dir"`
	ImportHelper string `mapstructure:"importHelper"`
	// Decoder 选择导入数据的解码方式: "embedded" (进程内Lua) 或 "luajit" (外部辅助脚本)
	Decoder string `mapstructure:"decoder"`
}

// PhoneticConfig 定义了拼音索引的配置
type PhoneticConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig 定义了日志输出的配置
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" 或 "console"
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	Redis  RedisConfig  `mapstructure:"redis"`
	Sqlite SqliteConfig `mapstructure:"sqlite"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SqliteConfig 定义了导出数据库的配置
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// HealthConfig 定义了游戏连接检查器的配置
type HealthConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 找不到配置文件时使用默认值，而不是报错
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 允许通过环境变量覆盖配置，例如 GAME_ADDRESS=127.0.0.1:12345
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.address", "0.0.0.0:17471")
	v.SetDefault("server.frontendDist", "./frontend/dist")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:5173", "http://127.0.0.1:17471"})

	v.SetDefault("game.address", "127.0.0.1:12345")
	v.SetDefault("game.rootProbeTimeout", 500*time.Millisecond)
	v.SetDefault("game.dataTimeout", 15*time.Second)
	v.SetDefault("game.knownRoots", []string{
		"E:/software/steam/steamapps/common/Noita",
		"C:/SteamLibrary/steamapps/common/Noita",
		"C:/Program Files (x86)/Steam/steamapps/common/Noita",
	})
	v.SetDefault("game.saveDir", defaultSaveDir())
	v.SetDefault("game.syncModID", "wand_sync")

	v.SetDefault("data.root", "./noitadata")
	v.SetDefault("data.translationFiles", []string{
		"data/translations/common.csv",
		"data/translations/common_dev.csv",
		"./translations_override.csv",
	})
	v.SetDefault("data.mappingFile", "./spell_mapping.md")
	v.SetDefault("data.staticExport", "./static_data/spells.json")

	v.SetDefault("eval.luajit", "luajit")
	v.SetDefault("eval.dir", "./wand_eval_tree")
	v.SetDefault("eval.importHelper", "./import_helper.lua")
	v.SetDefault("eval.decoder", "embedded")

	v.SetDefault("phonetic.enabled", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.redis.enabled", false)
	v.SetDefault("database.redis.address", "127.0.0.1:6379")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("database.sqlite.path", "./catalog.db")

	v.SetDefault("health.interval", 5*time.Second)
}

// defaultSaveDir 返回当前平台下 Noita 存档目录的默认位置
func defaultSaveDir() string {
	if runtime.GOOS == "windows" {
		return "${USERPROFILE}/AppData/LocalLow/Nolla_Games_Noita/save00"
	}
	return ""
}
