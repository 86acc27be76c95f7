// Package config 负责加载应用程序配置
// 配置来源优先级: 环境变量 > 配置文件 > 默认值
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 NOTEAPI_DATABASE_DSN
const EnvPrefix = "NOTEAPI"

// Config 应用程序总配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`          // HTTP端口
	EnableHTTPS  bool   `mapstructure:"enable_https"`  // 是否启用HTTPS
	EnableHTTP2  bool   `mapstructure:"enable_http2"`  // HTTPS下是否启用HTTP/2
	TLSCertFile  string `mapstructure:"tls_cert_file"` // 证书路径
	TLSKeyFile   string `mapstructure:"tls_key_file"`  // 私钥路径
	ReadTimeout  int    `mapstructure:"read_timeout"`  // 读超时（秒）
	WriteTimeout int    `mapstructure:"write_timeout"` // 写超时（秒）
	Mode         string `mapstructure:"mode"`          // gin模式: debug, release, test
	Language     string `mapstructure:"language"`      // 默认错误消息语言
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // 目前仅支持sqlite
	DSN             string `mapstructure:"dsn"`               // 数据源
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大打开连接
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最长生命周期（秒），0表示不限制
	LogLevel        string `mapstructure:"log_level"`         // SQL日志级别: silent, error, warn, info
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // debug, info, warn, error
	Format   string `mapstructure:"format"`    // json, text
	Output   string `mapstructure:"output"`    // console, file, both
	FilePath string `mapstructure:"file_path"` // 日志文件路径
}

// AuthConfig 身份配置
// 身份令牌由上游网关校验，这里只读取网关写入的用户ID请求头
type AuthConfig struct {
	UserIDHeader string `mapstructure:"user_id_header"`
}

// setDefaults 注册所有配置项的默认值
// 环境变量只会覆盖已注册的键，所以每个键都必须在这里出现
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.enable_https", false)
	v.SetDefault("server.enable_http2", true)
	v.SetDefault("server.tls_cert_file", "")
	v.SetDefault("server.tls_key_file", "")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.language", "en-US")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/notes.db")
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 0)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file_path", "logs/app.log")

	v.SetDefault("auth.user_id_header", "X-User-ID")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load 从工作目录或 ./config 下的 config.{yaml,toml,json} 加载配置
// 配置文件不存在时只使用默认值和环境变量
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return decode(v)
}

// LoadFile 从指定路径加载配置文件
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置的基本合法性
func (c *Config) Validate() error {
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.Server.EnableHTTPS && (c.Server.TLSCertFile == "" || c.Server.TLSKeyFile == "") {
		return errors.New("server.tls_cert_file and server.tls_key_file are required when HTTPS is enabled")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported server.mode: %s", c.Server.Mode)
	}
	if c.Auth.UserIDHeader == "" {
		return errors.New("auth.user_id_header is required")
	}
	return nil
}
