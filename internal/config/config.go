// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 服务器监听端口，如 8000
	Mode    string `toml:"mode"`    // 运行模式：dev / release
	Locale  string `toml:"locale"`  // 参数校验提示语言：zh / en
	TLS     bool   `toml:"tls"`     // 是否开启 HTTPS 重定向
}

// DaoConfig 数据源选择
type DaoConfig struct {
	Driver string `toml:"driver"` // mysql 或 memory（本地演示/测试）
}

// MysqlConfig MySQL 数据库连接配置
type MysqlConfig struct {
	Host         string `toml:"host"`         // MySQL 服务器地址
	Port         int    `toml:"port"`         // MySQL 端口，默认 3306
	User         string `toml:"user"`         // 数据库用户名
	Password     string `toml:"password"`     // 数据库密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
	MaxOpenConns int    `toml:"maxOpenConns"` // 最大连接数
	MaxIdleConns int    `toml:"maxIdleConns"` // 最大空闲连接数
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`  // 是否启用 Redis，关闭时使用进程内缓存
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// CacheConfig 缓存策略配置
type CacheConfig struct {
	PetDetailTTL int `toml:"petDetailTTL"` // 宠物详情缓存秒数
	WorkerNum    int `toml:"workerNum"`    // 异步缓存任务 Worker 数
	TaskChanSize int `toml:"taskChanSize"` // 异步任务缓冲区大小
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 领域事件配置
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // 事件模式："channel" 或 "kafka"
	HostPort    string        `toml:"hostPort"`    // Kafka 服务器地址，如 "localhost:9092"
	EventTopic  string        `toml:"eventTopic"`  // 领养申请事件主题
	GroupID     string        `toml:"groupId"`     // 消费者组
	Timeout     time.Duration `toml:"timeout"`     // 超时时间（秒）
}

// StaticSrcConfig 本地静态资源路径配置
type StaticSrcConfig struct {
	StaticRoot       string `toml:"staticRoot"`       // 本地存储根目录，映射到 /static
	StaticAvatarPath string `toml:"staticAvatarPath"` // 头像子目录
	StaticPhotoPath  string `toml:"staticPhotoPath"`  // 宠物照片子目录
}

// StorageConfig 对象存储配置
type StorageConfig struct {
	Backend     string `toml:"backend"`     // local 或 supabase
	BaseURL     string `toml:"baseURL"`     // local 模式下的对外访问前缀，如 http://localhost:8000
	SupabaseURL string `toml:"supabaseURL"` // supabase 项目地址
	ServiceKey  string `toml:"serviceKey"`  // supabase service role key
	Bucket      string `toml:"bucket"`      // 存储桶
	MaxSizeMB   int    `toml:"maxSizeMB"`   // 单文件大小上限
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret      string `toml:"secret"`      // JWT 签名密钥，建议 32 字符以上
	ExpiryHours int    `toml:"expiryHours"` // Token 有效期（小时），默认 168
}

// RateLimitConfig 接口限流配置
type RateLimitConfig struct {
	Mode              string `toml:"mode"`              // memory 或 redis
	RequestsPerMinute int    `toml:"requestsPerMinute"` // 每个客户端每分钟允许的请求数
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DaoConfig       `toml:"daoConfig"`
	MysqlConfig     `toml:"mysqlConfig"`
	RedisConfig     `toml:"redisConfig"`
	CacheConfig     `toml:"cacheConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	StaticSrcConfig `toml:"staticSrcConfig"`
	StorageConfig   `toml:"storageConfig"`
	JWTConfig       `toml:"jwtConfig"`
	RateLimitConfig `toml:"rateLimitConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// searchPaths 候选配置文件路径（优先加载本地配置）
var searchPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() (*Config, error) {
	for _, path := range searchPaths {
		if conf, err := LoadConfigFrom(path); err == nil {
			return conf, nil
		}
	}
	return nil, fmt.Errorf("could not find configuration file in any of the search paths")
}

// LoadConfigFrom 从指定路径加载配置并补全默认值
func LoadConfigFrom(path string) (*Config, error) {
	conf := new(Config)
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, err
	}
	conf.applyDefaults()
	return conf, nil
}

// Default 返回仅含默认值的配置
func Default() *Config {
	conf := new(Config)
	conf.applyDefaults()
	return conf
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，找不到时使用默认值
func GetConfig() *Config {
	if config == nil {
		conf, err := LoadConfig()
		if err != nil {
			conf = Default()
		}
		config = conf
	}
	return config
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "pet_adoption_server"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.MainConfig.Mode == "" {
		c.MainConfig.Mode = "dev"
	}
	if c.Locale == "" {
		c.Locale = "zh"
	}
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.MysqlConfig.Port == 0 {
		c.MysqlConfig.Port = 3306
	}
	if c.RedisConfig.Port == 0 {
		c.RedisConfig.Port = 6379
	}
	if c.PetDetailTTL == 0 {
		c.PetDetailTTL = 300
	}
	if c.WorkerNum == 0 {
		c.WorkerNum = 8
	}
	if c.TaskChanSize == 0 {
		c.TaskChanSize = 1000
	}
	if c.LogPath == "" {
		c.LogPath = "./logs"
	}
	if c.MessageMode == "" {
		c.MessageMode = "channel"
	}
	if c.EventTopic == "" {
		c.EventTopic = "adoption_events"
	}
	if c.GroupID == "" {
		c.GroupID = "adoption_notifier"
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.StaticRoot == "" {
		c.StaticRoot = "./static"
	}
	if c.StaticAvatarPath == "" {
		c.StaticAvatarPath = "avatars"
	}
	if c.StaticPhotoPath == "" {
		c.StaticPhotoPath = "pets"
	}
	if c.Backend == "" {
		c.Backend = "local"
	}
	if c.Bucket == "" {
		c.Bucket = "pet-photos"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 5
	}
	if c.ExpiryHours == 0 {
		c.ExpiryHours = 168
	}
	if c.RateLimitConfig.Mode == "" {
		c.RateLimitConfig.Mode = "memory"
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = 100
	}
}
