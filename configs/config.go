// Package configs provides configuration structures and utilities for the
// order/customer backend. It offers mechanisms for loading, validating, and
// saving configuration from YAML and JSON files, plus a viper-backed watcher
// for applying changes without a restart.
//
// Package configs 提供订单/客户后端的配置结构和工具。
// 它提供从YAML和JSON文件加载、验证和保存配置的机制，
// 以及基于viper的监视器，可在不重启的情况下应用变更。
package configs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for the backend,
// organized into logical sections for different components.
//
// Config 表示后端的完整配置，按不同组件的逻辑部分进行组织。
type Config struct {
	// Server contains the HTTP listener settings
	// Server 包含HTTP监听器设置
	Server ServerConfig `json:"server" yaml:"server"`

	// Store selects and configures the storage engine
	// Store 选择并配置存储引擎
	Store StoreConfig `json:"store" yaml:"store"`

	// Cache configures the read-through product cache
	// Cache 配置产品读透缓存
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Events configures the order lifecycle event publisher
	// Events 配置订单生命周期事件发布器
	Events EventsConfig `json:"events" yaml:"events"`

	// Log configures the logging behavior
	// Log 配置日志行为
	Log LogConfig `json:"log" yaml:"log"`

	// Extensions configures optional features like hot reloading
	// Extensions 配置可选功能，如热重载
	Extensions ExtensionsConfig `json:"extensions" yaml:"extensions"`
}

// ServerConfig contains settings for the HTTP listener.
// ServerConfig 包含HTTP监听器的设置。
type ServerConfig struct {
	// Addr is the listen address, host:port
	// Addr 是监听地址，host:port
	Addr string `json:"addr" yaml:"addr"`

	// Mode is the gin mode ("debug", "release", "test")
	// Mode 是gin模式（"debug"、"release"、"test"）
	Mode string `json:"mode" yaml:"mode"`

	// ReadTimeout bounds how long reading a request may take
	// ReadTimeout 限制读取请求的最长时间
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds how long writing a response may take
	// WriteTimeout 限制写入响应的最长时间
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown on SIGTERM
	// ShutdownTimeout 限制SIGTERM时的优雅关闭时间
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// StoreConfig contains settings for the storage engine.
// StoreConfig 包含存储引擎的设置。
type StoreConfig struct {
	// Engine determines the storage implementation ("mongo", "memory")
	// Engine 确定存储实现（"mongo"、"memory"）
	Engine string `json:"engine" yaml:"engine"`

	// URI is the mongodb connection string when Engine is "mongo"
	// URI 是Engine为"mongo"时的mongodb连接串
	URI string `json:"uri" yaml:"uri"`

	// Database is the database name on the mongo engine
	// Database 是mongo引擎上的数据库名
	Database string `json:"database" yaml:"database"`

	// ConnectTimeout bounds the initial connection and ping
	// ConnectTimeout 限制初始连接与ping的时间
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
}

// CacheConfig contains settings for the product read-through cache.
// CacheConfig 包含产品读透缓存的设置。
type CacheConfig struct {
	// Enable determines whether product reads go through the cache
	// Enable 确定产品读取是否经过缓存
	Enable bool `json:"enable" yaml:"enable"`

	// ShardCount is the number of shards for reducing lock contention (must be power of 2)
	// ShardCount 是用于减少锁竞争的分片数量（必须是2的幂）
	ShardCount int `json:"shard_count" yaml:"shard_count"`

	// TTL is the time-to-live for cached products
	// TTL 是缓存产品的生存时间
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// CleanupInterval is how often expired items are removed
	// CleanupInterval 是清除过期项目的频率
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
}

// EventsConfig contains settings for the order lifecycle publisher.
// EventsConfig 包含订单生命周期发布器的设置。
type EventsConfig struct {
	// Enable determines whether lifecycle events are published
	// Enable 确定是否发布生命周期事件
	Enable bool `json:"enable" yaml:"enable"`

	// Brokers lists the kafka bootstrap brokers
	// Brokers 列出kafka引导broker
	Brokers []string `json:"brokers" yaml:"brokers"`

	// Topic is the kafka topic carrying order events
	// Topic 是承载订单事件的kafka主题
	Topic string `json:"topic" yaml:"topic"`
}

// LogConfig contains settings for logging.
// LogConfig 包含日志记录的设置。
type LogConfig struct {
	// Level sets the minimum log level ("debug", "info", "warn", "error")
	// Level 设置最低日志级别（"debug"、"info"、"warn"、"error"）
	Level string `json:"level" yaml:"level"`

	// Format specifies the log format ("text", "json")
	// Format 指定日志格式（"text"、"json"）
	Format string `json:"format" yaml:"format"`
}

// ExtensionsConfig contains settings for extensions.
// ExtensionsConfig 包含扩展的设置。
type ExtensionsConfig struct {
	// HotReload contains settings for dynamic configuration reloading
	// HotReload 包含动态配置重新加载的设置
	HotReload HotReloadConfig `json:"hot_reload" yaml:"hot_reload"`
}

// HotReloadConfig contains settings for hot reloading.
// HotReloadConfig 包含热重载的设置。
type HotReloadConfig struct {
	// Enable determines whether hot reloading is active
	// Enable 确定是否启用热重载
	Enable bool `json:"enable" yaml:"enable"`

	// WatchInterval is how often to check for configuration changes
	// WatchInterval 是检查配置更改的频率
	WatchInterval time.Duration `json:"watch_interval" yaml:"watch_interval"`
}

// DefaultConfig returns a new Config with default values. The defaults run a
// development server on the memory engine with caching on and events off.
//
// DefaultConfig 返回具有默认值的新Config。默认值在memory引擎上运行开发
// 服务器，缓存开启，事件关闭。
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Engine:         "memory",
			URI:            "mongodb://localhost:27017",
			Database:       "weblarek",
			ConnectTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enable:          true,
			ShardCount:      16,
			TTL:             5 * time.Minute,
			CleanupInterval: time.Minute,
		},
		Events: EventsConfig{
			Enable:  false,
			Brokers: []string{"localhost:9092"},
			Topic:   "orders.lifecycle",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Extensions: ExtensionsConfig{
			HotReload: HotReloadConfig{
				Enable:        false,
				WatchInterval: 30 * time.Second,
			},
		},
	}
}

// LoadFromFile loads configuration from a file. It supports both YAML and
// JSON formats, detecting the format from the file extension.
//
// LoadFromFile 从文件加载配置。它支持YAML和JSON格式，
// 根据文件扩展名检测格式。
func LoadFromFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer file.Close()

	config := DefaultConfig()
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(file).Decode(config)
	case ".json":
		err = json.NewDecoder(file).Decode(config)
	default:
		return nil, fmt.Errorf("unsupported configuration file format: %s", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return config, nil
}

// LoadFromReader loads configuration from an io.Reader in the given format
// ("json", "yaml" or "yml").
//
// LoadFromReader 以给定格式（"json"、"yaml"或"yml"）从io.Reader加载配置。
func LoadFromReader(r io.Reader, format string) (*Config, error) {
	config := DefaultConfig()
	var err error

	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(config)
	case "json":
		err = json.NewDecoder(r).Decode(config)
	default:
		return nil, fmt.Errorf("unsupported configuration format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a file, selecting YAML or JSON from the
// file extension.
//
// SaveToFile 将配置保存到文件，根据文件扩展名选择YAML或JSON。
func (c *Config) SaveToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".yaml", ".yml":
		encoder := yaml.NewEncoder(file)
		defer encoder.Close()
		err = encoder.Encode(c)
	case ".json":
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(c)
	default:
		return fmt.Errorf("unsupported configuration file format: %s", ext)
	}

	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	return nil
}

// Validate validates the configuration. It checks that all settings have
// valid values and that there are no conflicts or inconsistencies.
//
// Validate 验证配置。它检查所有设置是否具有有效值，并且没有冲突或不一致。
func (c *Config) Validate() error {
	// Validate server settings
	// 验证服务器设置
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be specified")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
		// Valid modes
		// 有效模式
	default:
		return fmt.Errorf("server.mode must be one of: debug, release, test")
	}
	if c.Server.ReadTimeout < time.Second {
		return fmt.Errorf("server.read_timeout must be at least 1 second")
	}
	if c.Server.WriteTimeout < time.Second {
		return fmt.Errorf("server.write_timeout must be at least 1 second")
	}
	if c.Server.ShutdownTimeout < time.Second {
		return fmt.Errorf("server.shutdown_timeout must be at least 1 second")
	}

	// Validate store settings
	// 验证存储设置
	switch c.Store.Engine {
	case "mongo":
		if c.Store.URI == "" {
			return fmt.Errorf("store.uri must be specified when store.engine is 'mongo'")
		}
		if c.Store.Database == "" {
			return fmt.Errorf("store.database must be specified when store.engine is 'mongo'")
		}
		if c.Store.ConnectTimeout < time.Second {
			return fmt.Errorf("store.connect_timeout must be at least 1 second")
		}
	case "memory":
		// No engine-specific settings
		// 无引擎特定设置
	default:
		return fmt.Errorf("store.engine must be one of: mongo, memory")
	}

	// Validate cache settings
	// 验证缓存设置
	if c.Cache.Enable {
		if c.Cache.ShardCount <= 0 {
			return fmt.Errorf("cache.shard_count must be positive")
		}
		if !isPowerOfTwo(c.Cache.ShardCount) {
			return fmt.Errorf("cache.shard_count must be a power of 2")
		}
		if c.Cache.TTL < time.Second {
			return fmt.Errorf("cache.ttl must be at least 1 second")
		}
		if c.Cache.CleanupInterval < time.Second {
			return fmt.Errorf("cache.cleanup_interval must be at least 1 second")
		}
	}

	// Validate events settings
	// 验证事件设置
	if c.Events.Enable {
		if len(c.Events.Brokers) == 0 {
			return fmt.Errorf("events.brokers must be specified when events are enabled")
		}
		if c.Events.Topic == "" {
			return fmt.Errorf("events.topic must be specified when events are enabled")
		}
	}

	// Validate log settings
	// 验证日志设置
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
		// 有效级别
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
		// Valid formats
		// 有效格式
	default:
		return fmt.Errorf("log.format must be one of: text, json")
	}

	// Validate extensions settings
	// 验证扩展设置
	if c.Extensions.HotReload.Enable && c.Extensions.HotReload.WatchInterval < time.Second {
		return fmt.Errorf("extensions.hot_reload.watch_interval must be at least 1 second")
	}

	return nil
}

// isPowerOfTwo checks if n is a power of 2, which the sharded cache requires
// for mask-based shard selection.
//
// isPowerOfTwo 检查n是否为2的幂，分片缓存基于掩码的分片选择需要这一点。
func isPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}
