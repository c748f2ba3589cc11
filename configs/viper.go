package configs

// This file implements viper-based configuration management with hot
// reloading, either through fsnotify events or a polling watcher for
// filesystems where notifications are unreliable.
//
// 本文件实现基于viper的配置管理与热重载，可通过fsnotify事件，
// 或在文件系统通知不可靠时使用轮询监视器。

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ViperConfig wraps a Config with viper for reloading. Access through Get is
// thread-safe; subscribers are notified with each validated new Config.
//
// ViperConfig 使用viper包装Config以支持重载。通过Get的访问是线程安全的；
// 每个通过验证的新Config都会通知订阅者。
type ViperConfig struct {
	*Config
	viper       *viper.Viper
	configFile  string
	mu          sync.RWMutex
	subscribers []func(*Config)
}

// NewViperConfig loads and validates the configuration file.
// NewViperConfig 加载并验证配置文件。
func NewViperConfig(configFile string) (*ViperConfig, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &ViperConfig{
		Config:      config,
		viper:       v,
		configFile:  configFile,
		subscribers: make([]func(*Config), 0),
	}, nil
}

// EnableHotReload re-reads and applies the configuration whenever the file
// changes. An edit that fails to parse or validate is logged and skipped; the
// previous configuration stays in force.
//
// EnableHotReload 在文件变化时重新读取并应用配置。解析或验证失败的修改
// 会被记录并跳过；先前的配置继续生效。
func (vc *ViperConfig) EnableHotReload() {
	vc.viper.WatchConfig()
	vc.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("Config file changed: %s", e.Name)

		newConfig := DefaultConfig()
		if err := vc.viper.Unmarshal(newConfig); err != nil {
			log.Printf("Failed to unmarshal config: %v", err)
			return
		}
		if err := newConfig.Validate(); err != nil {
			log.Printf("Invalid configuration: %v", err)
			return
		}

		vc.apply(newConfig)
	})
}

// apply swaps in the new configuration and notifies subscribers outside the
// lock.
//
// apply 换入新配置，并在锁外通知订阅者。
func (vc *ViperConfig) apply(newConfig *Config) {
	vc.mu.Lock()
	vc.Config = newConfig
	subscribers := make([]func(*Config), len(vc.subscribers))
	copy(subscribers, vc.subscribers)
	vc.mu.Unlock()

	for _, subscriber := range subscribers {
		subscriber(newConfig)
	}
}

// Subscribe registers a function called with each new configuration.
// Subscribe 注册一个函数，每个新配置都会调用它。
func (vc *ViperConfig) Subscribe(subscriber func(*Config)) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.subscribers = append(vc.subscribers, subscriber)
}

// Get returns the current configuration. Safe for concurrent use.
// Get 返回当前配置。可并发使用。
func (vc *ViperConfig) Get() *Config {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.Config
}

// LoadViperConfig loads a configuration file, optionally watching it for
// changes.
//
// LoadViperConfig 加载配置文件，可选择监视其变化。
func LoadViperConfig(configFile string, enableHotReload bool) (*ViperConfig, error) {
	vc, err := NewViperConfig(configFile)
	if err != nil {
		return nil, err
	}
	if enableHotReload {
		vc.EnableHotReload()
	}
	return vc, nil
}

// LoadViperConfigWithWatcher loads a configuration file and polls it at the
// given interval instead of relying on fsnotify events.
//
// LoadViperConfigWithWatcher 加载配置文件，并按给定间隔轮询它，
// 而不依赖fsnotify事件。
func LoadViperConfigWithWatcher(configFile string, watchInterval time.Duration) (*ViperConfig, error) {
	vc, err := NewViperConfig(configFile)
	if err != nil {
		return nil, err
	}

	go func() {
		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for range ticker.C {
			if err := vc.viper.ReadInConfig(); err != nil {
				log.Printf("Failed to read config file: %v", err)
				continue
			}

			newConfig := DefaultConfig()
			if err := vc.viper.Unmarshal(newConfig); err != nil {
				log.Printf("Failed to unmarshal config: %v", err)
				continue
			}
			if err := newConfig.Validate(); err != nil {
				log.Printf("Invalid configuration: %v", err)
				continue
			}

			vc.mu.RLock()
			changed := !configsEqual(vc.Config, newConfig)
			vc.mu.RUnlock()

			if changed {
				log.Printf("Config file changed: %s", configFile)
				vc.apply(newConfig)
			}
		}
	}()

	return vc, nil
}

// configsEqual compares two configs by their string representation, which is
// enough to detect any field change.
//
// configsEqual 通过字符串表示比较两个配置，足以检测任何字段变化。
func configsEqual(c1, c2 *Config) bool {
	return fmt.Sprintf("%v", c1) == fmt.Sprintf("%v", c2)
}
