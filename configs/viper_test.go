// Package configs provides configuration structures and utilities for the
// order/customer backend. This file contains tests for the viper-based
// configuration functionality.
//
// Package configs 提供订单/客户后端的配置结构和工具。
// 本文件包含基于viper的配置功能的测试。
package configs

import (
	"strings"
	"testing"
	"time"
)

// TestViperConfigWithReader tests configuration loading using a reader
// instead of actual files to avoid filesystem dependencies. It verifies that
// configuration values are correctly parsed from YAML content.
//
// TestViperConfigWithReader 使用读取器而不是实际文件测试配置加载，
// 以避免文件系统依赖。它验证配置值是否正确地从YAML内容解析。
func TestViperConfigWithReader(t *testing.T) {
	// Create a YAML config as a string
	// 创建一个YAML配置字符串
	yamlConfig := `
server:
  addr: ":9000"
  mode: "debug"
store:
  engine: "mongo"
  uri: "mongodb://db:27017"
  database: "shop"
cache:
  enable: true
  shard_count: 64
  ttl: 90s
events:
  enable: true
  brokers: ["kafka:9092"]
  topic: "orders.lifecycle"
`

	// Load config from reader
	// 从读取器加载配置
	reader := strings.NewReader(yamlConfig)
	config, err := LoadFromReader(reader, "yaml")
	if err != nil {
		t.Fatalf("Failed to load config from reader: %v", err)
	}

	// Verify config values
	// 验证配置值
	if config.Server.Addr != ":9000" {
		t.Errorf("Expected Server.Addr to be ':9000', got '%s'", config.Server.Addr)
	}
	if config.Store.Engine != "mongo" {
		t.Errorf("Expected Store.Engine to be 'mongo', got '%s'", config.Store.Engine)
	}
	if config.Store.Database != "shop" {
		t.Errorf("Expected Store.Database to be 'shop', got '%s'", config.Store.Database)
	}
	if config.Cache.ShardCount != 64 {
		t.Errorf("Expected Cache.ShardCount to be 64, got %d", config.Cache.ShardCount)
	}
	if config.Cache.TTL != 90*time.Second {
		t.Errorf("Expected Cache.TTL to be 90s, got %s", config.Cache.TTL)
	}
	if len(config.Events.Brokers) != 1 || config.Events.Brokers[0] != "kafka:9092" {
		t.Errorf("Expected Events.Brokers to be ['kafka:9092'], got %v", config.Events.Brokers)
	}

	// Unspecified sections retain their defaults
	// 未指定的部分保留其默认值
	if config.Log.Level != "info" {
		t.Errorf("Expected Log.Level default 'info', got '%s'", config.Log.Level)
	}
}

// TestConfigsEqual tests the configsEqual helper function to ensure it
// correctly identifies when two configurations are equal or different.
//
// TestConfigsEqual 测试configsEqual辅助函数，确保它能正确识别
// 两个配置何时相等或不同。
func TestConfigsEqual(t *testing.T) {
	config1 := DefaultConfig()
	config2 := DefaultConfig()

	// Same configs should be equal
	// 相同的配置应该相等
	if !configsEqual(config1, config2) {
		t.Error("configsEqual() returned false for identical configs")
	}

	// Different configs should not be equal
	// 不同的配置不应该相等
	config2.Server.Addr = ":9999"
	if configsEqual(config1, config2) {
		t.Error("configsEqual() returned true for different configs")
	}
}
