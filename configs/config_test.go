// Package configs provides configuration structures and utilities for the
// order/customer backend. This file contains tests for the configuration
// functionality.
//
// Package configs 提供订单/客户后端的配置结构和工具。
// 本文件包含配置功能的测试。
package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that DefaultConfig returns a properly initialized
// Config with the expected default values for important settings.
//
// TestDefaultConfig 验证DefaultConfig返回一个正确初始化的Config，
// 包含重要设置的预期默认值。
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Test default values
	// 测试默认值
	if config.Server.Addr != ":8080" {
		t.Errorf("Expected Server.Addr to be ':8080', got '%s'", config.Server.Addr)
	}
	if config.Store.Engine != "memory" {
		t.Errorf("Expected Store.Engine to be 'memory', got '%s'", config.Store.Engine)
	}
	if config.Cache.ShardCount != 16 {
		t.Errorf("Expected Cache.ShardCount to be 16, got %d", config.Cache.ShardCount)
	}
	if config.Events.Enable {
		t.Error("Expected Events.Enable to be false")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got: %v", err)
	}
}

// TestLoadAndSaveConfig tests the ability to save and load configuration
// to and from files in both YAML and JSON formats.
//
// TestLoadAndSaveConfig 测试将配置保存到文件和从文件加载配置的能力，
// 包括YAML和JSON两种格式。
func TestLoadAndSaveConfig(t *testing.T) {
	// Create a temporary directory for test files
	// 创建测试文件的临时目录
	tempDir, err := os.MkdirTemp("", "weblarek-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Test YAML
	// 测试YAML
	yamlPath := filepath.Join(tempDir, "config.yaml")
	config := DefaultConfig()
	config.Server.Addr = ":9090"
	config.Store.Engine = "mongo"
	config.Cache.TTL = 2 * time.Minute

	// Save config
	// 保存配置
	if err := config.SaveToFile(yamlPath); err != nil {
		t.Fatalf("Failed to save YAML config: %v", err)
	}

	// Load config
	// 加载配置
	loadedConfig, err := LoadFromFile(yamlPath)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}

	// Verify loaded config
	// 验证加载的配置
	if loadedConfig.Server.Addr != ":9090" {
		t.Errorf("Expected Server.Addr to be ':9090', got '%s'", loadedConfig.Server.Addr)
	}
	if loadedConfig.Store.Engine != "mongo" {
		t.Errorf("Expected Store.Engine to be 'mongo', got '%s'", loadedConfig.Store.Engine)
	}
	if loadedConfig.Cache.TTL != 2*time.Minute {
		t.Errorf("Expected Cache.TTL to be 2m, got %v", loadedConfig.Cache.TTL)
	}

	// Test JSON
	// 测试JSON
	jsonPath := filepath.Join(tempDir, "config.json")
	config.Server.Addr = ":7070"
	config.Events.Enable = true
	config.Events.Topic = "orders.test"

	// Save config
	// 保存配置
	if err := config.SaveToFile(jsonPath); err != nil {
		t.Fatalf("Failed to save JSON config: %v", err)
	}

	// Load config
	// 加载配置
	loadedConfig, err = LoadFromFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to load JSON config: %v", err)
	}

	// Verify loaded config
	// 验证加载的配置
	if loadedConfig.Server.Addr != ":7070" {
		t.Errorf("Expected Server.Addr to be ':7070', got '%s'", loadedConfig.Server.Addr)
	}
	if !loadedConfig.Events.Enable {
		t.Error("Expected Events.Enable to be true")
	}
	if loadedConfig.Events.Topic != "orders.test" {
		t.Errorf("Expected Events.Topic to be 'orders.test', got '%s'", loadedConfig.Events.Topic)
	}
}

// TestValidate tests the Validate method to ensure it correctly identifies
// valid and invalid configurations according to the defined constraints.
//
// TestValidate 测试Validate方法，确保它能根据定义的约束
// 正确识别有效和无效的配置。
func TestValidate(t *testing.T) {
	tests := []struct {
		name        string        // Test case name / 测试用例名称
		modifyFunc  func(*Config) // Function to modify config / 修改配置的函数
		expectError bool          // Whether validation should fail / 验证是否应该失败
	}{
		{
			name:        "Valid default config",
			modifyFunc:  func(c *Config) {},
			expectError: false,
		},
		{
			name: "Missing server.addr",
			modifyFunc: func(c *Config) {
				c.Server.Addr = ""
			},
			expectError: true,
		},
		{
			name: "Invalid server.mode",
			modifyFunc: func(c *Config) {
				c.Server.Mode = "turbo"
			},
			expectError: true,
		},
		{
			name: "Unknown store.engine",
			modifyFunc: func(c *Config) {
				c.Store.Engine = "cassandra"
			},
			expectError: true,
		},
		{
			name: "Mongo engine without uri",
			modifyFunc: func(c *Config) {
				c.Store.Engine = "mongo"
				c.Store.URI = ""
			},
			expectError: true,
		},
		{
			name: "Invalid cache.shard_count not power of 2",
			modifyFunc: func(c *Config) {
				c.Cache.ShardCount = 100
			},
			expectError: true,
		},
		{
			name: "Disabled cache skips cache checks",
			modifyFunc: func(c *Config) {
				c.Cache.Enable = false
				c.Cache.ShardCount = 100
			},
			expectError: false,
		},
		{
			name: "Events enabled without brokers",
			modifyFunc: func(c *Config) {
				c.Events.Enable = true
				c.Events.Brokers = nil
			},
			expectError: true,
		},
		{
			name: "Invalid log.level",
			modifyFunc: func(c *Config) {
				c.Log.Level = "invalid"
			},
			expectError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := DefaultConfig()
			test.modifyFunc(config)
			err := config.Validate()
			if test.expectError && err == nil {
				t.Error("Expected validation error, but got nil")
			}
			if !test.expectError && err != nil {
				t.Errorf("Expected no validation error, but got: %v", err)
			}
		})
	}
}

// TestIsPowerOfTwo tests the isPowerOfTwo helper function with various inputs
// to ensure it correctly identifies numbers that are powers of 2.
//
// TestIsPowerOfTwo 使用各种输入测试isPowerOfTwo辅助函数，
// 确保它能正确识别2的幂数。
func TestIsPowerOfTwo(t *testing.T) {
	testCases := []struct {
		n        int  // Input number / 输入数字
		expected bool // Expected result / 预期结果
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{4, true},
		{8, true},
		{10, false},
		{16, true},
		{100, false},
		{256, true},
		{1024, true},
	}

	for _, tc := range testCases {
		result := isPowerOfTwo(tc.n)
		if result != tc.expected {
			t.Errorf("isPowerOfTwo(%d) = %v, expected %v", tc.n, result, tc.expected)
		}
	}
}
