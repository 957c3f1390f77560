// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 存储应用配置
type Config struct {
	Port         string
	OpenAIAPIKey string
	DataDir      string
	LogDir       string
	DebugMode    bool

	// LLM相关配置
	LLMProvider string
	LLMConfig   map[string]string

	// 生成调用的最长等待时间，超时按生成失败处理
	GenerationTimeout time.Duration

	// 上传大小限制（策略可配置）
	MaxDocumentUploadBytes int64
	MaxAudioUploadBytes    int64
	MaxUploadCount         int
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	// 尝试加载.env文件（可选）
	godotenv.Load()

	config := &Config{
		Port:         getEnv("PORT", "8080"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		DataDir:      getEnvPath("DATA_DIR", "data"),
		LogDir:       getEnvPath("LOG_DIR", "logs"),
		DebugMode:    getEnvBool("DEBUG_MODE", true),

		LLMProvider: getEnv("LLM_PROVIDER", "openai"),

		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", 120*time.Second),

		MaxDocumentUploadBytes: getEnvInt64("MAX_DOCUMENT_UPLOAD_BYTES", 15*1024*1024),
		MaxAudioUploadBytes:    getEnvInt64("MAX_AUDIO_UPLOAD_BYTES", 10*1024*1024),
		MaxUploadCount:         int(getEnvInt64("MAX_UPLOAD_COUNT", 5)),
	}

	config.LLMConfig = map[string]string{
		"api_key":       config.OpenAIAPIKey,
		"default_model": getEnv("LLM_MODEL", "gpt-4"),
		"base_url":      getEnv("LLM_BASE_URL", ""),
	}

	// 验证OpenAI API密钥
	if config.OpenAIAPIKey == "" {
		// 只记录警告，不返回错误
		log.Println("警告: 未设置OpenAI API密钥，生成功能将不可用")
	}

	return config, nil
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath 获取环境变量表示的路径，如果不存在则返回默认值
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	// 确保目录存在
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			log.Printf("警告: 创建目录失败 %s: %v", path, err)
		}
	}

	return path
}

// getEnvBool 获取布尔类型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt64 获取整数类型环境变量
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("警告: 环境变量 %s 不是合法整数: %v", key, err)
		return defaultValue
	}
	return parsed
}

// getEnvDuration 获取时长类型环境变量
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("警告: 环境变量 %s 不是合法时长: %v", key, err)
		return defaultValue
	}
	return parsed
}
