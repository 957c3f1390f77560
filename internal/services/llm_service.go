// internal/services/llm_service.go
package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	apperrors "github.com/TKHatton/adaptive-curriculum-engine/internal/errors"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/llm"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/llm/jsonx"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/models"
	"github.com/TKHatton/adaptive-curriculum-engine/internal/utils"
)

// 生成调用的默认参数
const (
	defaultMaxTokens   = 4000
	defaultTemperature = 0.7
)

// LLMService 生成客户端：对外部模型的唯一出口
// 生成调用是流水线里唯一会阻塞等待的环节，必须有界等待；
// 上游错误在这里统一收口，不向调用方泄露内部细节
type LLMService struct {
	provider      llm.Provider
	providerMutex sync.RWMutex
	timeout       time.Duration
	isReady       bool
	readyState    string
}

// NewLLMService 按提供者名称创建生成客户端
func NewLLMService(providerName string, providerConfig map[string]string, timeout time.Duration) (*LLMService, error) {
	s := &LLMService{
		timeout:    timeout,
		readyState: "未配置",
	}

	if providerConfig["api_key"] == "" {
		// API密钥缺失时服务保持未就绪，生成请求会直接失败
		utils.GetLogger().Warn("LLM服务未配置API密钥", map[string]interface{}{
			"provider": providerName,
		})
		return s, nil
	}

	provider, err := llm.GetProvider(providerName, providerConfig)
	if err != nil {
		return nil, err
	}

	s.provider = provider
	s.isReady = true
	s.readyState = "就绪"

	return s, nil
}

// NewLLMServiceWithProvider 直接注入提供者实例（测试用）
func NewLLMServiceWithProvider(provider llm.Provider, timeout time.Duration) *LLMService {
	return &LLMService{
		provider:   provider,
		timeout:    timeout,
		isReady:    true,
		readyState: "就绪",
	}
}

// IsReady 服务是否可以发起生成调用
func (s *LLMService) IsReady() bool {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.isReady
}

// GetProviderName 当前提供者名称
func (s *LLMService) GetProviderName() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()

	if s.provider == nil {
		return ""
	}
	return s.provider.GetName()
}

// complete 发起一次有界等待的文本生成
func (s *LLMService) complete(ctx context.Context, prompt string) (string, error) {
	s.providerMutex.RLock()
	provider := s.provider
	ready := s.isReady
	s.providerMutex.RUnlock()

	if !ready || provider == nil {
		return "", apperrors.NewGenerationError("Generation service is not configured", nil)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := provider.CompleteText(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		// 超时和传输错误统一按生成失败处理，细节只进日志
		utils.GetLogger().Error("模型调用失败", map[string]interface{}{
			"provider": provider.GetName(),
			"error":    err.Error(),
		})
		return "", apperrors.NewGenerationError("Failed to generate. Please try again later.", err)
	}

	return resp.Text, nil
}

// GenerateScript 生成讲稿，返回模型回复的修剪文本
func (s *LLMService) GenerateScript(ctx context.Context, prompt string) (string, error) {
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// GenerateSlides 生成幻灯片数组
// 模型可能把JSON数组包在说明文字或代码围栏里，按两段恢复策略解析：
// 先扫描第一个配对完整的数组片段，失败后剥离围栏整体解析，
// 两者都失败按 MalformedGenerationOutput 处理
func (s *LLMService) GenerateSlides(ctx context.Context, prompt string) ([]models.Slide, error) {
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)

	// 阶段一：定位配对完整的数组片段
	if candidate, ok := jsonx.ExtractArray(text); ok {
		var slides []models.Slide
		if err := json.Unmarshal([]byte(candidate), &slides); err == nil {
			return slides, nil
		}
	}

	// 阶段二：剥离代码围栏后整体解析
	stripped := jsonx.StripFences(text)
	var slides []models.Slide
	if err := json.Unmarshal([]byte(stripped), &slides); err != nil {
		utils.GetLogger().Error("模型回复无法解析为幻灯片数组", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, apperrors.NewMalformedOutputError("Invalid slides format received from AI", err)
	}

	return slides, nil
}
