/**
 * Package ai AI 服务基础设施层
 *
 * 提供模型工厂和配置管理
 */

package ai

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

/**
 * AIConfig AI 模型通用配置
 */
type AIConfig struct {
	// Provider 模型提供商（目前仅支持 claude）
	Provider string

	// APIKey API 密钥
	APIKey string

	// Model 模型名称
	Model string

	// BaseURL API 基础 URL（可选）
	BaseURL *string

	// MaxTokens 最大生成 token 数
	MaxTokens int

	// Timeout 请求超时时间（秒）
	Timeout int
}

/**
 * LoadFromEnv 从环境变量加载配置
 *
 * 支持的环境变量：
 * - AI_PROVIDER: 提供商（claude）
 * - AI_API_KEY / CLAUDE_API_KEY: API 密钥
 * - AI_MODEL: 模型名称
 * - AI_BASE_URL: 自定义 API 端点
 * - AI_MAX_TOKENS: 最大 token 数
 * - AI_TIMEOUT: 超时时间（秒）
 */
func (c *AIConfig) LoadFromEnv() *AIConfig {
	if c.Provider == "" {
		c.Provider = os.Getenv("AI_PROVIDER")
		if c.Provider == "" {
			c.Provider = "claude"
		}
	}

	if c.APIKey == "" {
		c.APIKey = os.Getenv("AI_API_KEY")
		if c.APIKey == "" {
			c.APIKey = os.Getenv("CLAUDE_API_KEY")
		}
	}

	if c.Model == "" {
		c.Model = os.Getenv("AI_MODEL")
	}

	if baseURL := os.Getenv("AI_BASE_URL"); baseURL != "" {
		c.BaseURL = &baseURL
	}

	if c.MaxTokens == 0 {
		if raw := os.Getenv("AI_MAX_TOKENS"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				c.MaxTokens = parsed
			}
		}
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}

	if c.Timeout == 0 {
		if raw := os.Getenv("AI_TIMEOUT"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				c.Timeout = parsed
			}
		}
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}

	return c
}

/**
 * Validate 验证配置
 */
func (c *AIConfig) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("提供商不能为空")
	}

	switch c.Provider {
	case "claude":
	default:
		return fmt.Errorf("不支持的提供商: %s", c.Provider)
	}

	return nil
}

/**
 * NewAIModel 根据配置创建 AI 模型客户端
 *
 * Parameters:
 *   - config: AI 配置
 *
 * Returns: AIModel - 模型客户端实例
 */
func NewAIModel(config *AIConfig) (AIModel, error) {
	if config == nil {
		config = (&AIConfig{}).LoadFromEnv()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("AI 配置无效: %w", err)
	}

	switch config.Provider {
	case "claude":
		return NewClaudeClient(&ClaudeConfig{
			APIKey:    config.APIKey,
			Model:     config.Model,
			BaseURL:   config.BaseURL,
			MaxTokens: config.MaxTokens,
			Timeout:   time.Duration(config.Timeout) * time.Second,
		})
	default:
		return nil, fmt.Errorf("不支持的提供商: %s", config.Provider)
	}
}
