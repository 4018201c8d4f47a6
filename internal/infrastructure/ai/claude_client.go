/**
 * Package ai AI 服务基础设施层
 *
 * 负责与 Claude API 的集成，使用 Eino 框架实现洞察叙述
 */

package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

// 确保 ClaudeClient 实现了 AIModel 接口
var _ AIModel = (*ClaudeClient)(nil)

/**
 * ClaudeConfig Claude 配置
 */
type ClaudeConfig struct {
	// APIKey Claude API 密钥（缺省从环境变量读取）
	APIKey string

	// Model 模型名称
	Model string

	// BaseURL API 基础 URL（可选，用于自定义端点）
	BaseURL *string

	// MaxTokens 最大生成 token 数
	MaxTokens int

	// Temperature 温度参数（0.0-1.0）
	Temperature *float32

	// Timeout 请求超时时间
	Timeout time.Duration
}

/**
 * Validate 验证配置并填充默认值
 *
 * Returns: error - 验证错误
 */
func (c *ClaudeConfig) Validate() error {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("CLAUDE_API_KEY")
		if c.APIKey == "" {
			return fmt.Errorf("未找到 CLAUDE_API_KEY 环境变量")
		}
	}

	if c.Model == "" {
		c.Model = os.Getenv("CLAUDE_MODEL")
		if c.Model == "" {
			c.Model = "claude-3-5-sonnet-20241022"
		}
	}

	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}

	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 1) {
		return fmt.Errorf("temperature 必须在 0.0-1.0 之间")
	}

	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}

	return nil
}

/**
 * ClaudeClient Claude AI 客户端
 *
 * 基于 Eino 框架的 Claude API 客户端封装
 */
type ClaudeClient struct {
	// chatModel Eino ChatModel 实例
	chatModel model.ChatModel

	// config Claude 配置
	config *ClaudeConfig
}

/**
 * NewClaudeClient 创建 Claude 客户端
 *
 * Parameters:
 *   - config: Claude 配置
 *
 * Returns: *ClaudeClient - Claude 客户端实例
 */
func NewClaudeClient(config *ClaudeConfig) (*ClaudeClient, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chatModel, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:      config.APIKey,
		Model:       config.Model,
		BaseURL:     config.BaseURL,
		MaxTokens:   config.MaxTokens,
		Temperature: config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Claude ChatModel 失败: %w", err)
	}

	logger.Info("创建 Claude 客户端成功",
		zap.String("model", config.Model),
		zap.Int("max_tokens", config.MaxTokens))

	return &ClaudeClient{
		chatModel: chatModel,
		config:    config,
	}, nil
}

/**
 * NarrateInsights 把洞察摘要转写为自然语言叙述
 *
 * Parameters:
 *   - ctx: 上下文
 *   - summary: 洞察摘要
 *
 * Returns: *InsightsNarration - 叙述结果
 */
func (c *ClaudeClient) NarrateInsights(ctx context.Context, summary InsightsSummary) (*InsightsNarration, error) {
	prompt := BuildInsightsPrompt(summary)

	messages := []*schema.Message{
		{
			Role:    schema.System,
			Content: "你是壁纸应用的个性化助手，擅长把用户的偏好统计转写成友好自然的总结。请以 JSON 格式返回结果。",
		},
		{
			Role:    schema.User,
			Content: prompt,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	startTime := time.Now()
	response, err := c.chatModel.Generate(ctx, messages)
	duration := time.Since(startTime)

	if err != nil {
		logger.Error("调用 Claude API 失败",
			zap.Error(err),
			zap.Duration("duration", duration))
		return nil, fmt.Errorf("调用 Claude API 失败: %w", err)
	}

	logger.Info("调用 Claude API 成功",
		zap.Duration("duration", duration))

	narration, err := ParseNarrationResponse(response.Content)
	if err != nil {
		logger.Error("解析 Claude 响应失败",
			zap.String("response", response.Content),
			zap.Error(err))
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	return narration, nil
}

/**
 * GetType 获取模型类型
 *
 * Returns: ModelType - 返回 ModelTypeClaude
 */
func (c *ClaudeClient) GetType() ModelType {
	return ModelTypeClaude
}

/**
 * Close 关闭连接
 *
 * Eino ChatModel 无需显式释放资源
 *
 * Returns: error - 始终为 nil
 */
func (c *ClaudeClient) Close() error {
	return nil
}
