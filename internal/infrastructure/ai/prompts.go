/**
 * Package ai AI 服务基础设施层
 *
 * 提示词模板和响应解析
 */

package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

/**
 * BuildInsightsPrompt 构建洞察叙述提示词
 *
 * Parameters:
 *   - summary: 洞察摘要
 *
 * Returns: string - 提示词
 */
func BuildInsightsPrompt(summary InsightsSummary) string {
	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")

	prompt := `请根据以下壁纸偏好统计，为用户生成一段友好的偏好总结和几条个性化建议。

## 偏好统计

` + string(summaryJSON) + `

## 要求

1. 总结要自然、口语化，1-2 句话，不要罗列数字
2. 建议 2-3 条，围绕用户的偏爱分类、常用时段和天气偏好展开
3. 语气轻松友好，不要使用营销话术

## 输出格式

请严格按照以下 JSON 格式返回结果：

{
  "summary": "一段自然语言的偏好总结",
  "suggestions": [
    "建议1",
    "建议2"
  ]
}

请基于以上信息，返回 JSON 格式的结果：`

	return prompt
}

/**
 * ParseNarrationResponse 解析模型返回的叙述结果
 *
 * 容忍模型在 JSON 前后附加说明文字或代码块围栏，
 * 提取第一个完整的 JSON 对象进行解析
 *
 * Parameters:
 *   - content: 模型返回的原始内容
 *
 * Returns: *InsightsNarration - 解析后的叙述, error - 解析错误
 */
func ParseNarrationResponse(content string) (*InsightsNarration, error) {
	cleaned := strings.TrimSpace(content)

	// 去掉可能的代码块围栏
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// 提取第一个 JSON 对象
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("响应中没有找到 JSON 对象")
	}

	var narration InsightsNarration
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &narration); err != nil {
		return nil, fmt.Errorf("解析叙述 JSON 失败: %w", err)
	}

	if narration.Summary == "" {
		return nil, fmt.Errorf("叙述结果缺少 summary 字段")
	}

	return &narration, nil
}
