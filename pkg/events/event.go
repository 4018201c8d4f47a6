/**
 * Package events 提供事件系统的核心类型定义
 *
 * 事件系统是 WallMind 的核心通信机制，用于：
 * - 服务层发布推荐与画像变化
 * - 前端接收实时更新
 */

package events

import (
	"time"

	"github.com/google/uuid"
)

/**
 * EventType 事件类型枚举
 */
type EventType string

/**
 * 所有事件类型常量
 */
const (
	// 业务事件
	EventTypeRecommendation EventType = "recommendation"  // 推荐产生事件
	EventTypeInteraction    EventType = "interaction"     // 用户交互事件
	EventTypeProfileUpdated EventType = "profile_updated" // 画像更新事件
	EventTypeWeather        EventType = "weather"         // 天气更新事件

	// 系统事件
	EventTypeError  EventType = "error"  // 错误事件
	EventTypeStatus EventType = "status" // 状态事件
)

/**
 * Event 统一事件结构
 *
 * 所有业务和系统事件都使用此结构
 */
type Event struct {
	// ID 事件唯一标识符
	ID string `json:"id"`

	// Type 事件类型
	Type EventType `json:"type"`

	// Timestamp 事件发生时间
	Timestamp time.Time `json:"timestamp"`

	// Data 事件数据（类型特定的数据）
	Data map[string]interface{} `json:"data"`

	// Metadata 事件元数据（可选的额外信息）
	Metadata map[string]string `json:"metadata,omitempty"`
}

/**
 * NewEvent 创建新事件
 *
 * Parameters:
 *   - eventType: 事件类型
 *   - data: 事件数据
 *
 * Returns:
 *   - *Event: 新创建的事件
 */
func NewEvent(eventType EventType, data map[string]interface{}) *Event {
	return &Event{
		ID:        generateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Metadata:  make(map[string]string),
	}
}

/**
 * WithMetadata 添加元数据
 *
 * Parameters:
 *   - key: 元数据键
 *   - value: 元数据值
 *
 * Returns:
 *   - *Event: 返回自身，支持链式调用
 */
func (e *Event) WithMetadata(key, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

/**
 * generateEventID 生成事件唯一 ID
 *
 * 使用 UUID v4 确保全局唯一性
 *
 * Returns:
 *   - string: UUID 字符串
 */
func generateEventID() string {
	return uuid.New().String()
}

/**
 * RecommendationEventData 推荐产生事件数据
 */
type RecommendationEventData struct {
	WallpaperID string   `json:"wallpaper_id"` // 选中的壁纸
	Category    string   `json:"category"`     // 壁纸分类
	Score       float64  `json:"score"`        // 综合分
	Confidence  float64  `json:"confidence"`   // 置信度
	Reasons     []string `json:"reasons"`      // 推荐理由
}

/**
 * InteractionEventData 用户交互事件数据
 */
type InteractionEventData struct {
	WallpaperID string `json:"wallpaper_id"` // 壁纸 ID
	Action      string `json:"action"`       // 动作类型
	TimeOfDay   string `json:"time_of_day"`  // 发生时段
}

/**
 * ProfileUpdatedEventData 画像更新事件数据
 */
type ProfileUpdatedEventData struct {
	TotalWallpapersViewed int    `json:"total_wallpapers_viewed"` // 累计交互数
	TriggeredBy           string `json:"triggered_by"`            // 触发动作
}

/**
 * WeatherEventData 天气更新事件数据
 */
type WeatherEventData struct {
	Condition   string  `json:"condition"`   // 天气条件
	Temperature float64 `json:"temperature"` // 温度
}
