/**
 * Package models 定义壁纸推荐引擎的领域模型
 *
 * 包含壁纸、交互事件、行为画像、天气读数等核心数据结构
 */

package models

import (
	"time"
)

/**
 * TimeOfDay 时段枚举
 */
type TimeOfDay string

/**
 * 所有时段常量
 *
 * 按本地小时划分：早晨 5-11 点，下午 12-16 点，傍晚 17-20 点，其余为夜晚
 */
const (
	TimeOfDayMorning   TimeOfDay = "morning"   // 早晨
	TimeOfDayAfternoon TimeOfDay = "afternoon" // 下午
	TimeOfDayEvening   TimeOfDay = "evening"   // 傍晚
	TimeOfDayNight     TimeOfDay = "night"     // 夜晚
)

/**
 * TimeOfDayAt 根据给定时间计算时段
 *
 * 时间作为显式参数传入，便于测试注入固定时刻
 *
 * Parameters:
 *   - t: 当前时间
 *
 * Returns: TimeOfDay - 对应的时段
 */
func TimeOfDayAt(t time.Time) TimeOfDay {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return TimeOfDayMorning
	case hour >= 12 && hour < 17:
		return TimeOfDayAfternoon
	case hour >= 17 && hour < 21:
		return TimeOfDayEvening
	default:
		return TimeOfDayNight
	}
}

/**
 * IsValid 判断时段值是否为四个枚举值之一
 *
 * Returns: bool - true 表示合法时段
 */
func (t TimeOfDay) IsValid() bool {
	switch t {
	case TimeOfDayMorning, TimeOfDayAfternoon, TimeOfDayEvening, TimeOfDayNight:
		return true
	}
	return false
}

/**
 * Mood 氛围枚举
 */
type Mood string

/**
 * 所有氛围常量
 */
const (
	MoodEnergetic Mood = "energetic" // 充满活力
	MoodCalm      Mood = "calm"      // 平静
	MoodDramatic  Mood = "dramatic"  // 戏剧性
	MoodPeaceful  Mood = "peaceful"  // 安宁
	MoodDynamic   Mood = "dynamic"   // 动感
)

/**
 * Action 交互动作枚举
 */
type Action string

/**
 * 所有交互动作常量
 */
const (
	ActionView     Action = "view"     // 浏览
	ActionLike     Action = "like"     // 喜欢
	ActionDislike  Action = "dislike"  // 不喜欢
	ActionSet      Action = "set"      // 设为壁纸
	ActionSkip     Action = "skip"     // 跳过
	ActionShare    Action = "share"    // 分享
	ActionDownload Action = "download" // 下载
)

/**
 * IsPositive 判断动作是否为正向反馈
 *
 * 正向动作：喜欢、设为壁纸、下载、分享
 *
 * Returns: bool - true 表示正向动作
 */
func (a Action) IsPositive() bool {
	switch a {
	case ActionLike, ActionSet, ActionDownload, ActionShare:
		return true
	}
	return false
}

/**
 * IsNegative 判断动作是否为负向反馈
 *
 * 负向动作：不喜欢、跳过
 *
 * Returns: bool - true 表示负向动作
 */
func (a Action) IsNegative() bool {
	switch a {
	case ActionDislike, ActionSkip:
		return true
	}
	return false
}

/**
 * Wallpaper 壁纸目录条目
 *
 * 不可变的目录记录，评分引擎只读
 */
type Wallpaper struct {
	// ID 壁纸唯一标识（跨会话稳定）
	ID string `json:"id"`

	// URI 图片资源位置（不透明字符串）
	URI string `json:"uri"`

	// Category 分类（与用户偏好分类共用同一组键，如 Auto、Natura、Urban、Abstract）
	Category string `json:"category"`

	// Tags 描述性标签集合（无序）
	Tags []string `json:"tags"`

	// TimeOfDay 适用时段（可选）
	TimeOfDay TimeOfDay `json:"timeOfDay,omitempty"`

	// Weather 适用天气条件标签（可选）
	Weather string `json:"weather,omitempty"`

	// Mood 氛围标签（可选）
	Mood Mood `json:"mood,omitempty"`

	// AIScore 推荐得分（评分过程中写入的瞬态值，不是目录不变量）
	AIScore float64 `json:"aiScore,omitempty"`
}

/**
 * InteractionContext 交互发生时的上下文
 */
type InteractionContext struct {
	// TimeOfDay 交互发生的时段
	TimeOfDay TimeOfDay `json:"timeOfDay"`

	// Weather 交互发生时的天气条件（可选）
	Weather string `json:"weather,omitempty"`

	// Category 交互壁纸的分类
	Category string `json:"category"`
}

/**
 * Interaction 用户交互事件
 *
 * 不可变的追加式记录，写入交互日志后不再修改
 */
type Interaction struct {
	// ID 事件唯一标识
	ID string `json:"id"`

	// WallpaperID 关联的壁纸 ID（允许引用已删除/自定义壁纸，不做引用完整性校验）
	WallpaperID string `json:"wallpaperId"`

	// Action 交互动作
	Action Action `json:"action"`

	// Timestamp 交互发生时间
	Timestamp time.Time `json:"timestamp"`

	// Context 交互上下文
	Context InteractionContext `json:"context"`

	// Duration 浏览时长（秒，可选）
	Duration float64 `json:"duration,omitempty"`
}

/**
 * BehaviorProfile 用户行为画像
 *
 * 从交互日志增量派生的可变状态，每个用户/设备一份
 */
type BehaviorProfile struct {
	// PreferredCategories 分类 → 偏好分数（始终保持在 [0,1] 区间）
	PreferredCategories map[string]float64 `json:"preferredCategories"`

	// TimeBasedPreferences 时段 → 该时段正向强化过的分类列表（无重复）
	TimeBasedPreferences map[TimeOfDay][]string `json:"timeBasedPreferences"`

	// WeatherBasedPreferences 天气条件 → 该天气下正向强化过的分类列表（无重复）
	WeatherBasedPreferences map[string][]string `json:"weatherBasedPreferences"`

	// TotalWallpapersViewed 记录过的交互总数（单调不减）
	TotalWallpapersViewed int `json:"totalWallpapersViewed"`

	// CustomWallpapersAdded 添加的自定义壁纸数（单调不减）
	CustomWallpapersAdded int `json:"customWallpapersAdded"`

	// LastActiveTime 最近一次交互时间
	LastActiveTime time.Time `json:"lastActiveTime"`
}

/**
 * DefaultCategories 默认壁纸分类
 *
 * 新画像的种子分布覆盖这些分类，保证新用户的评分永远有定义
 */
var DefaultCategories = []string{"Auto", "Natura", "Urban", "Abstract"}

/**
 * NewDefaultProfile 创建带种子分布的默认画像
 *
 * 首次使用时调用，所有默认分类以 0.5 的中性偏好初始化
 *
 * Returns: *BehaviorProfile - 初始化好的画像
 */
func NewDefaultProfile() *BehaviorProfile {
	preferred := make(map[string]float64, len(DefaultCategories))
	for _, category := range DefaultCategories {
		preferred[category] = 0.5
	}

	return &BehaviorProfile{
		PreferredCategories:     preferred,
		TimeBasedPreferences:    make(map[TimeOfDay][]string),
		WeatherBasedPreferences: make(map[string][]string),
	}
}

/**
 * CategoryScore 获取分类偏好分数
 *
 * Parameters:
 *   - category: 分类名
 *
 * Returns: float64 - 偏好分数，未记录的分类返回 0
 */
func (p *BehaviorProfile) CategoryScore(category string) float64 {
	if p == nil || p.PreferredCategories == nil {
		return 0
	}
	return p.PreferredCategories[category]
}

/**
 * WeatherReading 某一时刻的天气读数
 *
 * 由天气供应方产出（真实来源或确定性的本地合成数据），推荐流程作为不透明值消费
 */
type WeatherReading struct {
	// Condition 规范化的天气条件（clear、clouds、rain、snow、thunderstorm、fog、wind）
	Condition string `json:"condition"`

	// Temperature 气温（摄氏度）
	Temperature float64 `json:"temperature"`

	// Humidity 相对湿度（百分比）
	Humidity float64 `json:"humidity"`

	// Description 人类可读的天气描述
	Description string `json:"description"`

	// Sunrise 日出时间
	Sunrise time.Time `json:"sunrise"`

	// Sunset 日落时间
	Sunset time.Time `json:"sunset"`

	// LastUpdated 读数更新时间
	LastUpdated time.Time `json:"lastUpdated"`
}

/**
 * PreferenceConfig 调用方提供的偏好配置
 */
type PreferenceConfig struct {
	// Enabled 是否启用个性化推荐
	Enabled bool `json:"enabled"`

	// Categories 偏好分类列表（靠前的分类优先级更高）
	Categories []string `json:"categories"`

	// ChangeInterval 自动更换壁纸的间隔
	ChangeInterval time.Duration `json:"changeInterval"`
}

/**
 * RecommendationContext 单次推荐请求的上下文
 *
 * 每次请求重新构建，不做持久化。当前时间作为显式字段传入，
 * 避免评分路径读取环境时钟
 */
type RecommendationContext struct {
	// Now 请求发起时刻
	Now time.Time `json:"now"`

	// TimeOfDay 由 Now 计算出的时段
	TimeOfDay TimeOfDay `json:"timeOfDay"`

	// Weather 天气读数（可选，获取失败时为 nil）
	Weather *WeatherReading `json:"weather,omitempty"`

	// Preferences 调用方偏好配置
	Preferences PreferenceConfig `json:"preferences"`

	// Location 位置描述（可选，不透明字符串）
	Location string `json:"location,omitempty"`

	// Mood 用户指定的氛围（可选）
	Mood Mood `json:"mood,omitempty"`

	// ExcludeIDs 需要排除的壁纸 ID（如当前壁纸）
	ExcludeIDs []string `json:"excludeIds,omitempty"`
}

/**
 * ScoreFactors 六个归一化评分因子
 *
 * 每个因子都落在 [0,1] 区间。Novelty 参与解释与多样性，
 * 但不计入加权综合分
 */
type ScoreFactors struct {
	// TimeOfDay 时段匹配因子
	TimeOfDay float64 `json:"timeOfDay"`

	// Weather 天气匹配因子
	Weather float64 `json:"weather"`

	// UserHistory 历史行为因子
	UserHistory float64 `json:"userHistory"`

	// Category 分类偏好因子
	Category float64 `json:"category"`

	// Mood 氛围匹配因子
	Mood float64 `json:"mood"`

	// Novelty 新颖度因子（不参与加权求和）
	Novelty float64 `json:"novelty"`
}

/**
 * Recommendation 推荐结果
 *
 * 瞬态计算值，包含可解释的得分与贡献因子
 */
type Recommendation struct {
	// Wallpaper 被推荐的壁纸（AIScore 已写入）
	Wallpaper Wallpaper `json:"wallpaper"`

	// Confidence 置信度（[0,1]）
	Confidence float64 `json:"confidence"`

	// Reasons 人类可读的推荐理由
	Reasons []string `json:"reasons"`

	// Score 综合得分（约 [0,100]）
	Score float64 `json:"score"`

	// Factors 六个贡献因子
	Factors ScoreFactors `json:"factors"`
}

/**
 * Insights 行为画像摘要
 *
 * 面向展示的描述性统计，对空画像也始终返回完整结构
 */
type Insights struct {
	// FavoriteCategory 偏好分数最高的分类
	FavoriteCategory string `json:"favoriteCategory"`

	// FavoriteTimeForChange 偏好分类列表最长的时段
	FavoriteTimeForChange TimeOfDay `json:"favoriteTimeForChange"`

	// PreferredWeather 偏好分类列表最长的天气条件
	PreferredWeather string `json:"preferredWeather"`

	// ActivityLevel 活跃度分级（low/medium/high）
	ActivityLevel string `json:"activityLevel"`

	// Recommendations 模板化的建议语句
	Recommendations []string `json:"recommendations"`
}
