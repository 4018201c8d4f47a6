package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

// 键值存储中的壁纸目录键
const catalogKey = "catalog"

/**
 * CatalogRepository 壁纸目录仓储接口
 */
type CatalogRepository interface {
	// LoadAll 读取完整目录，首次运行时写入内置目录
	LoadAll() ([]models.Wallpaper, error)

	// Add 追加一张壁纸
	Add(wallpaper models.Wallpaper) error

	// FindByID 按 ID 查找壁纸
	FindByID(id string) (*models.Wallpaper, error)
}

// defaultCatalog 内置壁纸目录，首次运行时作为种子写入存储
var defaultCatalog = []models.Wallpaper{
	{
		ID: "builtin-auto-road", URI: "builtin://auto/road", Category: "Auto",
		Tags: []string{"road", "speed", "dynamic"}, TimeOfDay: models.TimeOfDayAfternoon,
		Weather: "clear", Mood: models.MoodDynamic,
	},
	{
		ID: "builtin-auto-night", URI: "builtin://auto/night-drive", Category: "Auto",
		Tags: []string{"night", "city", "lights"}, TimeOfDay: models.TimeOfDayNight,
		Weather: "clouds", Mood: models.MoodDramatic,
	},
	{
		ID: "builtin-natura-forest", URI: "builtin://natura/forest", Category: "Natura",
		Tags: []string{"forest", "fresh", "bright"}, TimeOfDay: models.TimeOfDayMorning,
		Weather: "clear", Mood: models.MoodEnergetic,
	},
	{
		ID: "builtin-natura-rain", URI: "builtin://natura/rainforest", Category: "Natura",
		Tags: []string{"rain", "wet", "grey"}, TimeOfDay: models.TimeOfDayAfternoon,
		Weather: "rain", Mood: models.MoodCalm,
	},
	{
		ID: "builtin-natura-snow", URI: "builtin://natura/snowfield", Category: "Natura",
		Tags: []string{"snow", "winter", "white"}, TimeOfDay: models.TimeOfDayMorning,
		Weather: "snow", Mood: models.MoodPeaceful,
	},
	{
		ID: "builtin-urban-sunset", URI: "builtin://urban/sunset", Category: "Urban",
		Tags: []string{"sunset", "warm", "golden"}, TimeOfDay: models.TimeOfDayEvening,
		Weather: "clear", Mood: models.MoodCalm,
	},
	{
		ID: "builtin-urban-storm", URI: "builtin://urban/storm", Category: "Urban",
		Tags: []string{"storm", "dramatic", "dark"}, TimeOfDay: models.TimeOfDayNight,
		Weather: "thunderstorm", Mood: models.MoodDramatic,
	},
	{
		ID: "builtin-abstract-calm", URI: "builtin://abstract/waves", Category: "Abstract",
		Tags: []string{"soft", "peaceful", "gradient"}, TimeOfDay: models.TimeOfDayNight,
		Mood: models.MoodPeaceful,
	},
	{
		ID: "builtin-abstract-energy", URI: "builtin://abstract/burst", Category: "Abstract",
		Tags: []string{"vivid", "energy", "bright"}, TimeOfDay: models.TimeOfDayMorning,
		Mood: models.MoodEnergetic,
	},
}

/**
 * KVCatalogRepository 基于键值存储的目录仓储
 */
type KVCatalogRepository struct {
	store KVStore
}

/**
 * NewKVCatalogRepository 创建目录仓储
 *
 * Parameters:
 *   - store: 键值存储
 *
 * Returns: *KVCatalogRepository - 仓储实例, error - 错误信息
 */
func NewKVCatalogRepository(store KVStore) (*KVCatalogRepository, error) {
	if store == nil {
		return nil, fmt.Errorf("键值存储不能为空")
	}
	return &KVCatalogRepository{store: store}, nil
}

/**
 * LoadAll 读取完整目录
 *
 * 键不存在（首次运行）时把内置目录写入存储后返回；
 * 数据损坏时回退内置目录并告警，不覆盖已有数据
 */
func (r *KVCatalogRepository) LoadAll() ([]models.Wallpaper, error) {
	raw, err := r.store.Get(catalogKey)
	if errors.Is(err, ErrKeyNotFound) {
		logger.Info("目录不存在，写入内置壁纸目录",
			zap.Int("count", len(defaultCatalog)))
		if err := r.save(defaultCatalog); err != nil {
			return nil, err
		}
		return append([]models.Wallpaper(nil), defaultCatalog...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取目录失败: %w", err)
	}

	var catalog []models.Wallpaper
	if err := json.Unmarshal(raw, &catalog); err != nil {
		logger.Warn("目录数据损坏，回退内置目录", zap.Error(err))
		return append([]models.Wallpaper(nil), defaultCatalog...), nil
	}

	return catalog, nil
}

/**
 * Add 追加一张壁纸到目录
 */
func (r *KVCatalogRepository) Add(wallpaper models.Wallpaper) error {
	if wallpaper.ID == "" {
		return fmt.Errorf("壁纸 ID 不能为空")
	}

	catalog, err := r.LoadAll()
	if err != nil {
		return err
	}

	for _, existing := range catalog {
		if existing.ID == wallpaper.ID {
			return fmt.Errorf("壁纸已存在: %s", wallpaper.ID)
		}
	}

	return r.save(append(catalog, wallpaper))
}

/**
 * FindByID 按 ID 查找壁纸
 */
func (r *KVCatalogRepository) FindByID(id string) (*models.Wallpaper, error) {
	catalog, err := r.LoadAll()
	if err != nil {
		return nil, err
	}

	for _, wallpaper := range catalog {
		if wallpaper.ID == id {
			return &wallpaper, nil
		}
	}
	return nil, fmt.Errorf("壁纸不存在: %s", id)
}

func (r *KVCatalogRepository) save(catalog []models.Wallpaper) error {
	raw, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("序列化目录失败: %w", err)
	}
	if err := r.store.Set(catalogKey, raw); err != nil {
		return fmt.Errorf("保存目录失败: %w", err)
	}
	return nil
}
