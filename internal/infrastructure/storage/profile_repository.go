package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

// 键值存储中的画像键
const profileKey = "behavior_profile"

/**
 * ProfileRepository 行为画像仓储接口
 */
type ProfileRepository interface {
	// Load 读取画像，不存在时返回默认画像而不报错
	Load() (*models.BehaviorProfile, error)

	// Save 整体保存画像快照
	Save(profile *models.BehaviorProfile) error
}

/**
 * KVProfileRepository 基于键值存储的画像仓储
 */
type KVProfileRepository struct {
	store KVStore
}

/**
 * NewKVProfileRepository 创建画像仓储
 *
 * Parameters:
 *   - store: 键值存储
 *
 * Returns: *KVProfileRepository - 仓储实例, error - 错误信息
 */
func NewKVProfileRepository(store KVStore) (*KVProfileRepository, error) {
	if store == nil {
		return nil, fmt.Errorf("键值存储不能为空")
	}
	return &KVProfileRepository{store: store}, nil
}

/**
 * Load 读取行为画像
 *
 * 键不存在（首次运行）时返回默认画像；
 * 数据损坏时同样回退默认画像并告警，保证推荐流程永远有画像可用
 */
func (r *KVProfileRepository) Load() (*models.BehaviorProfile, error) {
	raw, err := r.store.Get(profileKey)
	if errors.Is(err, ErrKeyNotFound) {
		logger.Info("画像不存在，使用默认画像")
		return models.NewDefaultProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取画像失败: %w", err)
	}

	var profile models.BehaviorProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		logger.Warn("画像数据损坏，回退默认画像", zap.Error(err))
		return models.NewDefaultProfile(), nil
	}

	return &profile, nil
}

/**
 * Save 保存行为画像
 */
func (r *KVProfileRepository) Save(profile *models.BehaviorProfile) error {
	if profile == nil {
		return fmt.Errorf("画像不能为空")
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("序列化画像失败: %w", err)
	}

	if err := r.store.Set(profileKey, raw); err != nil {
		return fmt.Errorf("保存画像失败: %w", err)
	}

	return nil
}
