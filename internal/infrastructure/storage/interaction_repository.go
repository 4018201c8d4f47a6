package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lin-xt/wallmind/internal/domain/models"
	"github.com/lin-xt/wallmind/pkg/logger"
	"go.uber.org/zap"
)

// 键值存储中的交互日志键
const interactionLogKey = "interaction_log"

// 交互日志保留上限，超出后丢弃最旧的记录
const maxInteractionLog = 1000

/**
 * InteractionRepository 交互日志仓储接口
 */
type InteractionRepository interface {
	// Append 追加一条交互记录，超出上限时截断最旧的
	Append(interaction models.Interaction) error

	// LoadAll 读取完整日志（新到旧）
	LoadAll() ([]models.Interaction, error)

	// LoadRecent 读取最近 limit 条记录（新到旧）
	LoadRecent(limit int) ([]models.Interaction, error)
}

/**
 * KVInteractionRepository 基于键值存储的交互日志仓储
 *
 * 日志以单个 JSON 数组快照保存，新记录在数组头部
 */
type KVInteractionRepository struct {
	store KVStore
}

/**
 * NewKVInteractionRepository 创建交互日志仓储
 *
 * Parameters:
 *   - store: 键值存储
 *
 * Returns: *KVInteractionRepository - 仓储实例, error - 错误信息
 */
func NewKVInteractionRepository(store KVStore) (*KVInteractionRepository, error) {
	if store == nil {
		return nil, fmt.Errorf("键值存储不能为空")
	}
	return &KVInteractionRepository{store: store}, nil
}

/**
 * Append 追加交互记录
 *
 * 新记录插入头部；日志长度超过上限时丢弃尾部（最旧）记录
 */
func (r *KVInteractionRepository) Append(interaction models.Interaction) error {
	log, err := r.LoadAll()
	if err != nil {
		return err
	}

	log = append([]models.Interaction{interaction}, log...)
	if len(log) > maxInteractionLog {
		log = log[:maxInteractionLog]
	}

	raw, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("序列化交互日志失败: %w", err)
	}

	if err := r.store.Set(interactionLogKey, raw); err != nil {
		return fmt.Errorf("保存交互日志失败: %w", err)
	}

	return nil
}

/**
 * LoadAll 读取完整交互日志
 *
 * 键不存在时返回空日志；数据损坏时回退空日志并告警
 */
func (r *KVInteractionRepository) LoadAll() ([]models.Interaction, error) {
	raw, err := r.store.Get(interactionLogKey)
	if errors.Is(err, ErrKeyNotFound) {
		return []models.Interaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取交互日志失败: %w", err)
	}

	var log []models.Interaction
	if err := json.Unmarshal(raw, &log); err != nil {
		logger.Warn("交互日志数据损坏，回退空日志", zap.Error(err))
		return []models.Interaction{}, nil
	}

	return log, nil
}

/**
 * LoadRecent 读取最近的交互记录
 */
func (r *KVInteractionRepository) LoadRecent(limit int) ([]models.Interaction, error) {
	log, err := r.LoadAll()
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(log) > limit {
		log = log[:limit]
	}
	return log, nil
}
