package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("等待条件超时")
}

// TestEventBus_PublishSubscribe 基本的发布订阅
func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop(time.Second)

	var received atomic.Int64
	bus.Subscribe(string(EventTypeRecommendation), func(event Event) error {
		received.Add(1)
		return nil
	})

	event := NewEvent(EventTypeRecommendation, map[string]interface{}{"wallpaper_id": "w1"})
	require.NoError(t, bus.Publish(string(EventTypeRecommendation), *event))

	waitFor(t, func() bool { return received.Load() == 1 })
}

// TestEventBus_Wildcard 通配符订阅收到所有类型
func TestEventBus_Wildcard(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop(time.Second)

	var received atomic.Int64
	bus.Subscribe("*", func(event Event) error {
		received.Add(1)
		return nil
	})

	require.NoError(t, bus.Publish(string(EventTypeInteraction), *NewEvent(EventTypeInteraction, nil)))
	require.NoError(t, bus.Publish(string(EventTypeWeather), *NewEvent(EventTypeWeather, nil)))

	waitFor(t, func() bool { return received.Load() == 2 })
}

// TestEventBus_Filter 过滤器跳过不匹配的事件
func TestEventBus_Filter(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop(time.Second)

	var received atomic.Int64
	bus.SubscribeWithFilter(
		string(EventTypeInteraction),
		func(event Event) error {
			received.Add(1)
			return nil
		},
		func(event Event) bool {
			return event.Data["action"] == "like"
		},
	)

	require.NoError(t, bus.Publish(string(EventTypeInteraction),
		*NewEvent(EventTypeInteraction, map[string]interface{}{"action": "skip"})))
	require.NoError(t, bus.Publish(string(EventTypeInteraction),
		*NewEvent(EventTypeInteraction, map[string]interface{}{"action": "like"})))

	waitFor(t, func() bool { return received.Load() == 1 })
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), received.Load())
}

// TestEventBus_Unsubscribe 取消订阅后不再接收
func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop(time.Second)

	var received atomic.Int64
	id := bus.Subscribe(string(EventTypeStatus), func(event Event) error {
		received.Add(1)
		return nil
	})

	require.NoError(t, bus.Publish(string(EventTypeStatus), *NewEvent(EventTypeStatus, nil)))
	waitFor(t, func() bool { return received.Load() == 1 })

	bus.Unsubscribe(id)
	require.NoError(t, bus.Publish(string(EventTypeStatus), *NewEvent(EventTypeStatus, nil)))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), received.Load())
}

// TestEventBus_PublishAfterStop 停止后发布报错
func TestEventBus_PublishAfterStop(t *testing.T) {
	bus := NewEventBus()
	require.NoError(t, bus.Stop(time.Second))

	err := bus.Publish(string(EventTypeError), *NewEvent(EventTypeError, nil))
	assert.Error(t, err)
}

// TestEventBus_RecoveryMiddleware panic 被恢复为错误，总线不崩溃
func TestEventBus_RecoveryMiddleware(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop(time.Second)

	bus.Use(RecoveryMiddleware())

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe(string(EventTypeError), func(event Event) error {
		defer wg.Done()
		panic("处理器崩溃")
	})

	assert.NotPanics(t, func() {
		require.NoError(t, bus.Publish(string(EventTypeError), *NewEvent(EventTypeError, nil)))
		wg.Wait()
	})
}

// TestEventBus_LoggingMiddleware 日志中间件观察到事件
func TestEventBus_LoggingMiddleware(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop(time.Second)

	var logged atomic.Int64
	bus.Use(LoggingMiddleware(func(event Event) {
		logged.Add(1)
	}))

	var handled atomic.Int64
	bus.Subscribe(string(EventTypeWeather), func(event Event) error {
		handled.Add(1)
		return nil
	})

	require.NoError(t, bus.Publish(string(EventTypeWeather), *NewEvent(EventTypeWeather, nil)))
	waitFor(t, func() bool { return handled.Load() == 1 && logged.Load() == 1 })
}

// TestEventBus_HandlerError 处理器错误不影响后续事件
func TestEventBus_HandlerError(t *testing.T) {
	bus := NewEventBus()
	defer bus.Stop(time.Second)

	var received atomic.Int64
	bus.Subscribe(string(EventTypeStatus), func(event Event) error {
		received.Add(1)
		if received.Load() == 1 {
			return fmt.Errorf("第一次处理失败")
		}
		return nil
	})

	require.NoError(t, bus.Publish(string(EventTypeStatus), *NewEvent(EventTypeStatus, nil)))
	require.NoError(t, bus.Publish(string(EventTypeStatus), *NewEvent(EventTypeStatus, nil)))

	waitFor(t, func() bool { return received.Load() == 2 })
}

// TestNewEvent 事件构造：唯一 ID 与元数据链式调用
func TestNewEvent(t *testing.T) {
	first := NewEvent(EventTypeRecommendation, map[string]interface{}{"k": "v"})
	second := NewEvent(EventTypeRecommendation, nil)

	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.Timestamp.IsZero())

	first.WithMetadata("source", "test")
	assert.Equal(t, "test", first.Metadata["source"])
}
