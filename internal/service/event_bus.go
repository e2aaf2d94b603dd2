package service

import "sync"

// Event 是总线上的事件名，拼写与前端监听的事件名保持一致。
type Event string

const (
	// EventDateChanged 选中日期变更，payload 为 DateChangedPayload
	EventDateChanged Event = "dateChangeRequested"
	// EventMealChanged 选中餐次变更，payload 为 MealChangedPayload
	EventMealChanged Event = "mealChangeRequested"
	// EventMenuLoaded 菜单目录加载完成，payload 为 MenuLoadedPayload
	EventMenuLoaded Event = "menuLoaded"
	// EventRecalcStats 餐食记录发生增删，payload 为 RecalcStatsPayload
	EventRecalcStats Event = "recalcStats"
	// EventStorageChanged 某客户端的键值存储被写入，payload 为 StorageChangedPayload
	EventStorageChanged Event = "storageChanged"
)

// DateChangedPayload 描述日期变更事件
type DateChangedPayload struct {
	ClientID string `json:"clientId"`
	Date     string `json:"date"`
}

// MealChangedPayload 描述餐次变更事件
type MealChangedPayload struct {
	ClientID string `json:"clientId"`
	Meal     string `json:"meal"`
}

// MenuLoadedPayload 描述菜单加载完成事件
type MenuLoadedPayload struct {
	Location string `json:"location"`
	Stations int    `json:"stations"`
}

// RecalcStatsPayload 描述统计重算事件
type RecalcStatsPayload struct {
	ClientID string `json:"clientId"`
}

// StorageChangedPayload 描述存储变更事件，对应浏览器的 storage 事件
type StorageChangedPayload struct {
	ClientID string `json:"clientId"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// EventHandler 处理一次事件派发
type EventHandler func(payload any)

// EventBus 是进程内的同步事件总线。
// Publish 在调用方 goroutine 上按订阅顺序依次执行处理器。
type EventBus struct {
	mu       sync.RWMutex
	handlers map[Event][]EventHandler
}

// NewEventBus 构造 EventBus
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[Event][]EventHandler)}
}

// Subscribe 注册事件处理器
func (b *EventBus) Subscribe(event Event, handler EventHandler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	b.handlers[event] = append(b.handlers[event], handler)
	b.mu.Unlock()
}

// Publish 派发事件；无订阅者时为空操作
func (b *EventBus) Publish(event Event, payload any) {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers[event]))
	copy(handlers, b.handlers[event])
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(payload)
	}
}
