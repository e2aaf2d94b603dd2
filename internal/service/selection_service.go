package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/smartbytes/menuboard/internal/storage"
)

const (
	// DateKey 是选中日期在键值存储中的固定键
	DateKey = "smartbytes.date"
	// MealKey 是选中餐次在键值存储中的固定键
	MealKey = "smartbytes.meal"
)

// DefaultMeal 是未做任何选择时的餐次
const DefaultMeal = "lunch"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate 校验日期字符串：必须匹配 4-2-2 数字模式且是真实存在的日历日期
func IsValidDate(value string) bool {
	if !datePattern.MatchString(value) {
		return false
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

// SelectionState 是当前选中的日期与餐次
type SelectionState struct {
	Date string `json:"date"`
	Meal string `json:"meal"`
}

// SelectionService 管理日期/餐次选择：恢复优先级为 URL 参数 > 已存值 > 默认值。
// 非法输入一律静默忽略并保留原值；外部存储变更会触发重新广播，使多视图收敛。
type SelectionService struct {
	store storage.Store
	bus   *EventBus
	now   func() time.Time
}

// NewSelectionService 构造 SelectionService 并订阅存储变更事件
func NewSelectionService(store storage.Store, bus *EventBus) *SelectionService {
	s := &SelectionService{store: store, bus: bus, now: time.Now}

	if bus != nil {
		bus.Subscribe(EventStorageChanged, func(payload any) {
			change, ok := payload.(StorageChangedPayload)
			if !ok {
				return
			}
			switch change.Key {
			case DateKey:
				if IsValidDate(change.Value) {
					bus.Publish(EventDateChanged, DateChangedPayload{ClientID: change.ClientID, Date: change.Value})
				}
			case MealKey:
				if change.Value != "" {
					bus.Publish(EventMealChanged, MealChangedPayload{ClientID: change.ClientID, Meal: change.Value})
				}
			}
		})
	}

	return s
}

// Resolve 计算初始选择并立即广播两个变更信号，使依赖方无需等待用户交互即可加载。
// URL 提供的值只影响本次解析，不写入存储。
func (s *SelectionService) Resolve(clientID, urlDate, urlMeal string) SelectionState {
	state := SelectionState{
		Date: s.resolveDate(clientID, urlDate),
		Meal: s.resolveMeal(clientID, urlMeal),
	}

	if s.bus != nil {
		s.bus.Publish(EventDateChanged, DateChangedPayload{ClientID: clientID, Date: state.Date})
		s.bus.Publish(EventMealChanged, MealChangedPayload{ClientID: clientID, Meal: state.Meal})
	}
	return state
}

// Current 返回当前生效的选择，不触发广播
func (s *SelectionService) Current(clientID string) SelectionState {
	return SelectionState{
		Date: s.resolveDate(clientID, ""),
		Meal: s.resolveMeal(clientID, ""),
	}
}

// SetDate 持久化新日期并广播；非法日期静默忽略，保留原状态
func (s *SelectionService) SetDate(clientID, date string) SelectionState {
	if IsValidDate(date) {
		if err := s.store.Set(clientID, DateKey, date); err == nil && s.bus != nil {
			s.bus.Publish(EventDateChanged, DateChangedPayload{ClientID: clientID, Date: date})
		}
	}
	return s.Current(clientID)
}

// SetMeal 持久化新餐次（统一小写）并广播；空值静默忽略
func (s *SelectionService) SetMeal(clientID, meal string) SelectionState {
	normalized := strings.ToLower(strings.TrimSpace(meal))
	if normalized != "" {
		if err := s.store.Set(clientID, MealKey, normalized); err == nil && s.bus != nil {
			s.bus.Publish(EventMealChanged, MealChangedPayload{ClientID: clientID, Meal: normalized})
		}
	}
	return s.Current(clientID)
}

func (s *SelectionService) resolveDate(clientID, urlDate string) string {
	if IsValidDate(urlDate) {
		return urlDate
	}
	if stored, ok, err := s.store.Get(clientID, DateKey); err == nil && ok && IsValidDate(stored) {
		return stored
	}
	return s.now().Format("2006-01-02")
}

func (s *SelectionService) resolveMeal(clientID, urlMeal string) string {
	if trimmed := strings.TrimSpace(urlMeal); trimmed != "" {
		return strings.ToLower(trimmed)
	}
	if stored, ok, err := s.store.Get(clientID, MealKey); err == nil && ok && stored != "" {
		return strings.ToLower(stored)
	}
	return DefaultMeal
}
