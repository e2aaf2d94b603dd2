package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smartbytes/menuboard/internal/storage"
)

// ConsumedKey 是餐食记录在键值存储中的固定键，键名不可变更以兼容已有数据。
const ConsumedKey = "smartbytes.consumed.v1"

// MealLogEntry 是用户某一天记录的一餐。
// Date 恒为记录当天（由同日守卫保证），AddedAt 为毫秒时间戳。
type MealLogEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Meal     string  `json:"meal"`
	Date     string  `json:"date"`
	Rating   int     `json:"rating"`
	AddedAt  int64   `json:"addedAt"`
}

// NotTodayError 表示同日守卫拒绝了一次记录请求。
// RequiredDate 是唯一被允许的日期，前端用它渲染阻断式弹窗。
type NotTodayError struct {
	RequiredDate string
}

func (e *NotTodayError) Error() string {
	return fmt.Sprintf("meals can only be logged for today (%s)", e.RequiredDate)
}

// CartRepository 负责餐食记录序列的读写，存储后端通过 storage.Store 注入。
type CartRepository struct {
	store storage.Store
}

// NewCartRepository 构造 CartRepository
func NewCartRepository(store storage.Store) *CartRepository {
	return &CartRepository{store: store}
}

// Load 读取某客户端的全部餐食记录。
// 键不存在、读取失败或 JSON 解码失败时一律返回空序列，不向上抛错。
func (r *CartRepository) Load(clientID string) []MealLogEntry {
	raw, ok, err := r.store.Get(clientID, ConsumedKey)
	if err != nil || !ok {
		return []MealLogEntry{}
	}

	var entries []MealLogEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []MealLogEntry{}
	}
	if entries == nil {
		entries = []MealLogEntry{}
	}
	return entries
}

// Save 整体覆盖写入记录序列，不做局部更新。
func (r *CartRepository) Save(clientID string, entries []MealLogEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode meal log: %w", err)
	}
	if err := r.store.Set(clientID, ConsumedKey, string(raw)); err != nil {
		return fmt.Errorf("save meal log: %w", err)
	}
	return nil
}

// Append 追加一条记录：读取、推入、整体写回。
// 写回失败时退化为只保留新记录的单元素序列（已知的数据丢失权衡，见 DESIGN.md）。
func (r *CartRepository) Append(clientID string, entry MealLogEntry) error {
	entries := r.Load(clientID)
	entries = append(entries, entry)

	if err := r.Save(clientID, entries); err != nil {
		return r.Save(clientID, []MealLogEntry{entry})
	}
	return nil
}

// MealLogInput 定义记录一餐时可提交的字段
type MealLogInput struct {
	Title    string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Meal     string
	Date     string
}

// CartService 实现记录动作：同日守卫、构造记录、落库并触发统计重算。
type CartService struct {
	repo *CartRepository
	bus  *EventBus
	now  func() time.Time
}

// NewCartService 构造 CartService
func NewCartService(repo *CartRepository, bus *EventBus) *CartService {
	return &CartService{repo: repo, bus: bus, now: time.Now}
}

// Today 返回当前日历日期，格式 YYYY-MM-DD
func (s *CartService) Today() string {
	return s.now().Format("2006-01-02")
}

// LogMeal 记录一餐。候选日期的前 10 个字符必须等于今天，否则返回 NotTodayError
// 且不产生任何写入；餐次缺省为 lunch，记录成功后广播 recalcStats。
func (s *CartService) LogMeal(clientID string, input MealLogInput) (*MealLogEntry, error) {
	today := s.Today()

	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = today
	}
	if firstTen(date) != today {
		return nil, &NotTodayError{RequiredDate: today}
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Unknown Item"
	}

	meal := strings.ToLower(strings.TrimSpace(input.Meal))
	if meal == "" {
		meal = "lunch"
	}

	entry := MealLogEntry{
		ID:       uuid.New().String(),
		Title:    title,
		Calories: input.Calories,
		Protein:  input.Protein,
		Carbs:    input.Carbs,
		Fat:      input.Fat,
		Meal:     meal,
		Date:     date,
		Rating:   0,
		AddedAt:  s.now().UnixMilli(),
	}

	if err := s.repo.Append(clientID, entry); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(EventRecalcStats, RecalcStatsPayload{ClientID: clientID})
	}
	return &entry, nil
}

func firstTen(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
