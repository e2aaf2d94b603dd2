package service

import "errors"

var (
	// ErrEntryNotFound 在指定餐食记录不存在时返回
	ErrEntryNotFound = errors.New("meal log entry not found")
	// ErrInvalidRating 在评分超出 0-5 时返回
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
)

// NutritionTotals 汇总某一天的营养摄入
type NutritionTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DailySummary 是“我的餐食”页面的数据：当日记录列表与四项合计
type DailySummary struct {
	Date    string          `json:"date"`
	Entries []MealLogEntry  `json:"entries"`
	Totals  NutritionTotals `json:"totals"`
}

// MealLogService 负责已记录餐食的查询、评分与删除
type MealLogService struct {
	repo *CartRepository
	bus  *EventBus
}

// NewMealLogService 构造 MealLogService
func NewMealLogService(repo *CartRepository, bus *EventBus) *MealLogService {
	return &MealLogService{repo: repo, bus: bus}
}

// SummaryForDate 按日期精确匹配筛选记录并计算合计，缺失字段按 0 参与求和
func (s *MealLogService) SummaryForDate(clientID, date string) DailySummary {
	summary := DailySummary{Date: date, Entries: []MealLogEntry{}}

	for _, entry := range s.repo.Load(clientID) {
		if entry.Date != date {
			continue
		}
		summary.Entries = append(summary.Entries, entry)
		summary.Totals.Calories += entry.Calories
		summary.Totals.Protein += entry.Protein
		summary.Totals.Carbs += entry.Carbs
		summary.Totals.Fat += entry.Fat
	}

	return summary
}

// SetRating 就地更新某条记录的评分并立即持久化
func (s *MealLogService) SetRating(clientID, entryID string, rating int) (*MealLogEntry, error) {
	if rating < 0 || rating > 5 {
		return nil, ErrInvalidRating
	}

	entries := s.repo.Load(clientID)
	for i := range entries {
		if entries[i].ID != entryID {
			continue
		}
		entries[i].Rating = rating
		if err := s.repo.Save(clientID, entries); err != nil {
			return nil, err
		}
		return &entries[i], nil
	}
	return nil, ErrEntryNotFound
}

// Delete 删除一条记录并广播 recalcStats
func (s *MealLogService) Delete(clientID, entryID string) error {
	entries := s.repo.Load(clientID)

	kept := make([]MealLogEntry, 0, len(entries))
	found := false
	for _, entry := range entries {
		if entry.ID == entryID {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return ErrEntryNotFound
	}

	if err := s.repo.Save(clientID, kept); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(EventRecalcStats, RecalcStatsPayload{ClientID: clientID})
	}
	return nil
}
