package service

import (
	"sort"
	"strconv"
	"strings"
)

// MenuFilter 描述筛选表单的原始输入。
// 数值字段保留字符串形态：无法解析的值视为未填写，不构成约束。
type MenuFilter struct {
	Tags             []string
	MinCalories      string
	MaxCalories      string
	MinProtein       string
	MaxCarbs         string
	MaxFat           string
	SortByPopularity bool
}

// ItemProjection 是单个菜品的筛选投影，Visible 为假时前端只隐藏不移除。
type ItemProjection struct {
	MenuItem
	Visible bool `json:"visible"`
}

// StationProjection 是单个档口的筛选投影
type StationProjection struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Items []ItemProjection `json:"items"`
}

// ApplyMenuFilter 在内存模型上计算每个菜品的可见性，并在需要时按人气排序。
// 投影不修改目录本身，清空筛选条件后再次投影即恢复原始顺序。
func ApplyMenuFilter(menu *Menu, filter MenuFilter) []StationProjection {
	selectedTags := normalizeTags(filter.Tags)

	minCal, hasMinCal := parseBound(filter.MinCalories)
	maxCal, hasMaxCal := parseBound(filter.MaxCalories)
	minPro, hasMinPro := parseBound(filter.MinProtein)
	maxCarbs, hasMaxCarbs := parseBound(filter.MaxCarbs)
	maxFat, hasMaxFat := parseBound(filter.MaxFat)

	projections := make([]StationProjection, 0, len(menu.Stations))
	for _, station := range menu.Stations {
		projection := StationProjection{
			ID:    station.ID,
			Name:  station.Name,
			Items: make([]ItemProjection, 0, len(station.Items)),
		}

		for _, item := range station.Items {
			visible := true

			if len(selectedTags) > 0 && !containsAllTags(item.Tags, selectedTags) {
				visible = false
			}
			if hasMinCal && item.Calories < minCal {
				visible = false
			}
			if hasMaxCal && item.Calories > maxCal {
				visible = false
			}
			if hasMinPro && item.Protein < minPro {
				visible = false
			}
			if hasMaxCarbs && item.Carbs > maxCarbs {
				visible = false
			}
			if hasMaxFat && item.Fat > maxFat {
				visible = false
			}

			projection.Items = append(projection.Items, ItemProjection{MenuItem: item, Visible: visible})
		}

		if filter.SortByPopularity {
			sortVisibleByRating(projection.Items)
		}

		projections = append(projections, projection)
	}

	return projections
}

// sortVisibleByRating 只把可见菜品按评分降序重排进可见槽位，隐藏项保持原位。
func sortVisibleByRating(items []ItemProjection) {
	slots := make([]int, 0, len(items))
	visible := make([]ItemProjection, 0, len(items))
	for i, item := range items {
		if item.Visible {
			slots = append(slots, i)
			visible = append(visible, item)
		}
	}

	sort.Slice(visible, func(a, b int) bool {
		return visible[a].Rating > visible[b].Rating
	})

	for i, slot := range slots {
		items[slot] = visible[i]
	}
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

func containsAllTags(itemTags, selected []string) bool {
	for _, want := range selected {
		found := false
		for _, have := range itemTags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func parseBound(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
