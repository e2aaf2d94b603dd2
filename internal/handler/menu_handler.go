package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartbytes/menuboard/internal/service"
	"github.com/smartbytes/menuboard/internal/view"
)

// GetMenu 返回指定餐厅的菜单投影，附带筛选可见性与排序结果
func (a *API) GetMenu(c *gin.Context) {
	location := service.ResolveLocation(c.Param("location"))

	menu, err := a.catalog.Load(location)
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "菜单数据加载失败")
		return
	}

	filter := menuFilterFromQuery(c)
	stations := service.ApplyMenuFilter(menu, filter)

	response := make([]gin.H, 0, len(stations))
	for _, station := range stations {
		items := make([]gin.H, 0, len(station.Items))
		for _, item := range station.Items {
			items = append(items, gin.H{
				"name":     item.Name,
				"calories": item.Calories,
				"desc":     item.Desc,
				"tags":     item.Tags,
				"rating":   item.Rating,
				"serving":  item.Serving,
				"protein":  item.Protein,
				"carbs":    item.Carbs,
				"fat":      item.Fat,
				"img":      view.ImageURL(item.Img, a.placeholderImg),
				"visible":  item.Visible,
				"badges":   view.Badges(item.Tags),
				"stars":    view.StarsFor(item.Rating),
			})
		}
		response = append(response, gin.H{
			"id":    station.ID,
			"name":  station.Name,
			"items": items,
		})
	}

	c.JSON(http.StatusOK, gin.H{"location": location, "stations": response})
}

// GetStations 返回侧边栏导航所需的档口列表
func (a *API) GetStations(c *gin.Context) {
	location := service.ResolveLocation(c.Param("location"))

	menu, err := a.catalog.Load(location)
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "菜单数据加载失败")
		return
	}

	stations := make([]gin.H, 0, len(menu.Stations))
	for _, station := range menu.Stations {
		stations = append(stations, gin.H{"id": station.ID, "name": station.Name})
	}

	c.JSON(http.StatusOK, gin.H{"location": location, "stations": stations})
}

// GetMenuItem 返回详情弹窗所需的单个菜品数据，描述以 Markdown 渲染并消毒
func (a *API) GetMenuItem(c *gin.Context) {
	location := service.ResolveLocation(c.Param("location"))
	stationID := c.Query("station")
	name := c.Query("name")

	item, err := a.catalog.FindItem(location, stationID, name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStationNotFound):
			respondError(c, http.StatusNotFound, "档口不存在")
		case errors.Is(err, service.ErrMenuItemNotFound):
			respondError(c, http.StatusNotFound, "菜品不存在")
		default:
			respondError(c, http.StatusServiceUnavailable, "菜单数据加载失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":         item.Name,
		"calories":     item.Calories,
		"serving":      item.Serving,
		"caloriesLine": caloriesLine(item),
		"descHtml":     renderItemDesc(item.Desc),
		"tags":         item.Tags,
		"badges":       view.Badges(item.Tags),
		"stars":        view.StarsFor(item.Rating),
		"img":          view.ImageURL(item.Img, a.placeholderImg),
		"protein":      item.Protein,
		"carbs":        item.Carbs,
		"fat":          item.Fat,
	})
}

func menuFilterFromQuery(c *gin.Context) service.MenuFilter {
	sortFlag := strings.ToLower(c.Query("sort_popular"))

	return service.MenuFilter{
		Tags:             c.QueryArray("tag"),
		MinCalories:      c.Query("min_calories"),
		MaxCalories:      c.Query("max_calories"),
		MinProtein:       c.Query("min_protein"),
		MaxCarbs:         c.Query("max_carbs"),
		MaxFat:           c.Query("max_fat"),
		SortByPopularity: sortFlag == "1" || sortFlag == "true" || sortFlag == "on",
	}
}

// caloriesLine 组合卡路里与份量的一行展示文本，例如 "520 cal • 1 bowl"
func caloriesLine(item *service.MenuItem) string {
	parts := make([]string, 0, 2)
	if item.Calories > 0 {
		parts = append(parts, strconv.FormatFloat(item.Calories, 'f', -1, 64)+" cal")
	}
	if item.Serving != "" {
		parts = append(parts, item.Serving)
	}
	return strings.Join(parts, " • ")
}

// renderItemDesc 把描述渲染为消毒后的 HTML；空描述回退到占位文案
func renderItemDesc(desc string) string {
	trimmed := strings.TrimSpace(desc)
	if trimmed == "" {
		return "<p>No description.</p>"
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(trimmed), &buf); err != nil {
		return "<p>No description.</p>"
	}
	return sanitizer.Sanitize(buf.String())
}
