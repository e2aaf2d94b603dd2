package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartbytes/menuboard/internal/service"
)

// 成功提示与按钮回弹的时长约定，与前端动画保持一致（毫秒）
const (
	toastDismissMs = 1200
	buttonRevertMs = 600
)

type mealLogRequest struct {
	Title    string  `json:"title"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Meal     string  `json:"meal"`
	Date     string  `json:"date"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

// AddMeal 记录一餐。同日守卫拒绝时返回 422 阻断式弹窗数据；成功时返回
// 新记录与瞬时提示时长，前端据此展示 toast 并短暂禁用触发按钮。
func (a *API) AddMeal(c *gin.Context) {
	var req mealLogRequest
	if !bindJSON(c, &req, "请求格式不正确") {
		return
	}

	cid := clientID(c)

	// 未显式给出日期/餐次时，取当前选择状态，等价于页面读取日期控件的值
	if req.Date == "" {
		req.Date = a.selection.Current(cid).Date
	}
	if req.Meal == "" {
		req.Meal = a.selection.Current(cid).Meal
	}

	entry, err := a.cart.LogMeal(cid, service.MealLogInput{
		Title:    req.Title,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		Meal:     req.Meal,
		Date:     req.Date,
	})
	if err != nil {
		var notToday *service.NotTodayError
		if errors.As(err, &notToday) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":        fmt.Sprintf("只能记录今天（%s）的餐食，请先把日期切换回今天", notToday.RequiredDate),
				"blocking":     true,
				"requiredDate": notToday.RequiredDate,
			})
			return
		}
		respondError(c, http.StatusInternalServerError, "记录餐食失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "已加入我的餐食",
		"entry":    entry,
		"toastMs":  toastDismissMs,
		"revertMs": buttonRevertMs,
	})
}

// GetMyMeals 返回选中日期的记录列表与四项营养合计；无记录时附带空态文案
func (a *API) GetMyMeals(c *gin.Context) {
	cid := clientID(c)

	date := c.Query("date")
	if !service.IsValidDate(date) {
		date = a.selection.Current(cid).Date
	}

	summary := a.mealLogs.SummaryForDate(cid, date)

	response := gin.H{
		"date":    summary.Date,
		"entries": summary.Entries,
		"totals":  summary.Totals,
	}
	if len(summary.Entries) == 0 {
		response["message"] = fmt.Sprintf("%s 还没有记录任何餐食", date)
	}

	c.JSON(http.StatusOK, response)
}

// RateMeal 更新某条记录的评分并立即持久化
func (a *API) RateMeal(c *gin.Context) {
	var req ratingRequest
	if !bindJSON(c, &req, "评分格式不正确") {
		return
	}

	entry, err := a.mealLogs.SetRating(clientID(c), c.Param("id"), req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			respondError(c, http.StatusBadRequest, "评分必须在 0 到 5 之间")
		case errors.Is(err, service.ErrEntryNotFound):
			respondError(c, http.StatusNotFound, "餐食记录不存在")
		default:
			respondError(c, http.StatusInternalServerError, "保存评分失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "评分已保存", "entry": entry})
}

// DeleteMeal 删除一条记录并触发统计重算
func (a *API) DeleteMeal(c *gin.Context) {
	if err := a.mealLogs.Delete(clientID(c), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			respondError(c, http.StatusNotFound, "餐食记录不存在")
		default:
			respondError(c, http.StatusInternalServerError, "删除记录失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "记录已删除"})
}
