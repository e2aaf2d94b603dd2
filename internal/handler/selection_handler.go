package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type selectionRequest struct {
	Date string `json:"date"`
	Meal string `json:"meal"`
}

// GetSelection 解析当前日期/餐次选择并广播初始信号。
// URL 参数优先于已存值，已存值优先于默认值（今天 / lunch）。
func (a *API) GetSelection(c *gin.Context) {
	state := a.selection.Resolve(clientID(c), c.Query("date"), c.Query("meal"))
	c.JSON(http.StatusOK, state)
}

// UpdateSelection 持久化用户的新选择。非法日期静默忽略，返回仍然生效的状态。
func (a *API) UpdateSelection(c *gin.Context) {
	var req selectionRequest
	if !bindJSON(c, &req, "请求格式不正确") {
		return
	}

	cid := clientID(c)
	if req.Date != "" {
		a.selection.SetDate(cid, req.Date)
	}
	if req.Meal != "" {
		a.selection.SetMeal(cid, req.Meal)
	}

	c.JSON(http.StatusOK, a.selection.Current(cid))
}
