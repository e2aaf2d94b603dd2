package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const clientIDContextKey = "client_id"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// ClientSession 为每个会话分配一个稳定的客户端 ID，作为“同一浏览器”的身份边界。
// 餐食记录与日期/餐次选择都以它为命名空间隔离。
func ClientSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := session.Get(clientIDContextKey).(string); ok && id != "" {
			c.Set(clientIDContextKey, id)
			c.Next()
			return
		}

		id := uuid.New().String()
		session.Set(clientIDContextKey, id)
		_ = session.Save()
		c.Set(clientIDContextKey, id)
		c.Next()
	}
}

func clientID(c *gin.Context) string {
	if id, ok := c.Get(clientIDContextKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
