package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/smartbytes/menuboard/internal/config"
	"github.com/smartbytes/menuboard/internal/handler"
)

// Setup 配置 Gin 引擎和路由
func Setup(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件，并为每个会话分配客户端 ID
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("menuboard_session", store))
	r.Use(handler.ClientSession())

	// 静态文件服务（占位图与上传的菜品图片）
	r.Static("/static", "./web/static")

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 前台 API
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/menu/:location", api.GetMenu)
		apiGroup.GET("/menu/:location/stations", api.GetStations)
		apiGroup.GET("/menu/:location/item", api.GetMenuItem)

		apiGroup.GET("/selection", api.GetSelection)
		apiGroup.PUT("/selection", api.UpdateSelection)

		apiGroup.POST("/meals", api.AddMeal)
		apiGroup.GET("/meals", api.GetMyMeals)
		apiGroup.POST("/meals/:id/rating", api.RateMeal)
		apiGroup.DELETE("/meals/:id", api.DeleteMeal)

		apiGroup.GET("/ws", api.StorageSync)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.POST("/menu/:location", api.UploadMenu)
			auth.POST("/menu/:location/reload", api.ReloadMenu)
			auth.POST("/upload", api.UploadImage)
		}
	}

	return r
}
