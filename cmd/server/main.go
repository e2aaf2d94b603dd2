package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/smartbytes/menuboard/internal/config"
	"github.com/smartbytes/menuboard/internal/db"
	"github.com/smartbytes/menuboard/internal/handler"
	"github.com/smartbytes/menuboard/internal/router"
)

func main() {
	// .env 不存在时忽略，直接读环境变量
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 设置了管理员环境变量时顺带创建账号
	if err := db.EnsureUser(os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, cfg)
	r := router.Setup(api, cfg)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
