package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig 汇总运行菜单服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string
	Port           string
	DatabasePath   string
	SessionSecret  string
	GinMode        string
	MenuDataDir    string
	UploadDir      string
	UploadURLPath  string
	PlaceholderImg string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "menuboard.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "menuboard-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	menuDataDir := strings.TrimSpace(os.Getenv("MENU_DATA_DIR"))
	if menuDataDir == "" {
		menuDataDir = "data"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "web/static/uploads"
	}

	uploadURLPath := strings.TrimSpace(os.Getenv("UPLOAD_URL_PATH"))
	if uploadURLPath == "" {
		uploadURLPath = "/static/uploads"
	}

	placeholderImg := strings.TrimSpace(os.Getenv("PLACEHOLDER_IMG"))
	if placeholderImg == "" {
		placeholderImg = "/static/images/placeholder-food.jpg"
	}

	return AppConfig{
		ListenAddr:     listenAddr,
		Port:           port,
		DatabasePath:   databasePath,
		SessionSecret:  sessionSecret,
		GinMode:        ginMode,
		MenuDataDir:    menuDataDir,
		UploadDir:      uploadDir,
		UploadURLPath:  uploadURLPath,
		PlaceholderImg: placeholderImg,
	}
}
