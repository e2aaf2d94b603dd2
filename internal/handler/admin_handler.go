package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartbytes/menuboard/internal/db"
	"github.com/smartbytes/menuboard/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理后台登录请求
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "用户名和密码不能为空") {
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	// 设置会话
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "登录成功", "username": user.Username})
}

// Logout 清理会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete("user_id")
	session.Delete("username")
	_ = session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// AuthRequired 要求已登录的后台会话
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get("user_id") == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UploadMenu 接收某餐厅的新菜单 JSON，校验通过后落盘并重新加载
func (a *API) UploadMenu(c *gin.Context) {
	file, err := c.FormFile("menu")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的菜单文件")
		return
	}

	opened, err := file.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取上传文件失败")
		return
	}
	defer opened.Close()

	raw, err := io.ReadAll(opened)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取上传文件失败")
		return
	}

	menu, err := a.catalog.SaveMenu(c.Param("location"), raw)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMenuDocument) {
			respondError(c, http.StatusBadRequest, "菜单 JSON 不合法")
			return
		}
		respondError(c, http.StatusInternalServerError, "保存菜单失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "菜单已更新", "stations": len(menu.Stations)})
}

// ReloadMenu 丢弃缓存并重新读取某餐厅的菜单文件
func (a *API) ReloadMenu(c *gin.Context) {
	menu, err := a.catalog.Reload(c.Param("location"))
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "菜单数据加载失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "菜单已重新加载", "stations": len(menu.Stations)})
}

// UploadImage 处理菜品图片上传请求
func (a *API) UploadImage(c *gin.Context) {
	// 获取上传的文件
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的图片")
		return
	}

	// 检查文件类型
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "只允许上传图片文件")
		return
	}

	// 创建上传目录
	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "创建上传目录失败")
		return
	}

	// 生成唯一文件名
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	// 保存文件
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "保存文件失败")
		return
	}

	fileURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(a.uploadURL, "/"), newFilename)
	c.JSON(http.StatusOK, gin.H{"message": "上传成功", "url": fileURL})
}
