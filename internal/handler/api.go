package handler

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/smartbytes/menuboard/internal/config"
	"github.com/smartbytes/menuboard/internal/service"
	"github.com/smartbytes/menuboard/internal/storage"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db             *gorm.DB
	hub            *service.RealtimeHub
	catalog        *service.CatalogService
	cart           *service.CartService
	mealLogs       *service.MealLogService
	selection      *service.SelectionService
	uploadDir      string
	uploadURL      string
	placeholderImg string
}

// NewAPI constructs a handler set with shared services.
// 存储变更沿着 GormStore → EventBus → RealtimeHub 一路推到该客户端的其他连接，
// 对应浏览器多标签页之间的 storage 事件。
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	bus := service.NewEventBus()
	hub := service.NewRealtimeHub()

	store := storage.NewGormStore(gdb)
	store.OnChange = func(clientID, key, value string) {
		bus.Publish(service.EventStorageChanged, service.StorageChangedPayload{
			ClientID: clientID,
			Key:      key,
			Value:    value,
		})
	}

	bus.Subscribe(service.EventStorageChanged, func(payload any) {
		if change, ok := payload.(service.StorageChangedPayload); ok {
			hub.BroadcastStorageChange(change.ClientID, map[string]any{
				"kind":  "storage.changed",
				"key":   change.Key,
				"value": change.Value,
			})
		}
	})

	repo := service.NewCartRepository(store)

	return &API{
		db:             gdb,
		hub:            hub,
		catalog:        service.NewCatalogService(cfg.MenuDataDir, bus),
		cart:           service.NewCartService(repo, bus),
		mealLogs:       service.NewMealLogService(repo, bus),
		selection:      service.NewSelectionService(store, bus),
		uploadDir:      cfg.UploadDir,
		uploadURL:      cfg.UploadURLPath,
		placeholderImg: cfg.PlaceholderImg,
	}
}
