package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrMenuUnavailable 在菜单数据文件读取或解析失败时返回
	ErrMenuUnavailable = errors.New("menu data unavailable")
	// ErrStationNotFound 在指定档口不存在时返回
	ErrStationNotFound = errors.New("station not found")
	// ErrMenuItemNotFound 在指定菜品不存在时返回
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrInvalidMenuDocument 在上传的菜单 JSON 不合法时返回
	ErrInvalidMenuDocument = errors.New("invalid menu document")
)

// MenuItem 是菜单目录里的一个菜品，运行期只读。
// 数值字段缺省为 0，Img 为空时由视图层回退到占位图。
type MenuItem struct {
	Name     string   `json:"name"`
	Calories float64  `json:"calories,omitempty"`
	Desc     string   `json:"desc,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Rating   float64  `json:"rating,omitempty"`
	Serving  string   `json:"serving,omitempty"`
	Img      string   `json:"img,omitempty"`
	Protein  float64  `json:"protein,omitempty"`
	Carbs    float64  `json:"carbs,omitempty"`
	Fat      float64  `json:"fat,omitempty"`
}

// MenuStation 是一个档口及其菜品的有序集合
type MenuStation struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Menu 是某个餐厅的完整目录
type Menu struct {
	Stations []MenuStation `json:"stations"`
}

// DefaultLocation 是未识别路径时的回退餐厅
const DefaultLocation = "commons"

// locationFiles 把已知餐厅映射到数据文件名
var locationFiles = map[string]string{
	"commons": "commons.menu.json",
	"sadler":  "sadler.menu.json",
}

// CatalogService 负责加载并缓存各餐厅的菜单目录。
// 每次成功 (重新) 加载后，在所有档口就绪的时刻广播一次 menuLoaded。
type CatalogService struct {
	dataDir string
	bus     *EventBus

	mu    sync.Mutex
	cache map[string]*Menu
}

// NewCatalogService 构造 CatalogService
func NewCatalogService(dataDir string, bus *EventBus) *CatalogService {
	return &CatalogService{
		dataDir: dataDir,
		bus:     bus,
		cache:   make(map[string]*Menu),
	}
}

// ResolveLocation 从页面路径片段推断餐厅，未识别时回退到 commons。
// 采用子串匹配，sadler 优先于默认值。
func ResolveLocation(pathSegment string) string {
	p := strings.ToLower(strings.TrimSpace(pathSegment))
	if strings.Contains(p, "sadler") {
		return "sadler"
	}
	if strings.Contains(p, "commons") {
		return "commons"
	}
	return DefaultLocation
}

// Load 返回指定餐厅的菜单；首次加载成功后缓存并广播 menuLoaded。
// 读取或解析失败时返回 ErrMenuUnavailable 包装错误，不重试、不返回部分结果。
func (s *CatalogService) Load(location string) (*Menu, error) {
	resolved := ResolveLocation(location)

	s.mu.Lock()
	defer s.mu.Unlock()

	if menu, ok := s.cache[resolved]; ok {
		return menu, nil
	}
	return s.loadLocked(resolved)
}

// Reload 丢弃缓存并重新读取数据文件，成功后再次广播 menuLoaded。
func (s *CatalogService) Reload(location string) (*Menu, error) {
	resolved := ResolveLocation(location)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, resolved)
	return s.loadLocked(resolved)
}

func (s *CatalogService) loadLocked(location string) (*Menu, error) {
	raw, err := os.ReadFile(filepath.Join(s.dataDir, locationFiles[location]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuUnavailable, err)
	}

	var menu Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMenuUnavailable, err)
	}

	s.cache[location] = &menu
	if s.bus != nil {
		s.bus.Publish(EventMenuLoaded, MenuLoadedPayload{
			Location: location,
			Stations: len(menu.Stations),
		})
	}
	return &menu, nil
}

// FindItem 按档口 ID 和菜品名定位一个菜品，供详情弹窗使用。
func (s *CatalogService) FindItem(location, stationID, name string) (*MenuItem, error) {
	menu, err := s.Load(location)
	if err != nil {
		return nil, err
	}

	for _, station := range menu.Stations {
		if station.ID != stationID {
			continue
		}
		for i := range station.Items {
			if station.Items[i].Name == name {
				item := station.Items[i]
				return &item, nil
			}
		}
		return nil, ErrMenuItemNotFound
	}
	return nil, ErrStationNotFound
}

// SaveMenu 校验并落盘一份新的菜单 JSON，随后重新加载。
// 校验失败时不写文件，返回 ErrInvalidMenuDocument。
func (s *CatalogService) SaveMenu(location string, raw []byte) (*Menu, error) {
	var menu Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMenuDocument, err)
	}
	if len(menu.Stations) == 0 {
		return nil, fmt.Errorf("%w: no stations", ErrInvalidMenuDocument)
	}

	resolved := ResolveLocation(location)
	if err := os.WriteFile(filepath.Join(s.dataDir, locationFiles[resolved]), raw, 0o644); err != nil {
		return nil, fmt.Errorf("save menu document: %w", err)
	}

	return s.Reload(resolved)
}
