package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartbytes/menuboard/internal/config"
	"github.com/smartbytes/menuboard/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testMenuJSON = `{
  "stations": [
    {"id": "grill", "name": "The Grill", "items": [
      {"name": "Light", "calories": 100, "rating": 2, "tags": ["vegan"]},
      {"name": "Medium", "calories": 300, "rating": 5, "desc": "A **solid** choice.", "serving": "1 bowl", "tags": ["vegan", "gluten_free"]},
      {"name": "Heavy", "calories": 500, "rating": 3}
    ]}
  ]
}`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestAPI(t *testing.T) (*API, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.StorageEntry{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "commons.menu.json"), []byte(testMenuJSON), 0o644); err != nil {
		t.Fatalf("failed to write test menu: %v", err)
	}

	cfg := config.AppConfig{
		MenuDataDir:    dataDir,
		UploadDir:      t.TempDir(),
		UploadURLPath:  "/static/uploads",
		PlaceholderImg: "/static/images/placeholder-food.jpg",
	}

	return NewAPI(gdb, cfg), func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func jsonContext(t *testing.T, method, target string, payload any) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(clientIDContextKey, "tester")
	return w, c
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestAddMealRejectsPastDate(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodPost, "/api/meals", map[string]any{
		"title": "Cookie",
		"date":  "2000-01-01",
	})
	api.AddMeal(c)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["blocking"] != true {
		t.Fatalf("expected blocking dialog payload, got %v", body)
	}
	if body["requiredDate"] != time.Now().Format("2006-01-02") {
		t.Fatalf("expected today's date in payload, got %v", body["requiredDate"])
	}

	// 被拒绝的请求不得写入任何记录
	w2, c2 := jsonContext(t, http.MethodGet, "/api/meals", nil)
	api.GetMyMeals(c2)
	summary := decodeBody(t, w2)
	if entries := summary["entries"].([]any); len(entries) != 0 {
		t.Fatalf("expected cart unchanged, got %d entries", len(entries))
	}
}

func TestAddMealTodaySucceeds(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodPost, "/api/meals", map[string]any{
		"title":    "Grain Bowl",
		"calories": 430,
		"date":     time.Now().Format("2006-01-02"),
	})
	api.AddMeal(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	entry := body["entry"].(map[string]any)
	if entry["title"] != "Grain Bowl" {
		t.Fatalf("unexpected entry title: %v", entry["title"])
	}
	if entry["meal"] != "lunch" {
		t.Fatalf("expected default meal lunch, got %v", entry["meal"])
	}
	if body["toastMs"] != float64(1200) {
		t.Fatalf("expected toast hint 1200ms, got %v", body["toastMs"])
	}

	w2, c2 := jsonContext(t, http.MethodGet, "/api/meals", nil)
	api.GetMyMeals(c2)
	summary := decodeBody(t, w2)
	if entries := summary["entries"].([]any); len(entries) != 1 {
		t.Fatalf("expected one logged meal, got %d", len(entries))
	}
}

func TestAddMealDefaultsDateToSelection(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	// 不带日期时取当前选择状态（默认即今天），守卫应放行
	w, c := jsonContext(t, http.MethodPost, "/api/meals", map[string]any{"title": "Cookie"})
	api.AddMeal(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	entry := decodeBody(t, w)["entry"].(map[string]any)
	if entry["date"] != time.Now().Format("2006-01-02") {
		t.Fatalf("expected today's date, got %v", entry["date"])
	}
}

func TestGetMyMealsTotalsAndEmptyMessage(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	today := time.Now().Format("2006-01-02")
	for _, calories := range []float64{100, 250} {
		w, c := jsonContext(t, http.MethodPost, "/api/meals", map[string]any{
			"title":    "Meal",
			"calories": calories,
			"date":     today,
		})
		api.AddMeal(c)
		if w.Code != http.StatusOK {
			t.Fatalf("seed add failed with status %d", w.Code)
		}
	}

	w, c := jsonContext(t, http.MethodGet, "/api/meals?date="+today, nil)
	api.GetMyMeals(c)
	summary := decodeBody(t, w)

	totals := summary["totals"].(map[string]any)
	if totals["calories"] != float64(350) {
		t.Fatalf("expected calorie total 350, got %v", totals["calories"])
	}
	if _, hasMessage := summary["message"]; hasMessage {
		t.Fatalf("expected no empty-state message when entries exist")
	}

	// 其他日期不参与合计，且返回空态文案
	w2, c2 := jsonContext(t, http.MethodGet, "/api/meals?date=2000-01-02", nil)
	api.GetMyMeals(c2)
	other := decodeBody(t, w2)
	if other["totals"].(map[string]any)["calories"] != float64(0) {
		t.Fatalf("expected zero totals for other date, got %v", other["totals"])
	}
	if _, hasMessage := other["message"]; !hasMessage {
		t.Fatalf("expected empty-state message naming the date")
	}
}

func TestRateAndDeleteMeal(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodPost, "/api/meals", map[string]any{
		"title": "Cookie",
		"date":  time.Now().Format("2006-01-02"),
	})
	api.AddMeal(c)
	entryID := decodeBody(t, w)["entry"].(map[string]any)["id"].(string)

	// 合法评分
	w2, c2 := jsonContext(t, http.MethodPost, "/api/meals/"+entryID+"/rating", map[string]any{"rating": 4})
	c2.Params = gin.Params{gin.Param{Key: "id", Value: entryID}}
	api.RateMeal(c2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w2.Code)
	}
	if decodeBody(t, w2)["entry"].(map[string]any)["rating"] != float64(4) {
		t.Fatalf("expected rating 4 in response")
	}

	// 越界评分
	w3, c3 := jsonContext(t, http.MethodPost, "/api/meals/"+entryID+"/rating", map[string]any{"rating": 9})
	c3.Params = gin.Params{gin.Param{Key: "id", Value: entryID}}
	api.RateMeal(c3)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w3.Code)
	}

	// 删除后再次删除应 404
	w4, c4 := jsonContext(t, http.MethodDelete, "/api/meals/"+entryID, nil)
	c4.Params = gin.Params{gin.Param{Key: "id", Value: entryID}}
	api.DeleteMeal(c4)
	if w4.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w4.Code)
	}

	w5, c5 := jsonContext(t, http.MethodDelete, "/api/meals/"+entryID, nil)
	c5.Params = gin.Params{gin.Param{Key: "id", Value: entryID}}
	api.DeleteMeal(c5)
	if w5.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w5.Code)
	}
}
