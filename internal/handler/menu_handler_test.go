package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func locationParams(value string) gin.Params {
	return gin.Params{gin.Param{Key: "location", Value: value}}
}

func TestGetMenuAppliesCalorieFilter(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodGet, "/api/menu/commons?min_calories=200&max_calories=400", nil)
	c.Params = locationParams("commons")
	api.GetMenu(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	stations := body["stations"].([]any)
	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}

	items := stations[0].(map[string]any)["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("hidden items must stay in the response, got %d", len(items))
	}

	visibleByName := map[string]bool{}
	for _, raw := range items {
		item := raw.(map[string]any)
		visibleByName[item["name"].(string)] = item["visible"].(bool)
	}
	if visibleByName["Light"] || !visibleByName["Medium"] || visibleByName["Heavy"] {
		t.Fatalf("unexpected visibility: %v", visibleByName)
	}
}

func TestGetMenuPopularitySort(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodGet, "/api/menu/commons?sort_popular=1", nil)
	c.Params = locationParams("commons")
	api.GetMenu(c)

	body := decodeBody(t, w)
	items := body["stations"].([]any)[0].(map[string]any)["items"].([]any)

	first := items[0].(map[string]any)["name"].(string)
	if first != "Medium" {
		t.Fatalf("expected top-rated item first, got %q", first)
	}
}

func TestGetMenuFillsPlaceholderImage(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodGet, "/api/menu/commons", nil)
	c.Params = locationParams("commons")
	api.GetMenu(c)

	items := decodeBody(t, w)["stations"].([]any)[0].(map[string]any)["items"].([]any)
	img := items[0].(map[string]any)["img"].(string)
	if img != "/static/images/placeholder-food.jpg" {
		t.Fatalf("expected placeholder image, got %q", img)
	}
}

func TestGetMenuUnavailable(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	// sadler 的数据文件不存在，应返回单条错误而非部分渲染
	w, c := jsonContext(t, http.MethodGet, "/api/menu/sadler", nil)
	c.Params = locationParams("sadler")
	api.GetMenu(c)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
	if _, hasError := decodeBody(t, w)["error"]; !hasError {
		t.Fatalf("expected error message in body")
	}
}

func TestGetMenuUnknownLocationFallsBack(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodGet, "/api/menu/mystery-hall", nil)
	c.Params = locationParams("mystery-hall")
	api.GetMenu(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected fallback to commons, got %d", w.Code)
	}
	if decodeBody(t, w)["location"] != "commons" {
		t.Fatalf("expected resolved location commons")
	}
}

func TestGetStations(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodGet, "/api/menu/commons/stations", nil)
	c.Params = locationParams("commons")
	api.GetStations(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	stations := decodeBody(t, w)["stations"].([]any)
	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}
	station := stations[0].(map[string]any)
	if station["id"] != "grill" || station["name"] != "The Grill" {
		t.Fatalf("unexpected station payload: %v", station)
	}
}

func TestGetMenuItemDetail(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodGet, "/api/menu/commons/item?station=grill&name=Medium", nil)
	c.Params = locationParams("commons")
	api.GetMenuItem(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	descHTML := body["descHtml"].(string)
	if !strings.Contains(descHTML, "<strong>solid</strong>") {
		t.Fatalf("expected rendered markdown description, got %q", descHTML)
	}
	if body["caloriesLine"] != "300 cal • 1 bowl" {
		t.Fatalf("unexpected calories line: %v", body["caloriesLine"])
	}

	stars := body["stars"].(map[string]any)
	if stars["full"] != float64(5) {
		t.Fatalf("expected 5 full stars, got %v", stars["full"])
	}
}

func TestGetMenuItemNotFound(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	w, c := jsonContext(t, http.MethodGet, "/api/menu/commons/item?station=grill&name=Nope", nil)
	c.Params = locationParams("commons")
	api.GetMenuItem(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown item, got %d", w.Code)
	}

	w2, c2 := jsonContext(t, http.MethodGet, "/api/menu/commons/item?station=nope&name=Medium", nil)
	c2.Params = locationParams("commons")
	api.GetMenuItem(c2)
	if w2.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown station, got %d", w2.Code)
	}
}
