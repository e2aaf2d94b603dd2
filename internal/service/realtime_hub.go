package service

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// WSClient 表示一条已建立的 WebSocket 连接，按客户端 ID 归组。
type WSClient struct {
	ClientID string
	Conn     *websocket.Conn
}

// RealtimeHub 把存储变更推送到同一客户端的其他在线连接，
// 等价于浏览器多标签页之间的 storage 事件同步。
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

// NewRealtimeHub 构造 RealtimeHub
func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

// Register 注册连接
func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.ClientID] == nil {
		h.clients[c.ClientID] = make(map[*WSClient]struct{})
	}
	h.clients[c.ClientID][c] = struct{}{}
	h.mu.Unlock()
}

// Unregister 注销并关闭连接
func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.ClientID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.ClientID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// BroadcastStorageChange 把一次存储变更推送给该客户端的所有连接
func (h *RealtimeHub) BroadcastStorageChange(clientID string, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[clientID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
