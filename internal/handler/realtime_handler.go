package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/smartbytes/menuboard/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StorageSync 升级为 WebSocket 连接并挂到实时中心。
// 此后该客户端在其他连接上产生的存储变更都会被推送过来，
// 对应浏览器标签页之间的 storage 事件同步。
func (a *API) StorageSync(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &service.WSClient{ClientID: clientID(c), Conn: conn}
	a.hub.Register(client)

	go func() {
		defer a.hub.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
