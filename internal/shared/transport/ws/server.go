package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"AncientWarfare/modules/kit/logx"
)

type Server struct {
	router   *Router
	log      logx.Logger
	upgrader websocket.Upgrader
}

func NewServer(r *Router, l logx.Logger) *Server {
	return &Server{
		router: r,
		log:    l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// 观战页面可能部署在别的域名
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Upgrade 升级连接并启动读写循环；失败时 upgrader 已写回 HTTP 错误。
func (s *Server) Upgrade(w http.ResponseWriter, r *http.Request) (WSConn, error) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade error", zap.Error(err))
		return nil, err
	}
	c := newConn(wsConn, s.router, s.log)
	c.run()
	return c, nil
}
