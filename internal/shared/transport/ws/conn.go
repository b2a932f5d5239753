package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"AncientWarfare/modules/kit/logx"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMsgSize = 4 << 10
	outBuffer  = 256
)

type Conn struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *RespBody
	property map[string]any
	mu       sync.RWMutex
	done     chan struct{}
	once     sync.Once
	log      logx.Logger
}

func newConn(wsConn *websocket.Conn, router *Router, l logx.Logger) *Conn {
	return &Conn{
		conn:     wsConn,
		router:   router,
		outChan:  make(chan *RespBody, outBuffer),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (c *Conn) SetProperty(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.property[key] = value
}

func (c *Conn) GetProperty(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.property[key]
}

func (c *Conn) Addr() string {
	return c.conn.RemoteAddr().String()
}

func (c *Conn) Push(name string, data any) bool {
	return c.send(&RespBody{Name: name, Msg: data})
}

func (c *Conn) send(body *RespBody) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.outChan <- body:
		return true
	default:
		// 慢观众不拖累战斗推送；记不记日志由调用方决定
		return false
	}
}

func (c *Conn) run() {
	go c.readLoop()
	go c.writeLoop()
}

func (c *Conn) readLoop() {
	defer func() {
		if err := recover(); err != nil {
			c.log.Error("ws readLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		c.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws read msg", zap.Error(err))
			}
			return
		}

		var req ReqBody
		if err := json.Unmarshal(data, &req); err != nil {
			c.log.Warn("ws unmarshal json error", zap.Error(err))
			continue
		}

		// req 和 resp 的 Seq 必须一致
		resp := &WsMsgResp{Body: &RespBody{Seq: req.Seq, Name: req.Name}}
		if req.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = BindJSON(&WsMsgReq{Body: &req}, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else if c.router != nil {
			c.router.Dispatch(&WsMsgReq{Body: &req, Conn: c}, resp)
		}
		if !c.send(resp.Body) {
			c.log.Warn("ws reply dropped", zap.String("addr", c.Addr()), zap.String("name", resp.Body.Name), zap.Int64("seq", resp.Body.Seq))
		}
	}
}

func (c *Conn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case body := <-c.outChan:
			if err := c.write(body); err != nil {
				c.log.Warn("ws write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) write(body *RespBody) error {
	data, err := json.Marshal(body)
	if err != nil {
		c.log.Error("ws marshal json error", zap.Error(err))
		return nil
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Conn) Close() {
	c.once.Do(func() {
		_ = c.conn.Close()
		close(c.done)
	})
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}
