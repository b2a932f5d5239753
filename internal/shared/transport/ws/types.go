package ws

type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type WsMsgReq struct {
	Body *ReqBody
	Conn WSConn
}

type WsMsgResp struct {
	Body *RespBody
}

// WSConn 是一条观战连接。Push 不阻塞，写缓冲满时丢弃并返回 false。
type WSConn interface {
	SetProperty(key string, value any)
	GetProperty(key string) any
	Addr() string
	Push(name string, data any) bool
	Close()
	// Done 在连接关闭时被关闭
	Done() <-chan struct{}
}

type Heartbeat struct {
	CTime int64 `json:"ctime"`
	STime int64 `json:"stime"`
}

const (
	HeartbeatMsg = "heartbeat"
	// ConnKeyBattleID 是连接上挂的观战对象。
	ConnKeyBattleID = "battle_id"
)
