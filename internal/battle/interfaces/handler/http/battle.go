package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"AncientWarfare/internal/balance"
	"AncientWarfare/internal/battle/actors"
	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/internal/combat/resolve"
	"AncientWarfare/internal/shared/gameconfig/roster"
	"AncientWarfare/internal/shared/logs"
	"AncientWarfare/internal/shared/transport"
	"AncientWarfare/internal/shared/transport/ws"
	"AncientWarfare/modules/kit/errx"
	"AncientWarfare/modules/kit/logx"
	"AncientWarfare/modules/kit/tracex"
)

const (
	defaultRunTimeout = 30 * time.Second
	// 单次扫描的迭代总数上限
	maxSweepIterations = 20000
)

func init() {
	transport.RegisterBizCode(resolve.CodeBattleFinished, transport.BattleFinished)
	transport.RegisterBizCode(resolve.CodeEmptyRoster, transport.InvalidParam)
	transport.RegisterBizCode(roster.CodeUnknownTemplate, transport.InvalidParam)
}

type BattleService interface {
	Create(ctx context.Context, msg *actors.CreateBattle) (entity.View, error)
	Get(ctx context.Context, id entity.BattleID, withReports bool) (*actors.BattleReply, error)
	ResolveTurn(ctx context.Context, id entity.BattleID) (*actors.BattleReply, error)
	RunToEnd(ctx context.Context, id entity.BattleID, maxTurns int) (*actors.BattleReply, error)
}

type Sweeper interface {
	Run(ctx context.Context, sc balance.Scenario) (balance.Report, error)
}

type IDGenerator interface {
	NextBattleID() string
}

type Options struct {
	Battles  BattleService
	Sweeper  Sweeper
	IDs      IDGenerator
	Library  *roster.Library
	Hub      *Hub
	WSServer *ws.Server
	Log      logx.Logger
	// RunTimeout 是 /run 与 /balance/sweep 的处理时限
	RunTimeout time.Duration
}

type HttpHandler struct {
	opts Options
}

func NewHttpHandler(opts Options) *HttpHandler {
	if opts.Library == nil {
		opts.Library = roster.Default()
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = defaultRunTimeout
	}
	if opts.Log == nil {
		opts.Log = logx.NewZapLogger(logs.Logger())
	}
	return &HttpHandler{opts: opts}
}

func (h *HttpHandler) RegisterRoutes(group gin.IRouter) {
	battles := group.Group("/battles")
	battles.POST("", h.Create)
	battles.GET("/:id", h.Get)
	battles.POST("/:id/turns", h.ResolveTurn)
	battles.POST("/:id/run", h.Run)
	battles.GET("/:id/watch", h.Watch)

	group.GET("/templates", h.Templates)
	group.POST("/balance/sweep", h.Sweep)
}

// RegisterWS 注册观战连接上的请求路由。
func (h *HttpHandler) RegisterWS(r *ws.Router) {
	r.Group("battle").Handle("snapshot", h.wsSnapshot)
}

func (h *HttpHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateBattleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	attacker, defender, err := req.rosters(h.opts.Library)
	if err != nil {
		h.error(ctx, c, "create battle", err)
		return
	}

	id := h.opts.IDs.NextBattleID()
	seed := seedFromID(id)
	if req.Seed != nil {
		seed = *req.Seed
	}
	ctx = tracex.WithBattleID(ctx, id)
	view, err := h.opts.Battles.Create(ctx, &actors.CreateBattle{
		BattleBase: actors.BattleBase{ID: entity.BattleID(id)},
		Name:       req.Name,
		Seed:       seed,
		Context:    req.Context,
		Attacker:   attacker,
		Defender:   defender,
	})
	if err != nil {
		h.error(ctx, c, "create battle", err)
		return
	}
	h.ok(c, BattleResp{Battle: view})
}

func (h *HttpHandler) Get(c *gin.Context) {
	id := c.Param("id")
	ctx := tracex.WithBattleID(c.Request.Context(), id)
	rep, err := h.opts.Battles.Get(ctx, entity.BattleID(id), c.Query("reports") == "true")
	if err != nil {
		h.error(ctx, c, "get battle", err)
		return
	}
	h.ok(c, BattleResp{Battle: rep.View, Reports: rep.Reports})
}

func (h *HttpHandler) ResolveTurn(c *gin.Context) {
	id := c.Param("id")
	ctx := tracex.WithBattleID(c.Request.Context(), id)
	rep, err := h.opts.Battles.ResolveTurn(ctx, entity.BattleID(id))
	if err != nil {
		h.error(ctx, c, "resolve turn", err)
		return
	}
	transport.AddFields(ctx, zap.Int("turn", rep.View.Turn), zap.String("status", string(rep.View.Status)))
	h.ok(c, BattleResp{Battle: rep.View, Turns: rep.Turns})
}

func (h *HttpHandler) Run(c *gin.Context) {
	id := c.Param("id")
	var req RunReq
	// 空 body 表示打到结束
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil || req.MaxTurns < 0 {
			h.fail(c, transport.InvalidParam, "参数有误")
			return
		}
	}
	ctx, cancel := context.WithTimeout(tracex.WithBattleID(c.Request.Context(), id), h.opts.RunTimeout)
	defer cancel()

	rep, err := h.opts.Battles.RunToEnd(ctx, entity.BattleID(id), req.MaxTurns)
	if err != nil {
		h.error(ctx, c, "run battle", err)
		return
	}
	transport.AddFields(ctx, zap.Int("turn", rep.View.Turn), zap.Int("turns_resolved", len(rep.Turns)))
	h.ok(c, BattleResp{Battle: rep.View, Turns: rep.Turns})
}

// Watch 先确认战斗存在再升级连接，避免给不存在的战斗挂观战。
func (h *HttpHandler) Watch(c *gin.Context) {
	id := c.Param("id")
	ctx := tracex.WithBattleID(c.Request.Context(), id)
	rep, err := h.opts.Battles.Get(ctx, entity.BattleID(id), false)
	if err != nil {
		h.error(ctx, c, "watch battle", err)
		return
	}
	if h.opts.WSServer == nil || h.opts.Hub == nil {
		h.fail(c, transport.Unavailable, "观战服务未启用")
		return
	}
	conn, err := h.opts.WSServer.Upgrade(c.Writer, c.Request)
	if err != nil {
		// upgrader 已写回 HTTP 错误
		return
	}
	conn.SetProperty(ws.ConnKeyBattleID, id)
	h.opts.Hub.Watch(entity.BattleID(id), conn)
	conn.Push("battle.snapshot", rep.View)
}

func (h *HttpHandler) Templates(c *gin.Context) {
	lib := h.opts.Library
	out := make(map[string]roster.Template, len(lib.IDs()))
	for _, id := range lib.IDs() {
		out[id], _ = lib.Get(id)
	}
	h.ok(c, out)
}

func (h *HttpHandler) Sweep(c *gin.Context) {
	if h.opts.Sweeper == nil {
		h.fail(c, transport.Unavailable, "平衡模拟未启用")
		return
	}
	var req SweepReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Scenarios) == 0 {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	total := 0
	for _, sc := range req.Scenarios {
		if sc.Iterations <= 0 {
			h.fail(c, transport.InvalidParam, "iterations 必须大于 0")
			return
		}
		total += sc.Iterations
	}
	if total > maxSweepIterations {
		h.fail(c, transport.InvalidParam, "迭代总数过大")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.RunTimeout)
	defer cancel()
	resp := SweepResp{Reports: make([]balance.Report, 0, len(req.Scenarios))}
	for _, sc := range req.Scenarios {
		rep, err := h.opts.Sweeper.Run(ctx, sc)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = errx.ErrTimeout.WithCause(err)
			}
			h.error(ctx, c, "balance sweep", err)
			return
		}
		resp.Reports = append(resp.Reports, rep)
	}
	h.ok(c, resp)
}

func (h *HttpHandler) wsSnapshot(ctx context.Context, req *ws.WsMsgReq, resp *ws.WsMsgResp) {
	var body WatchReq
	if err := ws.BindJSON(req, &body); err != nil {
		resp.Body.Code = int(transport.InvalidParam)
		resp.Body.Msg = "参数有误"
		return
	}
	id := body.BattleID
	if id == "" {
		id, _ = req.Conn.GetProperty(ws.ConnKeyBattleID).(string)
	}
	if id == "" {
		resp.Body.Code = int(transport.InvalidParam)
		resp.Body.Msg = "缺少 battle_id"
		return
	}
	rep, err := h.opts.Battles.Get(tracex.WithBattleID(ctx, id), entity.BattleID(id), false)
	if err != nil {
		r := transport.FromError(err)
		resp.Body.Code = int(r.Code)
		resp.Body.Msg = r.Msg
		return
	}
	resp.Body.Code = int(transport.OK)
	resp.Body.Msg = rep.View
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	transport.SetBizCode(c.Request.Context(), transport.OK)
	c.JSON(nethttp.StatusOK, transport.Success(data))
}

func (h *HttpHandler) fail(c *gin.Context, code transport.BizCode, msg string) {
	transport.SetBizCode(c.Request.Context(), code)
	transport.SetErrorReason(c.Request.Context(), msg)
	c.JSON(nethttp.StatusOK, transport.Response{Code: code, Msg: msg})
}

// error 按错误类型分别记系统错误或业务拒绝，并写回统一响应。
func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	resp := transport.FromError(err)
	transport.SetBizCode(ctx, resp.Code)
	transport.SetErrorReason(ctx, err.Error())
	var e *errx.Error
	switch {
	case !errors.As(err, &e) || e.IsSys():
		logx.ReportSysErrorWithLoggerContext(ctx, h.opts.Log, logx.NewSysLog(action, err))
	default:
		logx.ReportBizWithLoggerContext(ctx, h.opts.Log, logx.NewBizLog(action, string(e.Code()), e.Msg()), zap.Int("biz_code", int(resp.Code)))
	}
	c.JSON(nethttp.StatusOK, resp)
}
