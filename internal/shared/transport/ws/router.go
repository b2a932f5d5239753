package ws

import (
	"context"
	"slices"
	"strings"

	"AncientWarfare/internal/shared/logs"
	"AncientWarfare/internal/shared/transport"
	"AncientWarfare/modules/kit/logx"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Group 是同一前缀下的一组路由，例如 battle.snapshot 属于 battle 组。
type Group struct {
	prefix string
	r      *Router
}

func (g *Group) Handle(name string, h HandlerFunc) {
	g.r.routes[g.prefix+"."+name] = h
}

// Router 按 "组.处理器" 分发观战连接上的请求。只在启动阶段注册，之后并发只读。
type Router struct {
	groups map[string]struct{}
	routes map[string]HandlerFunc
	log    logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.NewZapLogger(logs.Logger())
	}
	return &Router{
		groups: make(map[string]struct{}),
		routes: make(map[string]HandlerFunc),
		log:    l,
	}
}

func (r *Router) Group(prefix string) *Group {
	r.groups[prefix] = struct{}{}
	return &Group{prefix: prefix, r: r}
}

// Routes 返回已注册的完整路由名，按字典序。
func (r *Router) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for name := range r.routes {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Dispatch 处理一条请求并写访问日志。handler 没有设置 Code 时按系统错误返回。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	if resp == nil || resp.Body == nil {
		return
	}
	name := ""
	if req != nil && req.Body != nil {
		name = req.Body.Name
	}
	ctx := transport.NewContextWithParent(context.Background(), "ws", "WS "+orUnknown(name))
	resp.Body.Code = int(transport.SystemError)
	resp.Body.Msg = nil
	defer func() {
		transport.SetBizCode(ctx, transport.BizCode(resp.Body.Code))
		transport.WriteAccessLog(ctx, r.log)
	}()

	if req == nil || req.Body == nil {
		fail(resp, "参数有误")
		return
	}
	h, msg := r.lookup(name)
	if h == nil {
		fail(resp, msg)
		return
	}
	h(ctx, req, resp)
}

func (r *Router) lookup(name string) (HandlerFunc, string) {
	prefix, handler, ok := strings.Cut(name, ".")
	if !ok || prefix == "" || handler == "" || strings.Contains(handler, ".") {
		return nil, "路由参数有误"
	}
	if _, ok := r.groups[prefix]; !ok {
		return nil, "路由组不存在"
	}
	h := r.routes[name]
	if h == nil {
		return nil, "路由处理器不存在"
	}
	return h, ""
}

func fail(resp *WsMsgResp, msg string) {
	resp.Body.Code = int(transport.InvalidParam)
	resp.Body.Msg = msg
}

func orUnknown(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}
