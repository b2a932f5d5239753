package transport

import (
	"errors"

	"AncientWarfare/modules/kit/errx"
)

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

const (
	OK             BizCode = 0
	InvalidParam   BizCode = 1001
	NotFound       BizCode = 1004
	Conflict       BizCode = 1009
	BattleFinished BizCode = 1010
	SystemError    BizCode = 5000
	Unavailable    BizCode = 5003
	Timeout        BizCode = 5004
)

var bizByCode = map[errx.Code]BizCode{}

// RegisterBizCode 把领域错误码映射到对外业务码，在各模块 init 中调用。
func RegisterBizCode(code errx.Code, biz BizCode) {
	bizByCode[code] = biz
}

func init() {
	RegisterBizCode(errx.CodeReqParamError, InvalidParam)
	RegisterBizCode(errx.CodeTimeout, Timeout)
	RegisterBizCode(errx.CodeUnavailable, Unavailable)
}

// Response 是 HTTP/WS 的统一响应体。
type Response struct {
	Code BizCode `json:"code"`
	Msg  string  `json:"msg"`
	Data any     `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: OK, Msg: "ok", Data: data}
}

// FromError 把错误翻译成响应：已注册的 errx 码按映射返回，其余业务错误为 InvalidParam，
// 系统错误一律 SystemError 且不透出内部信息。
func FromError(err error) Response {
	var e *errx.Error
	if !errors.As(err, &e) {
		return Response{Code: SystemError, Msg: "服务器内部错误"}
	}
	if biz, ok := bizByCode[e.Code()]; ok {
		return Response{Code: biz, Msg: e.Msg()}
	}
	if e.IsSys() {
		return Response{Code: SystemError, Msg: "服务器内部错误"}
	}
	return Response{Code: InvalidParam, Msg: e.Msg()}
}
