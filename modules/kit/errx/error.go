package errx

import (
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
)

// Code 表示错误码（对外语义的稳定标识）。
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
)

// Error 是战斗服务统一的错误模型。
//
// 业务错误（NewBiz）描述合法但被拒绝的请求：战斗已结束、兵力为空、请求参数越界；不带栈。
// 系统错误（NewSys）描述依赖故障或数值不变量被破坏；首次挂 cause 或 WithStack 时捕获一次栈。
// 所有 With* 都返回副本，哨兵错误可以安全共享。
type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
	stack []uintptr
	kind  kind
}

func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindBiz}
}

func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindSys}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := string(e.code)
	if e.msg != "" {
		s += ": " + e.msg
	}
	if e.cause != nil {
		s = fmt.Sprintf("%s: %v", s, e.cause)
	}
	return s
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只比较错误码，msg/data/cause 不参与。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.code == t.code
}

func (e *Error) IsSys() bool {
	return e != nil && e.kind == kindSys
}

// Kind 返回 "biz" 或 "sys"，写进日志的 err_type。
func (e *Error) Kind() string {
	if e.IsSys() {
		return "sys"
	}
	return "biz"
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	return string(e.Code())
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// Data 返回拷贝。
func (e *Error) Data() map[string]any {
	if e == nil {
		return nil
	}
	return maps.Clone(e.data)
}

// Reason 读取 data["reason"]，不是字符串时为空。
func (e *Error) Reason() string {
	if e == nil {
		return ""
	}
	s, _ := e.data["reason"].(string)
	return s
}

func (e *Error) Stack() []uintptr {
	if e == nil {
		return nil
	}
	return slices.Clone(e.stack)
}

func (e *Error) WithData(key string, value any) *Error {
	return e.derive(func(n *Error) {
		if n.data == nil {
			n.data = make(map[string]any, 1)
		}
		n.data[key] = value
	})
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	return e.derive(func(n *Error) {
		if len(data) == 0 {
			return
		}
		if n.data == nil {
			n.data = make(map[string]any, len(data))
		}
		maps.Copy(n.data, data)
	})
}

// WithCause 挂上原始错误。下层已带栈时不重复捕获。
func (e *Error) WithCause(cause error) *Error {
	return e.derive(func(n *Error) {
		n.cause = cause
		if n.kind == kindSys && cause != nil && len(n.stack) == 0 && !hasStackInChain(cause) {
			n.stack = captureStack(5)
		}
	})
}

// WithStack 用于没有 cause 的系统错误，例如数值不变量检查失败。
func (e *Error) WithStack() *Error {
	return e.derive(func(n *Error) {
		if n.kind == kindSys && len(n.stack) == 0 {
			n.stack = captureStack(5)
		}
	})
}

func (e *Error) derive(mut func(*Error)) *Error {
	n := &Error{
		code:  e.code,
		msg:   e.msg,
		data:  maps.Clone(e.data),
		cause: e.cause,
		stack: slices.Clone(e.stack),
		kind:  e.kind,
	}
	mut(n)
	return n
}

// IsSys 沿错误链查找 *Error；链上没有 *Error 时视为业务侧错误。
func IsSys(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsSys()
}

// skip=5 跳过 Callers、captureStack、derive 回调、derive 与 With* 本身。
func captureStack(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	for i := 0; i < 32 && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
