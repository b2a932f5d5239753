package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	maxCauseDepth  = 16
	maxStackFrames = 24
	modulePrefix   = "AncientWarfare/"
)

// errx.Error 对外暴露的只读能力；用接口探测，logx 不直接依赖 errx。
type (
	coder    interface{ CodeText() string }
	messager interface{ Msg() string }
	carrier  interface{ Data() map[string]any }
	stacker  interface{ Stack() []uintptr }
	reasoner interface{ Reason() string }
)

// ErrorLog 是一次错误的可打印视图。
type ErrorLog struct {
	Error      string
	Code       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Origin     string
	Stack      []string
}

// BuildErrorLog 沿 errors.As 提取错误码、上下文和栈；栈只保留本模块内的帧。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	var c coder
	if errors.As(err, &c) {
		out.Code = c.CodeText()
	}
	var m messager
	if errors.As(err, &m) {
		out.Msg = m.Msg()
	}
	var d carrier
	if errors.As(err, &d) {
		out.Data = d.Data()
	}
	var r reasoner
	if errors.As(err, &r) {
		out.Reason = r.Reason()
	}
	var s stacker
	if errors.As(err, &s) {
		out.Stack = moduleFrames(s.Stack())
		if len(out.Stack) > 0 {
			out.Origin = out.Stack[0]
		}
	}
	out.CauseChain = causeChain(err)
	return out
}

// Summary 生成日志主消息，reason 优先于 msg。
func (e ErrorLog) Summary(action string) string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("%s, reason:%s, error:%s", action, e.Reason, e.Error)
	case e.Msg != "":
		return fmt.Sprintf("%s, error:%s, msg:%s", action, e.Error, e.Msg)
	default:
		return fmt.Sprintf("%s, error:%s", action, e.Error)
	}
}

// Fields 只输出非空部分。
func (e ErrorLog) Fields() []zap.Field {
	out := make([]zap.Field, 0, 5)
	if e.Code != "" {
		out = append(out, zap.String("error_code", e.Code))
	}
	if len(e.CauseChain) != 0 {
		out = append(out, zap.Strings("cause_chain", e.CauseChain))
	}
	if len(e.Data) != 0 {
		out = append(out, zap.Object("error_data", dataObject(e.Data)))
	}
	if e.Origin != "" {
		out = append(out, zap.String("origin_caller", e.Origin))
	}
	if len(e.Stack) > 1 {
		out = append(out, zap.String("stack_origin", strings.Join(e.Stack, "\n")))
	}
	return out
}

type dataObject map[string]any

func (d dataObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for k, v := range d {
		if err := enc.AddReflected(k, v); err != nil {
			return err
		}
	}
	return nil
}

// causeChain 跳过与上一层文本相同的包装层。
func causeChain(err error) []string {
	var out []string
	prev := err.Error()
	for cur, i := errors.Unwrap(err), 0; cur != nil && i < maxCauseDepth; cur, i = errors.Unwrap(cur), i+1 {
		text := cur.Error()
		if text == prev {
			continue
		}
		out = append(out, fmt.Sprintf("%T: %s", cur, text))
		prev = text
	}
	return out
}

// moduleFrames 过滤掉 runtime/第三方帧；全部被过滤时退回第一帧。
func moduleFrames(pcs []uintptr) []string {
	if len(pcs) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs)
	var first string
	out := make([]string, 0, 8)
	for len(out) < maxStackFrames {
		f, more := frames.Next()
		if f.Function == "" {
			break
		}
		line := f.Function + " " + f.File + ":" + strconv.Itoa(f.Line)
		if first == "" {
			first = line
		}
		if strings.HasPrefix(f.Function, modulePrefix) {
			out = append(out, line)
		}
		if !more {
			break
		}
	}
	if len(out) == 0 && first != "" {
		out = append(out, first)
	}
	return out
}
