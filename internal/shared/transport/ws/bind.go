package ws

import (
	"github.com/go-viper/mapstructure/v2"

	"AncientWarfare/modules/kit/errx"
)

// BindJSON 把 Body.Msg（json 解出的 map）按 json tag 解到 dst；数字按弱类型转换，
// 客户端发来的 12 与 12.0 都能落到 int 字段。Msg 为空时 dst 保持零值。
func BindJSON(req *WsMsgReq, dst any) error {
	if req == nil || req.Body == nil {
		return errx.ErrReqParamERR.WithData("reason", "empty ws body")
	}
	if req.Body.Msg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return errx.ErrInternal.WithCause(err)
	}
	if err := dec.Decode(req.Body.Msg); err != nil {
		return errx.ErrReqParamERR.WithData("route", req.Body.Name).WithCause(err)
	}
	return nil
}
