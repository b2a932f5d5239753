package entity

import (
	"AncientWarfare/internal/shared/transport"
	"AncientWarfare/modules/kit/errx"
)

const (
	CodeBattleNotFound      errx.Code = "BATTLE_NOT_FOUND"
	CodeBattleAlreadyExists errx.Code = "BATTLE_ALREADY_EXISTS"
	CodeBattleInvalid       errx.Code = "BATTLE_INVALID_REQUEST"
)

var (
	ErrBattleNotFound      = errx.NewBiz(CodeBattleNotFound, "战斗不存在")
	ErrBattleAlreadyExists = errx.NewBiz(CodeBattleAlreadyExists, "战斗已存在")
	ErrInvalidRequest      = errx.NewBiz(CodeBattleInvalid, "战斗请求参数有误")
)

func init() {
	transport.RegisterBizCode(CodeBattleNotFound, transport.NotFound)
	transport.RegisterBizCode(CodeBattleAlreadyExists, transport.Conflict)
	transport.RegisterBizCode(CodeBattleInvalid, transport.InvalidParam)
}
