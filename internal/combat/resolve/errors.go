package resolve

import (
	"AncientWarfare/internal/combat/unit"
	"AncientWarfare/modules/kit/errx"
)

const (
	CodeChaosOutOfRange       errx.Code = "COMBAT_CHAOS_OUT_OF_RANGE"
	CodePreparationOutOfRange errx.Code = "COMBAT_PREPARATION_OUT_OF_RANGE"
	CodeEmptyRoster           errx.Code = "COMBAT_EMPTY_ROSTER"
	CodeBattleFinished        errx.Code = "COMBAT_BATTLE_FINISHED"
)

// 计算器自身的缺陷：系统错误，必须在测试中暴露。
var (
	ErrChaosOutOfRange       = errx.NewSys(CodeChaosOutOfRange, "混乱度越界")
	ErrPreparationOutOfRange = errx.NewSys(CodePreparationOutOfRange, "准备度越界")
	// ErrStrengthOutOfRange 与单位校验共用错误码。
	ErrStrengthOutOfRange = unit.ErrStrengthOutOfRange
)

// 调用方的请求不成立：业务拒绝。
var (
	ErrEmptyRoster    = errx.NewBiz(CodeEmptyRoster, "一方没有任何单位")
	ErrBattleFinished = errx.NewBiz(CodeBattleFinished, "战斗已结束")
)

func invariant(base *errx.Error, data map[string]any) error {
	return base.WithDataMap(data).WithStack()
}
