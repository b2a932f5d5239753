package errx

// 跨模块统一的系统类错误码。
//
// 约束：
// - 系统类错误码只描述“技术/逻辑缺陷”，用于告警与排障
// - 战斗、战役等业务域的拒绝码由各自模块定义，不集中在 kit 里

const (
	// CodeInternal 表示不可预期的内部错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用（存储、actor 系统等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示请求或 actor 调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeInvariant 表示计算结果违反了数值不变量（例如混乱度越界），属于逻辑缺陷。
	CodeInvariant Code = "INVARIANT_VIOLATED"
	// CodeReqParamError 表示请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 统一系统类哨兵错误（通过 WithData/WithCause 派生新对象，禁止原地修改）。
var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrInvariant   = NewSys(CodeInvariant, "数值不变量被破坏")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
