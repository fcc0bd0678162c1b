package errs

import "net/http"

// 业务错误码。1xxx 客户端问题，5xx 服务端问题。
const (
	ServerInternalError  = 500  // 服务器内部错误
	ArgsError            = 1001 // 参数非法（空群名、不支持的 emoji、空消息等）
	UnauthorizedError    = 1101 // 请求未携带有效身份
	ProfileNotFoundError = 1102 // 身份合法但用户档案未注册
	RecordNotFoundError  = 1201 // 会话/消息不存在
	NoPermissionError    = 1203 // 非会话成员或非消息发送者
)

var (
	ErrInternalServer  = NewCodeError(ServerInternalError, "server internal error")
	ErrArgs            = NewCodeError(ArgsError, "invalid argument")
	ErrUnauthorized    = NewCodeError(UnauthorizedError, "unauthorized")
	ErrProfileNotFound = NewCodeError(ProfileNotFoundError, "user profile not found")
	ErrRecordNotFound  = NewCodeError(RecordNotFoundError, "record not found")
	ErrNoPermission    = NewCodeError(NoPermissionError, "no permission")
)

// HTTPStatus 业务码到 HTTP 状态码的映射（REST 出口统一走这里）。
func HTTPStatus(code int) int {
	switch code {
	case ArgsError:
		return http.StatusBadRequest
	case UnauthorizedError:
		return http.StatusUnauthorized
	case ProfileNotFoundError, RecordNotFoundError:
		return http.StatusNotFound
	case NoPermissionError:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
