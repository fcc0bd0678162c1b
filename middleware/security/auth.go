package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"RTChat/tools/errs"
	jwtlib "RTChat/tools/security"
)

// —— context key ——
// 下游 handler 统一用这个 key 读取已验证的外部身份主体。
const CtxSubjectKey = "authSubject"

type Options struct {
	Secret []byte
	// 读取哪个请求头（默认 Authorization: Bearer xxx，兼容裸 token）
	HeaderToken string
}

func DefaultOptions(secret []byte) *Options {
	return &Options{
		Secret:      secret,
		HeaderToken: "Authorization",
	}
}

// Middleware 校验 Bearer 令牌并把 subject 写入 context。
// 没有有效身份的请求到不了任何业务 handler。
func Middleware(opts *Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[len("bearer "):])
		}
		if token == "" {
			abortUnauthorized(c, "missing token")
			return
		}

		claims, err := jwtlib.Verify(jwtlib.DefaultOptions(opts.Secret), token)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}
		sub := claims.Subject()
		if sub == "" {
			abortUnauthorized(c, "token has no subject")
			return
		}

		c.Set(CtxSubjectKey, sub)
		c.Next()
	}
}

// SubjectOf 取出已验证的身份主体；中间件未放行时为空串。
func SubjectOf(c *gin.Context) string {
	return c.GetString(CtxSubjectKey)
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrUnauthorized.WithDetail(detail))
}
