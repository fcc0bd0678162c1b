package middleware

import (
	"github.com/gin-gonic/gin"

	midsec "RTChat/middleware/security"
)

// RouteOpt 配置选项
type RouteOpt struct {
	IsAuth bool
}

var authOpts *midsec.Options

// ConfigAuth 注入鉴权中间件参数，注册路由前调用一次。
func ConfigAuth(opts *midsec.Options) {
	authOpts = opts
}

// POST 封装：按需挂鉴权中间件。
func POST(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.POST(path, midsec.Middleware(authOpts), handler)
	} else {
		r.POST(path, handler)
	}
}

// GET 封装
func GET(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.GET(path, midsec.Middleware(authOpts), handler)
	} else {
		r.GET(path, handler)
	}
}
