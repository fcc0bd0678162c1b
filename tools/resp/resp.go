package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"RTChat/tools/errs"
)

// 统一出口：成功 {code:0, msg:"ok", data}，失败 {code, msg, detail}。
// HTTP 状态码由业务码映射，客户端两边都能用。

type Body struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Code: 0, Msg: "ok", Data: data})
}

func Err(c *gin.Context, err error) {
	codeErr := errs.Unwrap(err)
	if codeErr == nil {
		codeErr = errs.ErrInternalServer.WithDetail(err.Error())
	}
	c.JSON(errs.HTTPStatus(codeErr.Code), codeErr)
}
