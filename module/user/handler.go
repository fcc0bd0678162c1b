package user

import (
	"github.com/gin-gonic/gin"

	"RTChat/global"
	midsec "RTChat/middleware/security"
	usersvc "RTChat/module/user/service"
	"RTChat/tools/errs"
	"RTChat/tools/resp"
	jwtlib "RTChat/tools/security"
)

// HandlerToken 开发用令牌签发：给外部身份主体发一个 Bearer token。
// 生产部署由身份提供方签发，这个入口只在联调/本地使用。
func HandlerToken(c *gin.Context) {
	var req struct {
		Subject string `json:"subject" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, errs.ErrArgs.WrapMsg("subject is required"))
		return
	}

	opts := jwtlib.DefaultOptions(global.GetJwtSecret())
	opts.TTL = global.Global.TokenTTL
	token, expireAt, err := jwtlib.Generate(opts, req.Subject)
	if err != nil {
		resp.Err(c, errs.WrapMsg(err, "generate token"))
		return
	}
	resp.OK(c, gin.H{
		"token":     token,
		"expire_at": expireAt.Unix(),
	})
}

// HandlerUpsert 建档/更新档案（首次登录即建档）。
func HandlerUpsert(c *gin.Context) {
	subject := midsec.SubjectOf(c)
	if subject == "" {
		resp.Err(c, errs.ErrUnauthorized)
		return
	}

	var req struct {
		Email     string `json:"email" binding:"required"`
		Name      string `json:"name" binding:"required"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, errs.ErrArgs.WrapMsg("email and name are required"))
		return
	}

	u, err := usersvc.Upsert(c.Request.Context(), usersvc.UpsertParams{
		Subject:   subject,
		Email:     req.Email,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, u)
}

// HandlerMe 当前档案；未建档返回 ProfileNotFound。
func HandlerMe(c *gin.Context) {
	subject := midsec.SubjectOf(c)
	if subject == "" {
		resp.Err(c, errs.ErrUnauthorized)
		return
	}
	u, err := usersvc.GetBySubject(c.Request.Context(), subject)
	if err != nil {
		resp.Err(c, err)
		return
	}
	if u == nil {
		resp.Err(c, errs.ErrProfileNotFound)
		return
	}
	resp.OK(c, u)
}

// HandlerSearch 目录搜索：?q= 显示名子串，空串返回除自己外的全部。
func HandlerSearch(c *gin.Context) {
	subject := midsec.SubjectOf(c)
	if subject == "" {
		resp.Err(c, errs.ErrUnauthorized)
		return
	}
	caller, err := usersvc.GetBySubject(c.Request.Context(), subject)
	if err != nil {
		resp.Err(c, err)
		return
	}
	if caller == nil {
		resp.Err(c, errs.ErrProfileNotFound)
		return
	}

	users, err := usersvc.Search(c.Request.Context(), caller.ID, c.Query("q"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, users)
}
