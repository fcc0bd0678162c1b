package chat

import (
	"time"

	"github.com/gin-gonic/gin"

	"RTChat/logger"
	midsec "RTChat/middleware/security"
	chatmodel "RTChat/module/chat/model"
	"RTChat/module/chat/service"
	usersvc "RTChat/module/user/service"
	"RTChat/service/storage"
	"RTChat/tools/errs"
	"RTChat/tools/resp"
)

// Handler 聊天域的 HTTP 入口。身份解析（subject -> 档案）统一在这里做，
// 业务层只认已解析的 caller。
type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// resolveCaller 鉴权中间件放行后仍可能无档案（token 有效但未建档），
// 这种情况是 ProfileNotFound 而不是 Unauthorized。
func resolveCaller(c *gin.Context) (*chatmodel.User, bool) {
	subject := midsec.SubjectOf(c)
	if subject == "" {
		resp.Err(c, errs.ErrUnauthorized)
		return nil, false
	}
	u, err := usersvc.GetBySubject(c.Request.Context(), subject)
	if err != nil {
		resp.Err(c, err)
		return nil, false
	}
	if u == nil {
		resp.Err(c, errs.ErrProfileNotFound)
		return nil, false
	}
	return u, true
}

// HandlerCreateDirect POST /conversations/direct
func (h *Handler) HandlerCreateDirect(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	var req struct {
		OtherUserID string `json:"other_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, errs.ErrArgs.WrapMsg("other_user_id is required"))
		return
	}
	conv, err := h.svc.CreateOrGetDirect(c.Request.Context(), caller, req.OtherUserID)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, conv)
}

// HandlerCreateGroup POST /conversations/group
func (h *Handler) HandlerCreateGroup(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	var req struct {
		ParticipantIDs []string `json:"participant_ids"`
		GroupName      string   `json:"group_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, errs.ErrArgs.WrapMsg("group_name is required"))
		return
	}
	conv, err := h.svc.CreateGroup(c.Request.Context(), caller, req.ParticipantIDs, req.GroupName)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, conv)
}

// HandlerListConversations GET /conversations
func (h *Handler) HandlerListConversations(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	views, err := h.svc.ListConversations(c.Request.Context(), caller)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, views)
}

// HandlerGetConversation GET /conversations/:id
func (h *Handler) HandlerGetConversation(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	conv, err := h.svc.GetConversation(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, conv)
}

// HandlerSendMessage POST /conversations/:id/messages
func (h *Handler) HandlerSendMessage(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, errs.ErrArgs.WrapMsg("content is required"))
		return
	}
	msg, err := h.svc.SendMessage(c.Request.Context(), caller, c.Param("id"), req.Content)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, msg)
}

// HandlerListMessages GET /conversations/:id/messages
// ?with_reactions=1 时每条消息附带聚合回应。
func (h *Handler) HandlerListMessages(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	if c.Query("with_reactions") == "1" {
		msgs, err := h.svc.ListMessagesWithReactions(c.Request.Context(), caller, conversationID)
		if err != nil {
			resp.Err(c, err)
			return
		}
		resp.OK(c, msgs)
		return
	}
	msgs, err := h.svc.ListMessages(c.Request.Context(), caller, conversationID)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, msgs)
}

// HandlerDeleteMessage POST /messages/:id/delete
func (h *Handler) HandlerDeleteMessage(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	msg, err := h.svc.DeleteMessage(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, msg)
}

// HandlerToggleReaction POST /messages/:id/reactions
func (h *Handler) HandlerToggleReaction(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	var req struct {
		Emoji string `json:"emoji" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, errs.ErrArgs.WrapMsg("emoji is required"))
		return
	}
	added, err := h.svc.ToggleReaction(c.Request.Context(), caller, c.Param("id"), req.Emoji)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"added": added})
}

// HandlerListReactions GET /messages/:id/reactions
func (h *Handler) HandlerListReactions(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	groups, err := h.svc.ListReactions(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, groups)
}

// HandlerMarkRead POST /conversations/:id/read
func (h *Handler) HandlerMarkRead(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	var req struct {
		LastReadMessageID string `json:"last_read_message_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, errs.ErrArgs.WrapMsg("last_read_message_id is required"))
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), caller, c.Param("id"), req.LastReadMessageID); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, nil)
}

// HandlerUnreadCount GET /conversations/:id/unread/count
func (h *Handler) HandlerUnreadCount(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	count, err := h.svc.UnreadCount(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"count": count})
}

// HandlerUnreadMessages GET /conversations/:id/unread/messages
func (h *Handler) HandlerUnreadMessages(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	msgs, err := h.svc.UnreadMessages(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, msgs)
}

// HandlerSetTyping POST /conversations/:id/typing
func (h *Handler) HandlerSetTyping(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	if err := h.svc.SetTyping(c.Request.Context(), caller, c.Param("id")); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, nil)
}

// HandlerListTyping GET /conversations/:id/typing
func (h *Handler) HandlerListTyping(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	users, err := h.svc.ListTyping(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, users)
}

// HandlerSetPresence POST /presence
// 在线状态是尽力而为的辅助信号：redis 写失败只记日志，不报错给客户端。
func (h *Handler) HandlerSetPresence(c *gin.Context) {
	caller, ok := resolveCaller(c)
	if !ok {
		return
	}
	var req struct {
		IsOnline bool `json:"is_online"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Err(c, errs.ErrArgs.WrapMsg("invalid presence body"))
		return
	}
	if err := storage.PresenceSet(caller.ID, req.IsOnline, time.Now()); err != nil {
		logger.Warnf("presence set failed: user=%s err=%v", caller.ID, err)
	}
	resp.OK(c, nil)
}

// HandlerGetPresence GET /presence/users/:user_id
func (h *Handler) HandlerGetPresence(c *gin.Context) {
	if _, ok := resolveCaller(c); !ok {
		return
	}
	st, err := storage.PresenceGet(c.Param("user_id"))
	if err != nil {
		resp.Err(c, errs.WrapMsg(err, "presence get"))
		return
	}
	resp.OK(c, st)
}

// HandlerListOnline GET /presence/online
func (h *Handler) HandlerListOnline(c *gin.Context) {
	if _, ok := resolveCaller(c); !ok {
		return
	}
	users, err := storage.PresenceListOnline()
	if err != nil {
		resp.Err(c, errs.WrapMsg(err, "presence list online"))
		return
	}
	resp.OK(c, users)
}
