package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	mongoutil "RTChat/data/database/mgo/mongoutil"
	"RTChat/global"
	"RTChat/logger"
	mid "RTChat/middleware"
	midsec "RTChat/middleware/security"
	"RTChat/module/chat"
	"RTChat/module/chat/event"
	chatmodel "RTChat/module/chat/model"
	chatsvc "RTChat/module/chat/service"
	"RTChat/module/chat/store"
	"RTChat/module/user"
	"RTChat/service/gateway"
	"RTChat/service/mgo"
	"RTChat/service/natsx"
	"RTChat/service/storage"
	"RTChat/tools/ids"
)

func main() {
	global.Load()
	ids.SetNodeID(global.Global.NodeID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- Mongo：硬依赖，起不来直接退 ----
	if err := mgo.Start(ctx, &mongoutil.Config{
		Uri:      global.Global.MongoURI,
		Database: global.Global.MongoDatabase,
	}); err != nil {
		logger.Errorf("mongo start failed: %v", err)
		os.Exit(1)
	}
	defer mgo.Stop(context.Background()) //nolint:errcheck // 关停路径

	if err := chatmodel.EnsureIndexes(ctx); err != nil {
		logger.Errorf("ensure indexes failed: %v", err)
		os.Exit(1)
	}

	// ---- Redis：presence 是辅助信号，起不来降级运行 ----
	if err := storage.InitRedis(storage.Config{
		Addr:     global.Global.RedisAddr,
		Password: global.Global.RedisPassword,
		DB:       global.Global.RedisDB,
	}); err != nil {
		logger.Warnf("redis unavailable, presence disabled: %v", err)
	}
	defer storage.CloseRedis() //nolint:errcheck // 关停路径

	// ---- NATS：事件发布尽力而为，连不上时不发事件、网关不可用 ----
	var pub event.Publisher
	nc, err := natsx.Connect(natsx.Config{
		URL:  global.Global.NatsURL,
		Name: global.Global.NatsName,
	})
	if err != nil {
		logger.Warnf("nats unavailable, events disabled: %v", err)
	} else {
		pub = nc
		defer nc.Close()
	}

	st := store.NewStore()
	svc := chatsvc.New(st, pub, chatsvc.WithTypingWindow(global.Global.TypingWindow))
	chatHandler := chat.NewHandler(svc)

	// 过期输入指示的后台清理（读路径本身已按 expires_at 过滤，
	// 这里只是防止集合无限膨胀）
	go sweepTypingLoop(ctx, st)

	r := gin.New()
	r.Use(gin.Recovery(), mid.RequestID())
	mid.ConfigAuth(midsec.DefaultOptions(global.GetJwtSecret()))
	registerRoutes(r, chatHandler)

	if nc != nil {
		gw := gateway.NewServer(gateway.NewConnManager(gateway.ManagerConf{}), nc, st)
		defer gw.ConnMgr().Close()
		mid.GET(r, "/ws", gw.HandleWS, mid.RouteOpt{IsAuth: true})
	}

	srv := &http.Server{Addr: global.Global.HTTPAddr, Handler: r}
	go func() {
		logger.Infof("[HTTP] listening on %s", global.Global.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("http server failed: %v", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	logger.Infof("bye")
}

func registerRoutes(r *gin.Engine, h *chat.Handler) {
	api := r.Group("/api")
	auth := mid.RouteOpt{IsAuth: true}

	// 开发用令牌签发，唯一的免鉴权入口
	mid.POST(api, "/auth/token", user.HandlerToken, mid.RouteOpt{IsAuth: false})

	mid.POST(api, "/users/upsert", user.HandlerUpsert, auth)
	mid.GET(api, "/users/me", user.HandlerMe, auth)
	mid.GET(api, "/users/search", user.HandlerSearch, auth)

	mid.POST(api, "/conversations/direct", h.HandlerCreateDirect, auth)
	mid.POST(api, "/conversations/group", h.HandlerCreateGroup, auth)
	mid.GET(api, "/conversations", h.HandlerListConversations, auth)
	mid.GET(api, "/conversations/:id", h.HandlerGetConversation, auth)

	mid.POST(api, "/conversations/:id/messages", h.HandlerSendMessage, auth)
	mid.GET(api, "/conversations/:id/messages", h.HandlerListMessages, auth)
	mid.POST(api, "/messages/:id/delete", h.HandlerDeleteMessage, auth)

	mid.POST(api, "/messages/:id/reactions", h.HandlerToggleReaction, auth)
	mid.GET(api, "/messages/:id/reactions", h.HandlerListReactions, auth)

	mid.POST(api, "/conversations/:id/read", h.HandlerMarkRead, auth)
	mid.GET(api, "/conversations/:id/unread/count", h.HandlerUnreadCount, auth)
	mid.GET(api, "/conversations/:id/unread/messages", h.HandlerUnreadMessages, auth)

	mid.POST(api, "/conversations/:id/typing", h.HandlerSetTyping, auth)
	mid.GET(api, "/conversations/:id/typing", h.HandlerListTyping, auth)

	mid.POST(api, "/presence", h.HandlerSetPresence, auth)
	mid.GET(api, "/presence/online", h.HandlerListOnline, auth)
	mid.GET(api, "/presence/users/:user_id", h.HandlerGetPresence, auth)
}

func sweepTypingLoop(ctx context.Context, st *store.Store) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := st.SweepExpiredTyping(ctx, time.Now().UnixMilli())
			if err != nil {
				logger.Warnf("sweep typing: %v", err)
				continue
			}
			if n > 0 {
				logger.Infof("swept %d expired typing indicators", n)
			}
		}
	}
}
