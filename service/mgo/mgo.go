package mgo

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	mgo "RTChat/data/database/mgo/mongoutil"
	"RTChat/tools/errs"
)

// 进程级 Mongo 句柄。模型层通过 GetDB() 取集合，避免层层传递 *mongo.Database。

var (
	mu     sync.RWMutex
	client *mgo.Client
)

// Start 建立连接（内部带重试），成功前不要调用 GetDB。
func Start(ctx context.Context, cfg *mgo.Config) error {
	cli, err := mgo.NewMongoDB(ctx, cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	client = cli
	mu.Unlock()
	return nil
}

func Stop(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	if client == nil {
		return nil
	}
	err := client.Close(ctx)
	client = nil
	return err
}

// GetDB panic 于未初始化：这是编程错误而非运行时错误。
func GetDB() *mongo.Database {
	mu.RLock()
	defer mu.RUnlock()
	if client == nil {
		panic(errs.New("mongo manager not started"))
	}
	return client.GetDB()
}

// Ready 报告连接是否已建立（测试用）。
func Ready() bool {
	mu.RLock()
	defer mu.RUnlock()
	return client != nil
}
