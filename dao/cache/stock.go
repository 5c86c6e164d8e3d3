package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"BookHive/pkg/log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	stockKeyPrefix = "bookhive:stock:available:"
	stockTTL       = 30 * time.Second
)

func StockKey(bookID int64) string {
	return fmt.Sprintf("%s%d", stockKeyPrefix, bookID)
}

// GetStock 读可售库存缓存，未命中或Redis不可用都走数据库
func GetStock(ctx context.Context, rdb *redis.Client, bookID int64) (int64, bool) {
	if rdb == nil {
		return 0, false
	}
	val, err := rdb.Get(ctx, StockKey(bookID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func SetStock(ctx context.Context, rdb *redis.Client, bookID, available int64) {
	if rdb == nil {
		return
	}
	if err := rdb.Set(ctx, StockKey(bookID), available, stockTTL).Err(); err != nil {
		log.L.Warn("set stock cache failed", zap.Int64("book_id", bookID), zap.Error(err))
	}
}

// DelStock 台账每次变动后失效对应缓存
func DelStock(ctx context.Context, rdb *redis.Client, bookIDs ...int64) {
	if rdb == nil || len(bookIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(bookIDs))
	for _, id := range bookIDs {
		keys = append(keys, StockKey(id))
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.L.Warn("del stock cache failed", zap.Error(err))
	}
}
