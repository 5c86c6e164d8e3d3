package utils

import (
	"fmt"
	"time"

	"BookHive/pkg/snowflake"
)

// GenerateOrderSn 业务订单号：时间前缀方便对账，雪花ID保证唯一
func GenerateOrderSn(userID int64) string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("BH%s%03d%d", now, userID%1000, snowflake.GenID())
}

func GenerateOutTradeNo(prefix string, orderID int64) string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%d", prefix, now, orderID)
}
