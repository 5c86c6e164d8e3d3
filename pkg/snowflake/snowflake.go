package snowflake

import "github.com/bwmarrin/snowflake"

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

// GenOrderID 订单主键
func GenOrderID() int64 {
	return node.Generate().Int64()
}

// GenPaymentID 支付流水主键
func GenPaymentID() int64 {
	return node.Generate().Int64()
}

func GenID() int64 {
	return node.Generate().Int64()
}
