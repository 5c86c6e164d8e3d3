package service

import "errors"

// 核心操作的错误分类，handler 层负责翻译成响应码
var (
	ErrOrderNotFound          = errors.New("订单不存在")
	ErrBookNotFound           = errors.New("图书不存在或已下架")
	ErrCartItemNotFound       = errors.New("购物车条目不存在")
	ErrOwnershipViolation     = errors.New("无权操作他人数据")
	ErrInvalidStateTransition = errors.New("当前状态不允许该操作")
	ErrAmountMismatch         = errors.New("回调金额与订单金额不一致")
)
