package handler

import (
	"errors"

	"BookHive/dao"
	"BookHive/pkg/response"
	"BookHive/service"
)

// 业务错误码表，核心层的错误只在这里翻译一次
const (
	codeBookNotFound       = 20001
	codeStockpileNotFound  = 30001
	codeInsufficientStock  = 30002
	codeAmountBelowFrozen  = 30003
	codeOrderNotFound      = 40001
	codeInvalidTransition  = 40002
	codeOwnershipViolation = 40003
	codeAmountMismatch     = 40004
	codeCartItemNotFound   = 50001
)

func asBizError(err error) error {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		return response.NewError(codeBookNotFound, err.Error())
	case errors.Is(err, dao.ErrStockpileNotFound):
		return response.NewError(codeStockpileNotFound, err.Error())
	case errors.Is(err, dao.ErrInsufficientStock):
		return response.NewError(codeInsufficientStock, err.Error())
	case errors.Is(err, dao.ErrAmountBelowFrozen):
		return response.NewError(codeAmountBelowFrozen, err.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		return response.NewError(codeOrderNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidStateTransition):
		return response.NewError(codeInvalidTransition, err.Error())
	case errors.Is(err, service.ErrOwnershipViolation):
		return response.NewError(codeOwnershipViolation, err.Error())
	case errors.Is(err, service.ErrAmountMismatch):
		return response.NewError(codeAmountMismatch, err.Error())
	case errors.Is(err, service.ErrCartItemNotFound):
		return response.NewError(codeCartItemNotFound, err.Error())
	default:
		return response.NewError(500, err.Error())
	}
}
