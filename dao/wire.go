//go:build wireinject

package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewBook,
	NewStockpile,
	NewCart,
	NewOrder,
	NewPayment,
)
