//go:build wireinject

package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(BookService), "*"),
	wire.Bind(new(IBookService), new(*BookService)),

	wire.Struct(new(StockpileService), "*"),
	wire.Bind(new(IStockpileService), new(*StockpileService)),

	wire.Struct(new(CartService), "*"),
	wire.Bind(new(ICartService), new(*CartService)),

	wire.Struct(new(OrderService), "*"),
	wire.Bind(new(IOrderService), new(*OrderService)),

	wire.Struct(new(PayService), "*"),
	wire.Bind(new(IPayService), new(*PayService)),

	wire.Struct(new(ExpireSweeper), "*"),
)
