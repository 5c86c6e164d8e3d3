//go:build wireinject
// +build wireinject

package main

import (
	"BookHive/config"
	"BookHive/dao"
	"BookHive/handler"
	"BookHive/pkg/client"
	"BookHive/pkg/database"
	"BookHive/pkg/mq"
	"BookHive/pkg/payment"
	"BookHive/pkg/server"
	"BookHive/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		config.ProvideRocketMQConfig,
		config.ProvideOrderConfig,
		config.ProvideWechatPayConfig,
		mq.NewProducer,
		payment.NewWechatGateway,
		wire.Bind(new(service.PaymentGateway), new(*payment.WechatGateway)),

		dao.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Book), "*"),
		wire.Struct(new(handler.Cart), "*"),
		wire.Struct(new(handler.Order), "*"),
		wire.Struct(new(handler.Pay), "*"),

		server.NewGinEngine,
		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil
}
