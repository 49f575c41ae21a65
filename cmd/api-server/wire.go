//go:build wireinject
// +build wireinject

package main

import (
	"Lotus/config"
	"Lotus/dao"
	"Lotus/dao/cache"
	"Lotus/handler"
	"Lotus/pkg/client"
	"Lotus/pkg/database"
	"Lotus/pkg/rocketmq"
	"Lotus/pkg/server"
	"Lotus/service"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	database.NewDB,
	database.NewManager,
	client.NewRedisClient,
	config.ProvideRocketMQConfig,
	rocketmq.NewProducer,
	cache.ProviderSet,
	dao.ProviderSet,
	service.ProviderSet,
)

func InitServer(cfg *config.Config) (*server.AppProvider, func(), error) {
	wire.Build(
		infraSet,
		server.NewGinEngine,
		wire.Struct(new(handler.Backpack), "*"),
		wire.Struct(new(handler.Checkin), "*"),
		wire.Struct(new(handler.Exchange), "*"),
		wire.Struct(new(handler.Item), "*"),
		wire.Struct(new(handler.Admin), "*"),
		wire.Struct(new(server.Handlers), "*"),
		wire.Struct(new(server.AppProvider), "*"),
	)
	return nil, nil, nil
}

func InitSeeder(cfg *config.Config) (*Seeder, func(), error) {
	wire.Build(
		infraSet,
		wire.Struct(new(Seeder), "*"),
	)
	return nil, nil, nil
}
