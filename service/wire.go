package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewNotifier,

	wire.Struct(new(CatalogService), "*"),
	wire.Bind(new(ICatalogService), new(*CatalogService)),

	wire.Struct(new(BalanceService), "*"),
	wire.Bind(new(IBalanceService), new(*BalanceService)),

	wire.Struct(new(UsageService), "*"),
	wire.Bind(new(IUsageService), new(*UsageService)),

	NewCheckinService,
	wire.Bind(new(ICheckinService), new(*CheckinService)),

	wire.Struct(new(ExchangeService), "*"),
	wire.Bind(new(IExchangeService), new(*ExchangeService)),
)
