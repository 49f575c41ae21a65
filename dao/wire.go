package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewItem,
	NewUserItem,
	NewUsageHistory,
	NewActivity,
	NewActivityRecord,
	NewExchangeRule,
	NewExchangeRecord,
)
