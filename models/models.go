package models

// All 需要自动建表的模型，按依赖顺序排列
func All() []any {
	return []any{
		&Item{},
		&UserItem{},
		&UsageHistory{},
		&Activity{},
		&UserActivityRecord{},
		&ExchangeRule{},
		&ExchangeRecord{},
	}
}
