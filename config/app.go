package config

type App struct {
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
	// AdminToken 管理接口（兑换规则维护、人工补发）使用的口令
	AdminToken string `json:"admin_token" yaml:"admin_token"`
}

type Jwt struct {
	Secret string `json:"secret" yaml:"secret"`
}
