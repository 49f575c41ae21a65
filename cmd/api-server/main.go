package main

import (
	"Lotus/config"
	"Lotus/pkg/database"
	"Lotus/pkg/log"
	"Lotus/pkg/server"
	"Lotus/pkg/snowflake"
	"Lotus/service"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder 初始化基础数据需要的依赖
type Seeder struct {
	DB             *gorm.DB
	CheckinService *service.CheckinService
}

func loadConfig() *config.Config {
	// 本地开发可以用 .env 覆盖环境变量，文件不存在时忽略
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)
	return config.New(path)
}

func main() {
	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "Lotus 签到与兑换服务",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "node",
				Usage:   "snowflake node id",
				Value:   1,
				EnvVars: []string{"LOTUS_NODE_ID"},
			},
		},
		Before: func(ctx *cli.Context) error {
			return snowflake.SetNode(ctx.Int64("node"))
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "migrate", Usage: "auto migrate tables before serving"},
				},
				Action: func(ctx *cli.Context) error {
					cfg := loadConfig()
					if ctx.Bool("migrate") {
						if err := migrate(cfg); err != nil {
							return err
						}
					}
					app, cleanup, err := InitServer(cfg)
					if err != nil {
						return err
					}
					defer cleanup()
					return server.Run(ctx, app)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update tables",
				Action: func(ctx *cli.Context) error {
					return migrate(loadConfig())
				},
			},
			{
				Name:  "seed",
				Usage: "create the default reward item and checkin activity",
				Action: func(ctx *cli.Context) error {
					seeder, cleanup, err := InitSeeder(loadConfig())
					if err != nil {
						return err
					}
					defer cleanup()

					if err := database.Migrate(seeder.DB); err != nil {
						return err
					}
					act, err := seeder.CheckinService.EnsureActivity(ctx.Context)
					if err != nil {
						return err
					}
					log.L.Info("seed done", zap.Uint64("activity_id", act.ID), zap.String("activity", act.Name))
					return nil
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("api-server exited", zap.Error(err))
	}
}

func migrate(cfg *config.Config) error {
	db, err := database.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	log.L.Info("migrate done")
	return nil
}
