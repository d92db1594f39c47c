package bootstrap

import (
	"github.com/zhengye7/fitarena/internal/eventbus"
	"github.com/zhengye7/fitarena/internal/pkg/config"
	"github.com/zhengye7/fitarena/internal/repository"
	"github.com/zhengye7/fitarena/internal/service"
)

// Core 持有跨命令共享的核心依赖
type Core struct {
	Cfg *config.Config
	DB  *repository.Database
	Hub *eventbus.Hub

	Repos struct {
		Challenge   *repository.ChallengeRepository
		ActivityLog *repository.ActivityLogRepository
		Score       *repository.ScoreRepository
	}

	Services struct {
		Scoring *service.ScoringService
	}
}

// NewCore 构建核心依赖（配置 + 数据库 + 仓储 + 服务）
func NewCore(cfgPath string) (*Core, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg.App.LogLevel)

	db, err := repository.NewDatabase(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	c := &Core{Cfg: cfg, DB: db, Hub: eventbus.NewHub()}

	// Repos
	c.Repos.Challenge = repository.NewChallengeRepository(db.DB)
	c.Repos.ActivityLog = repository.NewActivityLogRepository(db.DB)
	c.Repos.Score = repository.NewScoreRepository(db.DB)

	// Services
	c.Services.Scoring = service.NewScoringService(db.DB, c.Hub)

	return c, nil
}

// Close 关闭核心依赖资源
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
