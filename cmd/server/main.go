package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/skillswap/skill-exchange/internal/config"
	"github.com/skillswap/skill-exchange/internal/database"
	"github.com/skillswap/skill-exchange/internal/handler"
	"github.com/skillswap/skill-exchange/internal/middleware"
	"github.com/skillswap/skill-exchange/internal/queue"
	"github.com/skillswap/skill-exchange/internal/repository"
	"github.com/skillswap/skill-exchange/internal/router"
	queue_publisher "github.com/skillswap/skill-exchange/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables the response cache and
	// makes the rate limiter fail open.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	skills := repository.NewSkillRepo(db)
	saved := repository.NewSavedSkillRepo(db)
	trades := repository.NewTradeRepo(db)

	invalidator := middleware.NewCacheInvalidator(cacheCfg, rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(skills, users)
	skillH := handler.NewSkillHandler(skills, invalidator)
	savedH := handler.NewSavedHandler(saved)
	tradeH := handler.NewTradeHandler(trades, skills, users, queue_publisher.PublishTradeEvent)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH,
		middleware.NewTokenBucket(rateCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)
	router.RegisterMember(e, skillH, savedH, tradeH, cfg.JWTSecret)

	// Background consumer mirrors trade events into logs/trades.log. It
	// maintains its own reconnect loop, so a missing broker only costs
	// log lines, never requests.
	go func() {
		if err := queue.StartTradeConsumer(); err != nil {
			log.Printf("trade-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
