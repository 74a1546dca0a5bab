package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/budgetglass/budgetglass/internal/api"
	"github.com/budgetglass/budgetglass/internal/categorize"
	"github.com/budgetglass/budgetglass/internal/config"
	"github.com/budgetglass/budgetglass/internal/ledger"
	"github.com/budgetglass/budgetglass/internal/logger"
	"github.com/budgetglass/budgetglass/internal/parser"
	"github.com/budgetglass/budgetglass/internal/pipeline"
	"github.com/budgetglass/budgetglass/internal/store"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	logger.Init()
	log := logger.Default()
	cfg := config.Load()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("open database", "path", cfg.DBPath, "error", err)
		panic(err)
	}
	defer db.Close()

	rules, err := categorize.LoadRules(cfg.RulesPath)
	if err != nil {
		log.Error("load category rules", "path", cfg.RulesPath, "error", err)
		panic(err)
	}

	engine := categorize.NewEngine(store.NewLearned(db, log), rules)
	led := ledger.New(engine, db, log)
	if err := led.Load(); err != nil {
		log.Error("load transactions", "error", err)
		panic(err)
	}

	h := &api.Handler{
		Ledger:   led,
		Engine:   engine,
		Pipeline: pipeline.New(parser.New(), engine),
		Log:      log,
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // statement PDFs run large
	})
	app.Use(recover.New())
	app.Use(cors.New())
	h.Register(app)

	log.Info("starting server", "addr", cfg.ServerPort, "transactions", led.Count())
	if err := app.Listen(cfg.ServerPort); err != nil {
		log.Error("server stopped", "error", err)
		panic(err)
	}
}
