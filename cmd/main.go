package main

import (
	"database/sql"
	"log"

	"ritten-bot/config"
	"ritten-bot/internal/app/service"
	"ritten-bot/internal/delivery/telegram"
	"ritten-bot/internal/delivery/telegram/router"
	"ritten-bot/internal/repository/sqlite"
	"ritten-bot/pkg/calendar"
	"ritten-bot/pkg/workerpool"

	"gopkg.in/telebot.v3"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	log.Println("Starting ritten-bot...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool := workerpool.NewWorkerPool(4, 32)
	defer pool.Close()

	rideRepo := sqlite.NewSqliteRideRepo(db)
	rateRepo := sqlite.NewSqliteRateRepo(db)
	rideService := &service.RideServiceImpl{Rides: rideRepo, Rates: rateRepo}
	rateService := service.NewRateService(rateRepo)

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatalf("start bot: %v", err)
	}

	handler := &telegram.Handler{
		Bot:      bot,
		Rides:    rideService,
		RateSvc:  rateService,
		Async:    service.NewAsyncService(pool),
		Calendar: &calendar.CalendarController{Bot: bot},
		Router:   router.New(),
	}
	handler.Register()

	log.Println("Bot is running!")
	bot.Start()
}
