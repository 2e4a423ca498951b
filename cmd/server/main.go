package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"github.com/mkravets/web_store/internal/config"
	"github.com/mkravets/web_store/internal/es"
	"github.com/mkravets/web_store/internal/handlers"
	"github.com/mkravets/web_store/internal/logging"
	loggingmw "github.com/mkravets/web_store/internal/middleware/logging"
	"github.com/mkravets/web_store/internal/models"
	"github.com/mkravets/web_store/internal/mykafka"
	"github.com/mkravets/web_store/internal/repo"
	"github.com/mkravets/web_store/internal/token"
	httpserver "github.com/mkravets/web_store/internal/transport/http"
)

const searchIndex = "items"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}

	users := &repo.UserRepo{DB: db}
	items := &repo.ItemRepo{DB: db}
	carts := &repo.CartRepo{DB: db}
	orders := &repo.OrderRepo{DB: db}

	seed := []models.Item{
		{Name: "Round Widget", Description: "A widget that is round", Price: decimal.RequireFromString("2.99")},
		{Name: "Square Widget", Description: "A widget that is square", Price: decimal.RequireFromString("1.99")},
	}
	if err := items.Seed(context.Background(), seed); err != nil {
		logger.Error("catalog seed failed", "error", err)
		os.Exit(1)
	}

	producer := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	defer producer.Close()

	tokens := token.NewService(token.Config{
		Secret: []byte(configuration.JWT_SECRET),
		TTL:    configuration.TOKEN_TTL,
	})

	var deps httpserver.Deps
	deps.Tokens = tokens
	deps.AuthHandler = &handlers.AuthHandler{Users: users, Tokens: tokens, Producer: producer}
	deps.UserHandler = &handlers.UserHandler{Users: users}
	deps.CartHandler = &handlers.CartHandler{Users: users, Items: items, Carts: carts, Producer: producer}
	deps.OrderHandler = &handlers.OrderHandler{Users: users, Carts: carts, Orders: orders, Producer: producer}

	itemHandler := &handlers.ItemHandler{Items: items, Producer: producer, Index: searchIndex}
	searchHandler := &handlers.SearchHandler{Index: searchIndex}
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			logger.Error("elasticsearch init failed", "error", err)
			os.Exit(1)
		}
		itemHandler.ES = esClient
		searchHandler.ES = esClient
	} else {
		logger.Warn("ES_URL is not set, item search is disabled")
	}
	deps.ItemHandler = itemHandler
	deps.SearchHandler = searchHandler

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(loggingmw.RequestLogger(logger))
	httpserver.Register(e, &deps)

	go func() {
		if err := e.Start(configuration.HTTP_ADDRESS); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
