package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/teller-posting-engine/internal/adapter/http/controller"
	"github.com/api-sage/teller-posting-engine/internal/adapter/http/middleware"
	"github.com/api-sage/teller-posting-engine/internal/adapter/http/router"
	"github.com/api-sage/teller-posting-engine/internal/adapter/repository/postgres"
	"github.com/api-sage/teller-posting-engine/internal/config"
	"github.com/api-sage/teller-posting-engine/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(startupCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(startupCtx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	postingRepo := postgres.NewPostingRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	sessionRepo := postgres.NewTellerSessionRepository(db)

	postingService := services.NewPostingService(postingRepo)
	reversalService := services.NewReversalService(postingRepo)
	recipeService := services.NewRecipeService(cfg.TransferFeeReference, cfg.CheckCashingFeeReference, cfg.DraftFeeReference)
	workflowService := services.NewWorkflowService()
	varianceService := services.NewVarianceService(postingService, cfg.CashShortExpenseReference, cfg.CashOverIncomeReference)

	postingController := controller.NewPostingController(postingService, reversalService, recipeService, workflowService, sessionRepo)
	varianceController := controller.NewVarianceController(varianceService, sessionRepo)
	accountController := controller.NewAccountController(accountRepo)

	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey)
	mux := router.New(postingController, varianceController, accountController, authMiddleware)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
