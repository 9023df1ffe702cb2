package main

import (
	"fmt"
	"os"
	"time"

	"github.com/remservice/motor-backoffice/internal/auth"
	"github.com/remservice/motor-backoffice/internal/config"
	"github.com/remservice/motor-backoffice/internal/db"
	httphandler "github.com/remservice/motor-backoffice/internal/http"
	"github.com/remservice/motor-backoffice/internal/http/middleware"
	"github.com/remservice/motor-backoffice/internal/logger"
	"github.com/remservice/motor-backoffice/internal/pdf"
	"github.com/remservice/motor-backoffice/internal/repository"
	"github.com/remservice/motor-backoffice/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	userRepo := repository.NewUserRepository(database)
	receptionRepo := repository.NewReceptionRepository(database)
	updRepo := repository.NewUPDRepository(database)
	counterpartyRepo := repository.NewCounterpartyRepository(database)
	motorRepo := repository.NewMotorRepository(database)
	referenceRepo := repository.NewReferenceRepository(database)
	templateRepo := repository.NewTemplateRepository(database)
	reportRepo := repository.NewReportRepository(database)

	pdfGenerator, err := pdf.NewGenerator(cfg.App.PDFFontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}

	tokenIssuer := auth.NewIssuer(cfg.Auth.AccessSecret, time.Duration(cfg.Auth.AccessTTLHours)*time.Hour)
	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	authService := service.NewAuthService(userRepo, tokenIssuer)
	receptionService := service.NewReceptionService(receptionRepo, updRepo, cfg.App.BaseURL, log)
	updService := service.NewUPDService(updRepo, pdfGenerator, cfg.App.BaseURL)
	lookupService := service.NewLookupService(counterpartyRepo, motorRepo, referenceRepo)
	templateService := service.NewTemplateService(templateRepo)
	reportService := service.NewReportService(reportRepo)

	handler := httphandler.NewHandler(authService, receptionService, updService, lookupService, templateService, reportService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting backoffice service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
