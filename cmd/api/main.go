package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/meadow/newsletter-api/internal/config"
	"github.com/meadow/newsletter-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/meadow/newsletter-api/internal/infrastructure/jwt"
	s3infra "github.com/meadow/newsletter-api/internal/infrastructure/s3"
	"github.com/meadow/newsletter-api/internal/infrastructure/ses"
	"github.com/meadow/newsletter-api/internal/infrastructure/sns"
	ssminfra "github.com/meadow/newsletter-api/internal/infrastructure/ssm"
	transporthttp "github.com/meadow/newsletter-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Overlay settings from the SSM parameter, if one is configured.
	if cfg.SSMParameterName != "" {
		ssmClient, err := ssminfra.NewClient(cfg)
		if err != nil {
			log.Fatalf("ssm client: %v", err)
		}
		params, err := ssminfra.LoadParameters(context.Background(), ssmClient, cfg.SSMParameterName)
		if err != nil {
			log.Fatalf("load parameters from %s: %v", cfg.SSMParameterName, err)
		}
		cfg.ApplyParameters(params)
	}

	// Bootstrap the DynamoDB table (creates it if it doesn't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.TableName)

	// JWT provider (optional — admin endpoints are disabled without it).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// Template barn.
	s3Client := s3infra.NewClient(cfg)
	templates := s3infra.NewTemplateStore(s3Client, cfg.BarnBucket)

	mailer, err := ses.NewMailer(cfg)
	if err != nil {
		log.Fatalf("ses mailer: %v", err)
	}

	// Dispatch-report notifier (optional — graceful fallback).
	var reports sns.ReportNotifier
	if cfg.DispatchTopicARN != "" {
		if notifier, err := sns.NewNotifier(cfg); err == nil {
			reports = notifier
		} else {
			log.Printf("WARN: SNS notifier not available: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		Subscriptions: dynamo.NewSubscriptionRepo(dynamoClient, cfg.TableName),
		SendEvents:    dynamo.NewSendEventRepo(dynamoClient, cfg.TableName),
		Templates:     templates,
		Mailer:        mailer,
		JWTProvider:   jwtProvider,
	}
	if reports != nil {
		deps.Reports = reports
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
