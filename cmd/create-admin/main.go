package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/config"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/i18n"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/logging"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/messaging"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/persistence/gormstore"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/security"
	"github.com/rafabene/dermacheck-backend/internal/services"
)

func main() {
	username := flag.String("username", "admin", "username do administrador")
	email := flag.String("email", "", "email do administrador")
	password := flag.String("password", "", "senha do administrador")
	fullName := flag.String("full-name", "Administrator", "nome completo")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.Logging.Driver, cfg.Logging.Level)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	db, err := gormstore.NewDatabaseConnection(&cfg.Database, cfg.IsProduction(), logger)
	if err != nil {
		log.Fatal(err)
	}
	if err := gormstore.Migrate(db); err != nil {
		log.Fatal(err)
	}

	sessions, err := security.NewJWTSessionManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.RememberTTL)
	if err != nil {
		log.Fatal(err)
	}

	authService := services.NewAuthService(
		gormstore.NewUserRepository(db),
		security.NewBcryptHasher(cfg.Session.BcryptCost),
		sessions,
		messaging.NoopPublisher{},
		logger,
	)

	user, err := authService.CreateAdmin(context.Background(), services.CreateAdminInput{
		Username: *username,
		Email:    *email,
		Password: *password,
		FullName: *fullName,
	})
	if err != nil {
		var validationErr *domainerrors.ValidationError
		if errors.As(err, &validationErr) {
			translations, _ := i18n.NewEmbeddedService("en")
			for _, fieldErr := range validationErr.Fields {
				message := fieldErr.Code
				if translations != nil {
					message = translations.T("en", fieldErr.Code)
				}
				fmt.Fprintf(os.Stderr, "%s: %s\n", fieldErr.Field, message)
			}
			os.Exit(1)
		}
		if errors.Is(err, domainerrors.ErrAdminAlreadyExists) {
			fmt.Fprintln(os.Stderr, "an admin user already exists; use the admin panel to add more")
			os.Exit(1)
		}
		log.Fatal(err)
	}

	fmt.Printf("admin %q created (id %s)\n", user.Username, user.ID)
}
