package main

import (
	"context"
	"log"
	"os"

	"github.com/lafayette-apps/sticky-atc/internal/pkg/billing"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/database"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/env"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/mail"
	"github.com/lafayette-apps/sticky-atc/internal/pkg/sweep"
)

func main() {
	env.SetupEnvFile()
	database.SetupDatabase()

	toEmail := env.GetEnv("SWEEP_TO_EMAIL", "")

	var mailer mail.Mailer
	if toEmail != "" {
		var err error
		mailer, err = mail.NewPostmarkMailerFromEnv()
		if err != nil {
			log.Printf("expiry sweep aborted: %v", err)
			os.Exit(1)
		}
	}

	s := &sweep.Sweeper{
		Billing: billing.NewServiceFromDB(database.GetDB()),
		Mailer:  mailer,
		ToEmail: toEmail,
	}

	if err := s.Run(context.Background()); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
