// Command admintoken mints an access token for the back office API.  By
// default it looks the user up first and refuses inactive accounts or
// accounts without the requested role.
//
//	go run ./cmd/admintoken -user-id 1
//	go run ./cmd/admintoken -user-id 1 -skip-check -ttl 15m
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theatre-backoffice/internal/config"
	"github.com/iliyamo/theatre-backoffice/internal/database"
	"github.com/iliyamo/theatre-backoffice/internal/model"
	"github.com/iliyamo/theatre-backoffice/internal/repository"
	"github.com/iliyamo/theatre-backoffice/internal/utils"
)

func main() {
	_ = godotenv.Load()

	userID := flag.Uint64("user-id", 0, "user id to put in the sub claim")
	role := flag.String("role", model.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", 0, "token lifetime (default ACCESS_TOKEN_TTL_MIN)")
	skipCheck := flag.Bool("skip-check", false, "do not verify the user in the database")
	flag.Parse()

	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel, "text")
	log.SetOutput(os.Stderr) // stdout carries only the token

	if *userID == 0 {
		fmt.Fprintln(os.Stderr, "-user-id is required")
		flag.Usage()
		os.Exit(2)
	}
	if *ttl <= 0 {
		*ttl = time.Duration(cfg.AccessTTLMin) * time.Minute
	}

	if !*skipCheck {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.WithError(err).Fatal("database connection failed")
		}
		u, err := repository.NewUserRepo(db).GetByID(context.Background(), *userID)
		_ = db.Close()
		if err != nil {
			log.WithError(err).WithField("user_id", *userID).Fatal("user lookup failed")
		}
		if !u.IsActive || u.Role != *role {
			log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role, "active": u.IsActive}).
				Fatalf("user cannot hold role %s", *role)
		}
	}

	tok, err := utils.NewAccessToken(cfg.JWTSecret, *userID, *role, *ttl)
	if err != nil {
		log.WithError(err).Fatal("sign token")
	}
	log.WithField("expires_at", tok.Exp.Format(time.RFC3339)).Info("token issued")
	fmt.Println(tok.Token)
}
