package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"strings"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"skyviewsurveys/config"
	"skyviewsurveys/internal/adapters/auth"
	"skyviewsurveys/internal/domain"
	"skyviewsurveys/internal/repository/postgres"
)

// Seeds a back-office operator account. Intended for initial setup and local
// development; run it once per operator.
func main() {
	email := flag.String("email", "", "operator email (required)")
	password := flag.String("password", "", "operator password (required)")
	name := flag.String("name", "", "operator display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	salt, err := hasher.GenerateSalt()
	if err != nil {
		log.Fatalf("failed to generate salt: %v", err)
	}
	hash, err := hasher.Hash(salt, *password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	op := &domain.Operator{
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		Name:         *name,
		PasswordHash: hash,
		Salt:         salt,
	}
	repo := postgres.NewOperatorRepository(db)
	if err := repo.Create(context.Background(), op); err != nil {
		if err == domain.ErrInvalidInput {
			log.Fatalf("operator %s already exists", op.Email)
		}
		log.Fatalf("failed to create operator: %v", err)
	}

	log.Printf("operator %s created with id %s", op.Email, op.ID)
}
