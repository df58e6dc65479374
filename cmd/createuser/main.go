package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"socialplay/internal/config"
	"socialplay/internal/database"
	"socialplay/internal/repository"
	"socialplay/internal/service"
)

func main() {
	username := flag.String("username", "", "username of the new account")
	email := flag.String("email", "", "email of the new account")
	password := flag.String("password", "", "password (read from stdin when omitted)")
	flag.Parse()

	if *username == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *password == "" {
		p, err := readPassword()
		if err != nil {
			log.Fatalf("Failed to read password: %v", err)
		}
		*password = p
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Account creation needs no media storage.
	users := service.NewUserService(repository.NewUserRepository(db), repository.NewScoreRepository(db), nil)

	user, err := users.CreateDirect(ctx, *username, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	fmt.Printf("Created user %s (id %d)\n", user.Username, user.ID)
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is empty")
	}
	return line, nil
}
