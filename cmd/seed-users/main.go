package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/training/practice/internal/apperror"
	"github.com/training/practice/internal/cache"
	"github.com/training/practice/internal/config"
	"github.com/training/practice/internal/database"
	"github.com/training/practice/internal/logger"
	"github.com/training/practice/internal/model"
	"github.com/training/practice/internal/pagination"
	"github.com/training/practice/internal/repository"
	"github.com/training/practice/internal/service"
	"github.com/training/practice/internal/validator"
)

var departments = []string{"Engineering", "Finance", "Marketing", "Operations", "Research"}

var subjectsByDepartment = map[string][]model.CreateSubjectRequest{
	"Engineering": {{Name: "Distributed Systems", Code: "DST"}, {Name: "Databases", Code: "DBS"}},
	"Finance":     {{Name: "Accounting", Code: "ACC"}},
	"Marketing":   {{Name: "Market Research", Code: "MKR"}},
	"Operations":  {{Name: "Logistics", Code: "LOG"}, {Name: "Quality Control", Code: "QCT"}},
	"Research":    {{Name: "Statistics", Code: "STA"}},
}

var firstNames = []string{
	"Ada", "Bruno", "Chen", "Dara", "Elif", "Farid", "Greta", "Hiro", "Ines", "Jonas",
}

var lastNames = []string{"Kowalski", "Lindqvist", "Moreau", "Nakamura", "Okafor"}

func main() {
	count := flag.Int("count", 50, "number of users to create")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	policy := pagination.Policy{
		DefaultSize: cfg.Pagination.DefaultPageSize,
		MaxSize:     cfg.Pagination.MaxPageSize,
	}
	userService := service.NewUserService(
		repository.NewUserRepository(pool),
		repository.NewTxManager(pool),
		cache.NoopUserCache{},
		policy,
		log,
	)

	fmt.Printf("=== Seeding %d Users ===\n", *count)

	created, skipped := 0, 0
	for i := 0; i < *count; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames))%len(lastNames)]
		dept := departments[i%len(departments)]

		req := &model.CreateUserRequest{
			Name:       first + " " + last,
			Email:      fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
			Department: &dept,
		}
		if i%7 == 0 {
			status := model.UserStatusPending
			req.Status = &status
		}

		user, err := userService.Create(ctx, req)
		if apperror.Is(err, apperror.KindConflict) {
			skipped++
			continue
		}
		if err != nil {
			fmt.Printf("Error creating user %s (%s): %v\n", req.Name, req.Email, err)
			continue
		}

		for _, subject := range subjectsByDepartment[dept] {
			s := subject
			if _, err := userService.AddSubject(ctx, user.ID, &s); err != nil {
				fmt.Printf("Error adding subject %s to %s: %v\n", s.Code, user.ID, err)
			}
		}

		created++
		if created%10 == 0 {
			fmt.Printf("Created %d users...\n", created)
		}
	}

	fmt.Printf("\nSeed completed! Created %d, skipped %d existing.\n", created, skipped)
}
