package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-api/config"
	"github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/internal/container"
	"github.com/oksasatya/go-social-api/internal/domain/entity"
	"github.com/oksasatya/go-social-api/internal/infrastructure/database"
	"github.com/oksasatya/go-social-api/internal/infrastructure/search"
	"github.com/oksasatya/go-social-api/internal/infrastructure/storage"
	"github.com/oksasatya/go-social-api/internal/infrastructure/telemetry"
	"github.com/oksasatya/go-social-api/pkg/helpers"
)

// Seeds fake users with posts, comments and likes through the same
// services the API uses, so every invariant still applies.
func main() {
	users := flag.Int("users", 10, "number of users to create")
	postsPer := flag.Int("posts", 3, "posts per user")
	commentsPer := flag.Int("comments", 2, "comments per post")
	password := flag.String("password", "password123", "password for every seeded user")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	helpers.SetBcryptCost(cfg.BcryptCost)
	gofakeit.Seed(*seed)

	ctx := context.Background()
	db, closeDB, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer closeDB()

	media, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		logger.WithError(err).Fatal("failed to init media storage")
	}
	index, err := search.Open(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass, cfg.ESUsersIndex)
	if err != nil {
		logger.WithError(err).Fatal("failed to init elasticsearch")
	}
	c := container.New(cfg, logger, container.Infra{
		DB:      db,
		Storage: media,
		Index:   index,
		Metrics: telemetry.NewMetrics("seed"),
	})

	created := make([]*entity.User, 0, *users)
	for len(created) < *users {
		age := gofakeit.Number(16, 80)
		u, err := c.Users.Register(ctx, application.RegisterInput{
			Username: gofakeit.Username(),
			Email:    gofakeit.Email(),
			Password: *password,
			Age:      &age,
		})
		if errors.Is(err, application.ErrUsernameTaken) || errors.Is(err, application.ErrEmailTaken) {
			continue
		}
		if err != nil {
			logger.WithError(err).Fatal("seed user")
		}
		created = append(created, u)
	}

	var posts []*entity.Post
	for _, u := range created {
		for i := 0; i < *postsPer; i++ {
			content := gofakeit.Sentence(gofakeit.Number(4, 16))
			p, err := c.Posts.Create(ctx, u, application.CreatePostInput{Content: &content})
			if err != nil {
				logger.WithError(err).Fatal("seed post")
			}
			posts = append(posts, p)
		}
	}

	var comments, likes int
	for _, p := range posts {
		for i := 0; i < *commentsPer; i++ {
			author := created[gofakeit.Number(0, len(created)-1)]
			if _, err := c.Posts.AddComment(ctx, author, p.ID, gofakeit.Sentence(gofakeit.Number(2, 10))); err != nil {
				logger.WithError(err).Fatal("seed comment")
			}
			comments++
		}
		// each user likes roughly a third of the posts
		for _, u := range created {
			if gofakeit.Number(0, 2) != 0 {
				continue
			}
			if _, err := c.Posts.ToggleLike(ctx, u, p.ID); err != nil {
				logger.WithError(err).Fatal("seed like")
			}
			likes++
		}
	}

	logger.WithFields(logrus.Fields{
		"users":    len(created),
		"posts":    len(posts),
		"comments": comments,
		"likes":    likes,
		"password": *password,
	}).Info("seed complete")
}
