package container

import (
	"context"
	"fmt"

	"github.com/gdugdh24/mutual-backend/internal/compatibility"
	"github.com/gdugdh24/mutual-backend/internal/config"
	"github.com/gdugdh24/mutual-backend/internal/delivery/http"
	"github.com/gdugdh24/mutual-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/mutual-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/database"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/ratelimit"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/server"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/mutual-backend/internal/infrastructure/userlock"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/gdugdh24/mutual-backend/internal/repository/memory"
	"github.com/gdugdh24/mutual-backend/internal/repository/postgres"
	"github.com/gdugdh24/mutual-backend/internal/usecase/account"
	"github.com/gdugdh24/mutual-backend/internal/usecase/auth"
	"github.com/gdugdh24/mutual-backend/internal/usecase/block"
	"github.com/gdugdh24/mutual-backend/internal/usecase/feed"
	"github.com/gdugdh24/mutual-backend/internal/usecase/match"
	"github.com/gdugdh24/mutual-backend/internal/usecase/message"
	"github.com/gdugdh24/mutual-backend/internal/usecase/onboarding"
	"github.com/gdugdh24/mutual-backend/internal/usecase/profile"
	"github.com/gdugdh24/mutual-backend/internal/usecase/swipe"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.GeminiClient
}

// Repositories groups every store the use cases need.
type Repositories struct {
	Users         repository.UserRepository
	Profiles      repository.ProfileRepository
	Photos        repository.PhotoRepository
	Conversations repository.ConversationRepository
	Likes         repository.LikeRepository
	Matches       repository.MatchRepository
	Messages      repository.MessageRepository
	Blocks        repository.BlockRepository
}

func NewPostgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Users:         postgres.NewUserRepository(db),
		Profiles:      postgres.NewProfileRepository(db),
		Photos:        postgres.NewPhotoRepository(db),
		Conversations: postgres.NewConversationRepository(db),
		Likes:         postgres.NewLikeRepository(db),
		Matches:       postgres.NewMatchRepository(db),
		Messages:      postgres.NewMessageRepository(db),
		Blocks:        postgres.NewBlockRepository(db),
	}
}

func NewMemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		Users:         memory.NewUserRepository(s),
		Profiles:      memory.NewProfileRepository(s),
		Photos:        memory.NewPhotoRepository(s),
		Conversations: memory.NewConversationRepository(s),
		Likes:         memory.NewLikeRepository(s),
		Matches:       memory.NewMatchRepository(s),
		Messages:      memory.NewMessageRepository(s),
		Blocks:        memory.NewBlockRepository(s),
	}
}

// Deps are the outside services the HTTP layer is built on.
type Deps struct {
	Repos       Repositories
	Store       storage.ObjectStore
	LLM         onboarding.Completer
	Icebreakers match.IcebreakerGenerator
	Redis       *redis.Client // nil selects in-process limiters and locks
	Logger      *zap.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	var repos Repositories
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		repos = NewMemoryRepositories(memory.NewStore())
	default:
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		if err := database.Migrate(ctx, db, logger); err != nil {
			c.Close()
			return nil, err
		}
		repos = NewPostgresRepositories(db)
	}

	if cfg.Redis.Enabled() {
		client, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, using in-process rate limits and locks", zap.Error(err))
		} else {
			c.Redis = client
		}
	}

	geminiClient, err := gemini.NewGeminiClient(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.Model)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	c.Gemini = geminiClient

	var store storage.ObjectStore
	uploadsDir := ""
	switch cfg.Storage.Type {
	case "minio":
		store, err = storage.NewMinioStore(ctx, &cfg.Storage, logger)
	default:
		var local *storage.LocalStore
		local, err = storage.NewLocalStore(cfg.Storage.Path, cfg.Storage.PublicBaseURL)
		if local != nil {
			store, uploadsDir = local, local.Root()
		}
	}
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	engine := NewRouter(cfg, Deps{
		Repos:       repos,
		Store:       store,
		LLM:         geminiClient,
		Icebreakers: geminiClient,
		Redis:       c.Redis,
		Logger:      logger,
	}, uploadsDir).Setup()

	c.Server = server.NewServer(&cfg.Server, engine, logger)
	return c, nil
}

// NewRouter builds every use case and handler on top of deps.
func NewRouter(cfg *config.Config, deps Deps, uploadsDir string) *http.Router {
	r, logger := deps.Repos, deps.Logger
	scorer := compatibility.NewScorer(logger)
	rl := cfg.RateLimit

	authUseCase := auth.NewAuthUseCase(r.Users, cfg.JWT.Secret, cfg.JWT.Expiry(), logger)
	accountUseCase := account.NewAccountUseCase(r.Users, r.Photos, deps.Store, logger)
	profileUseCase := profile.NewProfileUseCase(r.Users, r.Profiles, r.Photos, deps.Store, logger)
	onboardingUseCase := onboarding.NewOnboardingUseCase(
		r.Conversations,
		r.Profiles,
		deps.LLM,
		userlock.New(deps.Redis),
		logger,
		onboarding.Config{
			LLMTimeout:  cfg.LLM.Timeout,
			MaxHistory:  cfg.LLM.MaxHistory,
			TurnLockTTL: cfg.LLM.TurnLockTTL,
		},
	)
	feedUseCase := feed.NewFeedUseCase(r.Users, r.Profiles, r.Photos, r.Conversations, scorer)
	swipeUseCase := swipe.NewSwipeUseCase(r.Users, r.Likes, r.Matches, r.Blocks, r.Profiles, scorer, logger)
	matchUseCase := match.NewMatchUseCase(r.Matches, r.Users, r.Profiles, r.Photos, r.Blocks, deps.Icebreakers, logger)
	messageUseCase := message.NewMessageUseCase(r.Messages, r.Matches, r.Blocks, logger)
	blockUseCase := block.NewBlockUseCase(r.Blocks, r.Users, logger)

	if err := handler.RegisterValidators(); err != nil {
		logger.Error("failed to register validators", zap.Error(err))
	}

	handlers := http.Handlers{
		Auth:     handler.NewAuthHandler(authUseCase, ratelimit.New(deps.Redis, "auth_email", rl.AuthPerMin, rl.Window), logger),
		Account:  handler.NewAccountHandler(accountUseCase, logger),
		Profile:  handler.NewProfileHandler(profileUseCase, logger),
		Chat:     handler.NewChatHandler(onboardingUseCase, logger),
		Discover: handler.NewDiscoverHandler(feedUseCase, logger),
		Match:    handler.NewMatchHandler(swipeUseCase, matchUseCase, messageUseCase, logger),
		Block:    handler.NewBlockHandler(blockUseCase, logger),
	}
	limiters := http.Limiters{
		Chat:     ratelimit.New(deps.Redis, "chat", rl.ChatPerMin, rl.Window),
		AuthIP:   ratelimit.New(deps.Redis, "auth_ip", rl.AuthIPPerMin, rl.Window),
		Messages: ratelimit.New(deps.Redis, "messages", rl.MessagesPerMin, rl.Window),
	}

	authMiddleware := middleware.NewAuthMiddleware(authUseCase, logger, http.InactiveAllowedPaths...)

	return http.NewRouter(handlers, limiters, authMiddleware, cfg.Server.CORSOrigins, uploadsDir, logger)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", zap.Error(err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
