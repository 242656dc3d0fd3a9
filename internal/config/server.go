package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	commandHandler "VoiceAssistant/internal/api/command/handler"
	commandRepository "VoiceAssistant/internal/api/command/repository"
	commandService "VoiceAssistant/internal/api/command/service"
	settingsHandler "VoiceAssistant/internal/api/settings/handler"
	settingsRepository "VoiceAssistant/internal/api/settings/repository"
	settingsService "VoiceAssistant/internal/api/settings/service"
	"VoiceAssistant/internal/middleware"
	"VoiceAssistant/pkg/document"
	"VoiceAssistant/pkg/lock"
	redisPkg "VoiceAssistant/pkg/redis"
	"VoiceAssistant/pkg/storage"
	"VoiceAssistant/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	env          Env
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	documents    *document.Store
	locker       lock.ILocker
	redisClient  *redis.Client
	assetBackend storage.Backend
	handlers     []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.documents == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if server.assetBackend == nil {
		return nil, fmt.Errorf("asset backend is required")
	}
	if server.locker == nil {
		return nil, fmt.Errorf("locker is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithEnv(env Env) ServerOption {
	return func(s *Server) error {
		s.env = env
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithDocumentStore() ServerOption {
	return func(s *Server) error {
		store, err := document.New(s.env.UploadDir)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to prepare upload directory: %v", err)
			}
			return fmt.Errorf("failed to create document store: %w", err)
		}
		s.documents = store
		return nil
	}
}

// WithLocker picks the per-scope lock implementation from LOCK_DRIVER.
func WithLocker() ServerOption {
	return func(s *Server) error {
		if s.env.LockDriver != LockDriverRedis {
			s.locker = lock.NewLocal()
			return nil
		}
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before redis locker")
		}

		client, err := redisPkg.New(redisPkg.Options{
			Address:  s.env.RedisAddress,
			Password: s.env.RedisPassword,
			DB:       s.env.RedisDB,
		}, s.log)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		s.redisClient = client
		s.locker = lock.NewRedis(client, s.env.LockTTL, s.log)
		return nil
	}
}

// WithAssetBackend picks where uploaded files live from STORAGE_DRIVER.
func WithAssetBackend() ServerOption {
	return func(s *Server) error {
		var (
			backend storage.Backend
			err     error
		)

		switch s.env.StorageDriver {
		case StorageDriverS3:
			backend, err = storage.NewS3(storage.S3Options{
				Region:          s.env.AWSRegion,
				BucketName:      s.env.AWSBucketName,
				AccessKeyID:     s.env.AWSAccessKeyID,
				SecretAccessKey: s.env.AWSSecretAccessKey,
			})
		default:
			backend, err = storage.NewLocal(s.env.UploadDir)
		}
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize asset storage: %v", err)
			}
			return fmt.Errorf("failed to create asset backend: %w", err)
		}

		s.assetBackend = backend
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.documents == nil {
			return fmt.Errorf("document store must be initialized before middleware")
		}

		m, err := middleware.New(s.log, middleware.Config{
			RateLimit: s.env.RateLimit,
			RateBurst: s.env.RateBurst,
			Session:   s.env.Session(),
			Scopes:    s.documents,
		})
		if err != nil {
			return fmt.Errorf("failed to create middleware: %w", err)
		}
		s.middleware = m
		return nil
	}
}

func (s *Server) RegisterHandler() {
	s.engine.Use(recover.New())
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	s.engine.Use(s.middleware.NewRateLimiter)

	// Command Domain
	audioStore := storage.NewAssetStore(s.assetBackend, storage.Policy{
		Extensions: s.env.AudioExtensions,
		MaxSize:    s.env.MaxUploadSize,
	}, s.utils)
	commandRepo := commandRepository.New(s.documents, s.locker, s.log)
	commandServices := commandService.NewCommandService(s.log, commandRepo, audioStore, s.utils)
	commandHandlers := commandHandler.New(s.log, s.validator, s.middleware, commandServices, s.env.RequestTimeout)

	// Settings Domain
	imageStore := storage.NewAssetStore(s.assetBackend, storage.Policy{
		Extensions: s.env.ImageExtensions,
		MaxSize:    s.env.MaxUploadSize,
	}, s.utils)
	settingsRepo := settingsRepository.New(s.documents, s.locker, s.log)
	settingsServices := settingsService.NewSettingsService(s.log, settingsRepo, imageStore, s.env.DefaultBotName)
	settingsHandlers := settingsHandler.New(s.log, s.validator, s.middleware, settingsServices, s.env.RequestTimeout)

	s.setupHealthCheck()
	s.setupClient()
	s.handlers = append(s.handlers, commandHandlers, settingsHandlers)

	for _, h := range s.handlers {
		h.Start(s.engine)
	}
}

// App exposes the configured engine, mainly for in-process tests.
func (s *Server) App() *fiber.App {
	return s.engine
}

func (s *Server) Run() error {
	port := s.env.AppPort
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)
	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		c, cancel := context.WithTimeout(ctx.UserContext(), s.env.RequestTimeout)
		defer cancel()

		if err := s.documents.Ping(); err != nil {
			s.log.WithError(err).Error("Health check failed on document store")
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "unhealthy"})
		}
		if err := s.assetBackend.Ping(c); err != nil {
			s.log.WithError(err).Error("Health check failed on asset storage")
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "unhealthy"})
		}

		return ctx.JSON(fiber.Map{"status": "healthy"})
	})
}

func (s *Server) setupClient() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		if _, err := os.Stat(s.env.IndexFile); err != nil {
			return fiber.ErrNotFound
		}
		return ctx.SendFile(filepath.Clean(s.env.IndexFile))
	})

	s.engine.Static("/static", s.env.StaticDir)
}
