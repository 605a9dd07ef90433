package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/shopit/storefront/internal/core/security"
	"github.com/shopit/storefront/internal/core/service"
	"github.com/shopit/storefront/internal/infrastructure/db/mongo"
	"github.com/shopit/storefront/internal/infrastructure/storage/s3"
	"github.com/shopit/storefront/internal/pkg/config"
	"github.com/shopit/storefront/pkg/logger"
)

// store is what every command needs: configuration, logging and the
// account collection.
type store struct {
	cfg      *config.Config
	log      zerolog.Logger
	params   *security.Params
	client   *mongodriver.Client
	accounts *mongo.AccountRepository
	avatars  *s3.AvatarStore
}

func openStore(ctx context.Context) (*store, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront",
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     "storefront",
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return nil, err
	}
	accounts := mongo.NewAccountRepository(db)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	avatars, err := s3.New(ctx, s3.Config{
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("avatar store: %w", err)
	}

	log.Info().Str("env", cfg.Env).Str("db", cfg.Mongo.Database).Msg("connected to mongo")
	return &store{
		cfg:      cfg,
		log:      log,
		params:   cfg.Security(),
		client:   client,
		accounts: accounts,
		avatars:  avatars,
	}, nil
}

func (s *store) accountService() *service.AccountService {
	return service.NewAccountService(
		s.accounts,
		security.NewPasswordHasher(s.params),
		s.avatars,
		logger.Component("account_service"),
	)
}

func (s *store) Close(ctx context.Context) {
	if err := s.client.Disconnect(ctx); err != nil {
		s.log.Warn().Err(err).Msg("mongo disconnect failed")
	}
}
