package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopit/storefront/internal/api"
	"github.com/shopit/storefront/internal/api/handler"
	"github.com/shopit/storefront/internal/core/security"
	"github.com/shopit/storefront/internal/core/service"
	"github.com/shopit/storefront/internal/infrastructure/db/redis"
	"github.com/shopit/storefront/internal/infrastructure/mail"
	"github.com/shopit/storefront/internal/infrastructure/queue"
	"github.com/shopit/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Example: `  storefront serve
  storefront serve --port 4000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")

	return cmd
}

func runServe(ctx context.Context, port string) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())
	cfg, log := st.cfg, st.log
	if port == "" {
		port = cfg.Port
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	mailer := mail.NewLogMailer(cfg.Mail.From, !cfg.IsProduction(), logger.Component("mailer"))
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, mailer, logger.Component("mail_queue"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	sessions := security.NewSessionTokens(st.params)
	hasher := security.NewPasswordHasher(st.params)
	auth, err := service.NewAuthService(service.AuthDeps{
		Accounts:    st.accounts,
		Hasher:      hasher,
		Sessions:    sessions,
		Recovery:    security.NewRecoveryTokens(st.params),
		Limiter:     redis.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window),
		Mail:        dispatcher,
		FrontendURL: cfg.FrontendURL,
		Log:         logger.Component("auth_service"),
	})
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Auth:     auth,
		Accounts: st.accountService(),
		Sessions: sessions,
		Lookup:   st.accounts,
		Checks: map[string]handler.Check{
			"mongo": func(ctx context.Context) error { return st.client.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Production: cfg.IsProduction(),
		Log:        logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", port).Msg("http server listening")
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
