package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/stake-plus/memberhub/src/api/config"
	"github.com/stake-plus/memberhub/src/api/data"
	"github.com/stake-plus/memberhub/src/api/discord"
	"github.com/stake-plus/memberhub/src/api/store"
	"github.com/stake-plus/memberhub/src/api/types"
	"github.com/stake-plus/memberhub/src/api/webserver"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "memberhub",
		Short:         "Membership and organisation management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := cfg.Logger()
			db, err := data.Open(cfg.DatabaseDSN, pool(cfg), log)
			if err != nil {
				return err
			}
			if err := data.Migrate(db); err != nil {
				return err
			}
			log.Info("schema migrated")
			return nil
		},
	})

	cmd.AddCommand(tokenCmd(&configPath))
	return cmd
}

func tokenCmd(configPath *string) *cobra.Command {
	var (
		id  webserver.Identity
		ttl time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			tok, err := webserver.IssueToken([]byte(cfg.JWTSecret), id, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&id.ID, "sub", "demo-user", "Subject (user id)")
	cmd.Flags().StringVar(&id.Email, "email", "", "Email claim")
	cmd.Flags().StringVar(&id.FirstName, "first-name", "", "First name claim")
	cmd.Flags().StringVar(&id.LastName, "last-name", "", "Last name claim")
	cmd.Flags().StringVar((*string)(&id.Role), "role", string(types.RoleMember), "Role claim (admin, leadership, member)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func pool(cfg config.Config) data.Pool {
	return data.Pool{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}

func serve(parent context.Context, cfg config.Config) error {
	log := cfg.Logger()
	slog.SetDefault(log)

	db, err := data.Open(cfg.DatabaseDSN, pool(cfg), log)
	if err != nil {
		return err
	}
	if err := data.Migrate(db); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps := webserver.Deps{Logger: log, Registry: reg}

	if cfg.RedisURL != "" {
		rdb, err := data.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		deps.Changes = data.NewPublisher(rdb)
		log.Info("publishing changes", slog.String("stream", data.ChangeStream))
	}
	if cfg.DiscordToken != "" {
		b, err := discord.NewBroadcaster(cfg.DiscordToken, cfg.DiscordChannelID)
		if err != nil {
			return err
		}
		deps.Broadcaster = b
		log.Info("broadcasting urgent notices", slog.String("channel", cfg.DiscordChannelID))
	}

	router := webserver.New(cfg, store.New(db, cfg.QueryTimeout), deps)
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TLSCert != "" {
		reloader, err := webserver.NewTLSReloader(cfg.TLSCert, cfg.TLSKey, log)
		if err != nil {
			return err
		}
		go reloader.Watch(ctx)
		httpSrv.TLSConfig = reloader.GetConfig()
	}

	errc := make(chan error, 1)
	go func() {
		if httpSrv.TLSConfig != nil {
			errc <- httpSrv.ListenAndServeTLS("", "")
			return
		}
		errc <- httpSrv.ListenAndServe()
	}()
	log.Info("memberhub API listening", slog.String("port", cfg.Port), slog.Bool("tls", cfg.TLSCert != ""))

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := router.Drain(shutCtx); err != nil {
		return fmt.Errorf("drain broadcasts: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
