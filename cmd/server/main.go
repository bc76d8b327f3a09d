package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shortify/shortify/internal/alias"
	"github.com/shortify/shortify/internal/auth"
	"github.com/shortify/shortify/internal/cache"
	memorycache "github.com/shortify/shortify/internal/cache/memory"
	rediscache "github.com/shortify/shortify/internal/cache/redis"
	"github.com/shortify/shortify/internal/config"
	"github.com/shortify/shortify/internal/geo"
	"github.com/shortify/shortify/internal/ratelimit"
	"github.com/shortify/shortify/internal/repository/sqlite"
	"github.com/shortify/shortify/internal/requestmeta"
	"github.com/shortify/shortify/internal/service"
	"github.com/shortify/shortify/internal/transport/client"
	httptransport "github.com/shortify/shortify/internal/transport/http"
)

var rootCmd = &cobra.Command{
	Use:   "shortify",
	Short: "A URL shortening service with click analytics",
	Long:  "A URL shortening service with Google login, per-alias and per-topic click analytics, SQLite storage and configurable caching (memory or Redis)",
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the shortening server",
	RunE:  runServer,
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for interacting with the server",
}

var shortenCmd = &cobra.Command{
	Use:   "shorten [URL]",
	Short: "Create a short link",
	Args:  cobra.ExactArgs(1),
	RunE:  runShorten,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [ALIAS]",
	Short: "Show the redirect target of an alias",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics [ALIAS]",
	Short: "Show analytics for one alias, or overall when no alias is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalytics,
}

var topicCmd = &cobra.Command{
	Use:   "topic [TOPIC]",
	Short: "Show aggregated analytics for a topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicAnalytics,
}

func init() {
	shortenCmd.Flags().String("alias", "", "Custom alias instead of a generated one")
	shortenCmd.Flags().String("topic", "", "Topic to group the link under")

	clientCmd.PersistentFlags().StringP("server-url", "u", "http://localhost:8080", "Server URL")
	clientCmd.PersistentFlags().String("token", "", "Session token for authenticated calls")

	clientCmd.AddCommand(shortenCmd, resolveCmd, analyticsCmd, topicCmd)
	rootCmd.AddCommand(serverCmd, clientCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	log := config.NewLogger(cfg.Logging)
	log.WithFields(logrus.Fields{
		"port":  cfg.Server.Port,
		"cache": cfg.Cache.Backend,
	}).Info("starting shortify server")

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return errors.Wrap(err, "initialize database")
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("closing repository")
		}
	}()

	var linkCache cache.LinkCache
	var redisClient *redis.Client
	if cfg.Cache.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		linkCache = rediscache.New(redisClient, cfg.Cache.TTL, log)
	} else {
		linkCache = memorycache.New(cfg.Cache.TTL)
	}

	// With Redis available the limit is shared across instances; without it
	// each instance enforces its own bucket.
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
		} else {
			limiter = ratelimit.NewLocalLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
		}
	}

	resolver := geo.Resolver(geo.NoopResolver{})
	if cfg.GeoIP.DBPath != "" {
		maxmind, err := geo.NewMaxMindResolver(cfg.GeoIP.DBPath)
		if err != nil {
			return errors.Wrap(err, "open GeoIP database")
		}
		resolver = maxmind
	}
	defer func() {
		if err := resolver.Close(); err != nil {
			log.WithError(err).Error("closing GeoIP resolver")
		}
	}()

	shortener := service.NewShortener(repo, linkCache, alias.NewGenerator(), log)
	defer func() {
		if err := shortener.Close(); err != nil {
			log.WithError(err).Error("closing shortener")
		}
	}()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)

	var google *auth.GoogleHandler
	if cfg.Auth.GoogleClientID != "" {
		google = auth.NewGoogleHandler(auth.GoogleConfig{
			ClientID:     cfg.Auth.GoogleClientID,
			ClientSecret: cfg.Auth.GoogleClientSecret,
			RedirectURL:  cfg.Auth.GoogleRedirectURL,
			SecureCookie: cfg.Auth.SecureCookie,
		}, tokens, log)
	} else {
		log.Warn("Google OAuth is not configured, login is disabled")
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Shortener: shortener,
		Analytics: service.NewAnalytics(repo, cfg.Server.BaseURL),
		Extractor: requestmeta.NewExtractor(resolver),
		Tokens:    tokens,
		Google:    google,
		Limiter:   limiter,
		BaseURL:   cfg.Server.BaseURL,
		Log:       log,
	})
	server := httptransport.NewServer(router, cfg.Server.Port, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return errors.Wrap(err, "server error")
		}
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("shutting down gracefully")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown")
		}
	}

	log.Info("server stopped")
	return nil
}

func clientCommands(cmd *cobra.Command) (*client.Commands, context.Context, context.CancelFunc) {
	serverURL, _ := cmd.Flags().GetString("server-url")
	token, _ := cmd.Flags().GetString("token")

	commands := client.NewCommands(client.NewClient(serverURL, token))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	return commands, ctx, cancel
}

func runShorten(cmd *cobra.Command, args []string) error {
	customAlias, _ := cmd.Flags().GetString("alias")
	topic, _ := cmd.Flags().GetString("topic")

	commands, ctx, cancel := clientCommands(cmd)
	defer cancel()

	return commands.Shorten(ctx, args[0], customAlias, topic)
}

func runResolve(cmd *cobra.Command, args []string) error {
	commands, ctx, cancel := clientCommands(cmd)
	defer cancel()

	return commands.Resolve(ctx, args[0])
}

func runAnalytics(cmd *cobra.Command, args []string) error {
	commands, ctx, cancel := clientCommands(cmd)
	defer cancel()

	if len(args) == 0 {
		return commands.OverallAnalytics(ctx)
	}
	return commands.AliasAnalytics(ctx, args[0])
}

func runTopicAnalytics(cmd *cobra.Command, args []string) error {
	commands, ctx, cancel := clientCommands(cmd)
	defer cancel()

	return commands.TopicAnalytics(ctx, args[0])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
