// Command gridclash starts the GridClash match server.
//
// It pairs connected players by rating proximity, arbitrates their games,
// and revises skill ratings after every concluded session. Clients speak
// JSON over a WebSocket at /ws; health, metrics, and a read-only stats
// snapshot are served over HTTP.
//
// Flags control host/port, environment selection, debug logging, version
// output, and optional ngrok tunneling for easy external access during
// development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/gridclash/gridclash/api"
	"github.com/gridclash/gridclash/broker"
	"github.com/gridclash/gridclash/config"
	"github.com/gridclash/gridclash/game/queue"
	"github.com/gridclash/gridclash/game/service"
	"github.com/gridclash/gridclash/game/session"
	"github.com/gridclash/gridclash/store"
	"github.com/gridclash/gridclash/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "GridClash Match Server"
)

// Configuration flags control how the server starts. Tunables beyond these
// live in the config package.
var (
	port         = flag.Int("port", 0, "HTTP server port (overrides config)")
	host         = flag.String("host", "", "HTTP server host (overrides config)")
	env          = flag.String("env", getEnvDefault(), "Configuration environment (config.<env>.yaml)")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// getEnvDefault returns the default configuration environment. It honors
// the GRIDCLASH_ENV environment variable, then falls back to "dev".
func getEnvDefault() string {
	if env := os.Getenv("GRIDCLASH_ENV"); env != "" {
		return env
	}
	return "dev"
}

// main parses flags, wires the core components, and runs the server.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	// Setup logging
	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	if err := config.Initialize(*env); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.Get()
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log.Printf("Starting %s v%s (env: %s)", AppName, Version, *env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeStore()

	events, err := newPublisher(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize broker: %v", err)
	}
	defer events.Close()

	runServer(ctx, cancel, cfg, st, events)
}

// newStore selects the rating/result backend from configuration.
func newStore(ctx context.Context, cfg *config.AppConfig) (store.Store, func(), error) {
	switch strings.ToLower(cfg.Store.Backend) {
	case "redis":
		s, err := store.NewRedis(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using redis store at %s", cfg.Store.RedisURL)
		return s, func() { s.Close() }, nil
	default:
		log.Println("Using in-memory store (ratings and results are not durable)")
		return store.NewMemory(), func() {}, nil
	}
}

// newPublisher selects the observability event backend from configuration.
func newPublisher(cfg *config.AppConfig) (broker.Publisher, error) {
	switch strings.ToLower(cfg.Broker.Backend) {
	case "kafka":
		p, err := broker.NewKafka(cfg.Broker.Brokers)
		if err != nil {
			return nil, err
		}
		log.Printf("Publishing events to Kafka topic %s via %v", cfg.Broker.Topic, cfg.Broker.Brokers)
		return p, nil
	default:
		return broker.Nop{}, nil
	}
}

// runServer wires the core and serves HTTP until a shutdown signal. If
// ngrok is enabled (via flag or environment), it also provisions a public
// tunnel.
func runServer(ctx context.Context, cancel context.CancelFunc, cfg *config.AppConfig, st store.Store, events broker.Publisher) {
	sessions := session.NewManager()
	q := queue.New(cfg.Matchmaking.BucketWidth, sessions)

	hub := websocket.NewHub(websocket.NewAuthenticator(cfg.Auth.JWTSecret))
	orch := service.NewOrchestrator(q, sessions, st, events, cfg.Broker.Topic, websocket.NewNotifier(hub))
	hub.SetOrchestrator(orch)
	go hub.Run()

	apiServer := api.NewServer(hub, q, sessions)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      apiServer,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("WebSocket: ws://%s/ws?token=<jwt>", addr)
		log.Printf("Stats: http://%s/api/stats", addr)
		log.Printf("Metrics: http://%s/metrics", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Check if ngrok should be enabled (from flag or environment)
	ngrokShouldRun := *ngrokEnabled
	if !ngrokShouldRun {
		if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
			ngrokShouldRun = true
		}
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, apiServer)
		}()
	}

	// Wait for shutdown signal
	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// runNgrokTunnel exposes the server through an ngrok tunnel for external
// access during development.
func runNgrokTunnel(ctx context.Context, handler http.Handler) {
	// Get auth token from flag or environment
	authToken := *ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(authToken),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	log.Printf("Ngrok tunnel established: %s", tun.URL())

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}
