// ABOUTME: Entry point for the fashiond e-commerce backend
// ABOUTME: Serves the storefront API over a process-wide MongoDB connection

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/sarkerlabs/fashion-backend/internal/auth"
	"github.com/sarkerlabs/fashion-backend/internal/config"
	"github.com/sarkerlabs/fashion-backend/internal/payments"
	"github.com/sarkerlabs/fashion-backend/internal/server"
	"github.com/sarkerlabs/fashion-backend/internal/store"
)

// version is set by goreleaser at build time.
var version = "dev"

const banner = `
   __           _     _                 _
  / _| __ _ ___| |__ (_) ___  _ __   __| |
 | |_ / _' / __| '_ \| |/ _ \| '_ \ / _' |
 |  _| (_| \__ \ | | | | (_) | | | | (_| |
 |_|  \__,_|___/_| |_|_|\___/|_| |_|\__,_|
`

// getConfigPath returns the path to the config file.
// Priority: FASHION_CONFIG env var > ./fashiond.yaml > ~/.config/fashiond/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("FASHION_CONFIG"); envPath != "" {
		return envPath
	}

	if _, err := os.Stat("fashiond.yaml"); err == nil {
		return "fashiond.yaml"
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "fashiond.yaml" // fallback
	}
	return filepath.Join(homeDir, ".config", "fashiond", "config.yaml")
}

// loadConfig loads the YAML config, falling back to environment variables
// when no file exists.
func loadConfig() (*config.Config, error) {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	return config.FromEnv()
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: fashiond <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                Start the API server")
		fmt.Println("  health               Check server health")
		fmt.Println("  token --email EMAIL  Mint a dev token for the given email")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "health":
		err = runHealth(ctx)
	case "token":
		err = runToken()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	cyan.Print(banner)
	gray.Printf("    version: %s\n\n", version)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.Addr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Name)
	fmt.Println()

	// One store connection for the life of the process.
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	st, err := store.NewMongoStore(connectCtx, cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}

	issuer, err := auth.NewIssuer([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("initializing token issuer: %w", err)
	}

	var intents server.IntentCreator
	if cfg.Payments.StripeSecretKey != "" {
		intents = payments.NewIntentCreator(cfg.Payments.StripeSecretKey, logger)
	} else {
		logger.Warn("no stripe secret key configured, payment intents disabled")
	}

	logger.Info("starting fashiond",
		"addr", cfg.Server.Addr,
		"database", cfg.Database.Name,
	)

	srv := server.New(cfg.Server.Addr, st, issuer, intents, logger)
	return srv.Run(ctx)
}

func runHealth(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.Server.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

// runToken mints a credential locally with the configured secret. Development
// convenience; production clients get theirs from POST /jwt.
func runToken() error {
	var email string
	for i := 2; i < len(os.Args); i++ {
		if os.Args[i] == "--email" && i+1 < len(os.Args) {
			email = os.Args[i+1]
		}
	}
	if email == "" {
		return fmt.Errorf("token requires --email EMAIL")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	issuer, err := auth.NewIssuer([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("initializing token issuer: %w", err)
	}

	token, err := issuer.Issue(map[string]any{"email": email})
	if err != nil {
		return fmt.Errorf("minting token: %w", err)
	}

	fmt.Println(token)
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(&colorHandler{level: level})
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu    sync.Mutex
	level slog.Level
	attrs []slog.Attr
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{level: h.level, attrs: newAttrs}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	return h
}
