package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/crosscheck-io/crosscheck/internal/auth/apikey"
	"github.com/crosscheck-io/crosscheck/pkg/config"
	"github.com/crosscheck-io/crosscheck/pkg/logger"
	"github.com/crosscheck-io/crosscheck/pkg/postgres"
)

// authkeys is a CLI tool for managing the scan service's API keys.
//
// Usage:
//
//	authkeys create --name "my-app" [--rate-limit 100]
//	authkeys revoke --id <key-id>
//	authkeys list
func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := apikey.NewStore(db)
	ctx := context.Background()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "create":
		cmdCreate(ctx, store, args[1:])
	case "revoke":
		cmdRevoke(ctx, store, args[1:])
	case "list":
		cmdList(ctx, store)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func cmdCreate(ctx context.Context, store *apikey.Store, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "name for the api key")
	rateLimit := fs.Int("rate-limit", 100, "requests per minute (0 = unlimited)")
	fs.Parse(args)

	if *name == "" {
		fmt.Fprintln(os.Stderr, "error: --name is required")
		os.Exit(1)
	}

	raw, info, err := store.CreateKey(ctx, *name, *rateLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("API key created successfully.")
	fmt.Println("Store this key securely — it cannot be retrieved again.")
	fmt.Println()
	fmt.Printf("  Key:        %s\n", raw)
	fmt.Printf("  ID:         %d\n", info.ID)
	fmt.Printf("  Name:       %s\n", info.Name)
	if info.RateLimit > 0 {
		fmt.Printf("  Rate Limit: %d req/min\n", info.RateLimit)
	} else {
		fmt.Println("  Rate Limit: unlimited")
	}
}

func cmdRevoke(ctx context.Context, store *apikey.Store, args []string) {
	fs := flag.NewFlagSet("revoke", flag.ExitOnError)
	id := fs.Int64("id", 0, "id of the api key to revoke")
	fs.Parse(args)

	if *id == 0 {
		fmt.Fprintln(os.Stderr, "error: --id is required")
		os.Exit(1)
	}

	if err := store.RevokeKey(ctx, *id); err != nil {
		fmt.Fprintf(os.Stderr, "failed to revoke key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("API key revoked successfully.")
}

func cmdList(ctx context.Context, store *apikey.Store) {
	keys, err := store.ListKeys(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list keys: %v\n", err)
		os.Exit(1)
	}

	if len(keys) == 0 {
		fmt.Println("No active API keys.")
		return
	}

	fmt.Printf("%-8s  %-20s  %-10s  %s\n", "ID", "Name", "Rate Limit", "Created")
	fmt.Println("--------  --------------------  ----------  -------------------------")
	for _, k := range keys {
		fmt.Printf("%-8d  %-20s  %-10d  %s\n", k.ID, k.Name, k.RateLimit, k.CreatedAt.Format(time.RFC3339))
	}

	fmt.Printf("\nTotal: %d active key(s)\n", len(keys))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: authkeys <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  create   Create a new API key")
	fmt.Fprintln(os.Stderr, "  revoke   Revoke an existing API key")
	fmt.Fprintln(os.Stderr, "  list     List all active API keys")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, `  authkeys create --name "my-app" --rate-limit 100`)
	fmt.Fprintln(os.Stderr, `  authkeys revoke --id 3`)
	fmt.Fprintln(os.Stderr, `  authkeys list`)
}
