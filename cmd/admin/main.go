package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"wallet/internal/domain/portfolio"
	"wallet/internal/infrastructure/cache"
	"wallet/internal/infrastructure/sheets"
	"wallet/internal/shared/auth"
	"wallet/internal/shared/config"
	"wallet/internal/shared/logging"
)

const usage = `Wallet Admin CLI - Operator commands for the wallet dashboard

Usage:
  admin <command> [options]

Commands:
  hash-password   Print a bcrypt hash for DASHBOARD_PASSWORD_HASH
  check-sheets    Load every configured worksheet and print its size
  flush-cache     Drop the worksheets cached in Redis
  warm-cache      Reload every configured worksheet into Redis

Examples:
  # Hash a password read from stdin
  echo -n 'my password' | admin hash-password

  # Check the spreadsheet with a specific env file
  admin check-sheets --env-file=.env.production

  # Force the next page loads to read the spreadsheet
  admin flush-cache

  # Refresh the cache from cron, ahead of the TTL
  admin warm-cache --env-file=/etc/wallet/.env
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		os.Exit(1)
	}
}

var errUnknownCommand = errors.New("unknown command")

func run(command string, args []string) error {
	switch command {
	case "hash-password":
		return runHashPassword(args)
	case "check-sheets":
		return runCheckSheets(args)
	case "flush-cache":
		return runFlushCache(args)
	case "warm-cache":
		return runWarmCache(args)
	case "help", "-h", "--help":
		fmt.Print(usage + "\n")
		return nil
	default:
		fmt.Print(usage + "\n")
		return fmt.Errorf("%w: %s", errUnknownCommand, command)
	}
}

func runHashPassword(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	password := fs.String("password", "", "Password to hash (read from stdin when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password from stdin: %w", err)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	fmt.Println(hash)
	return nil
}

func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, error) {
	envFile := fs.String("env-file", ".env", "Env file read before the environment")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.Log)
	return cfg, nil
}

type sheetCheck struct {
	worksheet portfolio.Worksheet
	rows      int
	cols      int
	err       error
}

func runCheckSheets(args []string) error {
	fs := flag.NewFlagSet("check-sheets", flag.ContinueOnError)
	timeout := fs.Duration("timeout", 2*time.Minute, "Timeout for the whole check")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	reader, err := sheets.NewReader(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to load Google credentials: %w", err)
	}
	source := sheets.NewSource(reader, cfg.Sheets, nil, nil)
	svc := portfolio.NewService(source)

	results := make([]sheetCheck, 0, len(portfolio.Worksheets))
	for _, ws := range portfolio.Worksheets {
		check := sheetCheck{worksheet: ws}
		if df, err := svc.Table(ctx, ws, false); err != nil {
			check.err = err
		} else {
			check.rows, check.cols = df.Nrow(), df.Ncol()
		}
		results = append(results, check)
	}

	failed := 0
	fmt.Printf("\n=== Spreadsheet %s ===\n", cfg.Sheets.SpreadsheetID)
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Printf("  %-16s error: %v\n", r.worksheet, r.err)
			continue
		}
		fmt.Printf("  %-16s %5d rows  %3d columns\n", r.worksheet, r.rows, r.cols)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d worksheets failed", failed, len(results))
	}
	return nil
}

var errNoRedis = errors.New("REDIS_URL not set")

func runFlushCache(args []string) error {
	fs := flag.NewFlagSet("flush-cache", flag.ContinueOnError)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	if cfg.Cache.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set, nothing to flush")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	redis, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redis.Close()

	if err := redis.Invalidate(ctx); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	log.Info().Msg("Cache flushed")
	return nil
}

func runWarmCache(args []string) error {
	fs := flag.NewFlagSet("warm-cache", flag.ContinueOnError)
	timeout := fs.Duration("timeout", 2*time.Minute, "Timeout for the whole refresh")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}

	if cfg.Cache.RedisURL == "" {
		return fmt.Errorf("%w, nothing to warm", errNoRedis)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	reader, err := sheets.NewReader(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to load Google credentials: %w", err)
	}
	redis, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redis.Close()

	refreshed, failed := warm(ctx, sheets.NewSource(reader, cfg.Sheets, redis, nil))
	log.Info().Int("refreshed", refreshed).Int("failed", failed).Msg("Cache warmed")
	if failed > 0 {
		return fmt.Errorf("%d worksheets failed to refresh", failed)
	}
	return nil
}

// refresher reloads one worksheet into the cache.
type refresher interface {
	GID(ws portfolio.Worksheet) (int64, bool)
	Refresh(ctx context.Context, ws portfolio.Worksheet) error
}

// warm refreshes every worksheet with a configured gid, one after another.
func warm(ctx context.Context, source refresher) (refreshed, failed int) {
	for _, ws := range portfolio.Worksheets {
		if _, ok := source.GID(ws); !ok {
			continue
		}
		if err := source.Refresh(ctx, ws); err != nil {
			failed++
			log.Error().Err(err).Str("worksheet", string(ws)).Msg("Refresh failed")
			continue
		}
		refreshed++
	}
	return refreshed, failed
}
