package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"crypto-quote-service/internal/application/services"
	"crypto-quote-service/internal/domain/entities"
	"crypto-quote-service/internal/infrastructure/config"
	"crypto-quote-service/internal/infrastructure/logging"
	"crypto-quote-service/internal/infrastructure/repositories/kvstore"
)

const usage = `usage: apikey <command> [flags]

commands:
  create  -label <text>   create a new enabled API key
  show    -key <key>      print a stored API key and its usage in the current window
  disable -key <key>      reject the key from now on
  enable  -key <key>      accept a disabled key again
`

var errUsage = errors.New("invalid usage")

func main() {
	_ = godotenv.Load()

	environment := config.GetEnvironment()
	cfg, err := config.NewLoader().LoadForEnvironment(environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Solo errores: la salida estándar es para el resultado del comando
	loggerConfig := logging.NewConfig("crypto-quote-apikey", "1.0.0", environment).
		WithLevel(logging.LevelError).
		WithOutput(os.Stderr)
	if err := logging.InitializeGlobalLoggers(loggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		os.Exit(1)
	}

	if cfg.Store.Backend == string(kvstore.BackendMemory) {
		fmt.Fprintln(os.Stderr, "warning: store backend is memory, keys will not outlive this process")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := kvstore.NewFactory().CreateStore(ctx, kvstore.Config{
		Backend:     kvstore.Backend(cfg.Store.Backend),
		Addr:        cfg.Store.Redis.Addr,
		Password:    cfg.Store.Redis.Password,
		DB:          cfg.Store.Redis.DB,
		PoolSize:    2,
		MaxRetries:  cfg.Store.Redis.MaxRetries,
		DialTimeout: cfg.Store.Redis.DialTimeout,
		ReadTimeout: cfg.Store.Redis.ReadTimeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	credentials := kvstore.NewCredentialRepository(store)
	provisioner := services.NewCredentialProvisioner(credentials)
	limiter := services.NewAuthRateLimiter(credentials, kvstore.NewQuotaRepository(store), services.QuotaConfig{
		Limit:      int64(cfg.RateLimit.Limit),
		Window:     cfg.RateLimit.Window,
		CounterTTL: cfg.Store.QuotaTTL,
	})
	if err := run(ctx, os.Args[1:], provisioner, limiter, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "apikey: %v\n", err)
		os.Exit(1)
	}
}

// usageReader lee el contador de cuota de la ventana actual
type usageReader interface {
	Usage(ctx context.Context, keyID string) (*entities.QuotaCounter, error)
}

// credentialView es lo que imprime el CLI
type credentialView struct {
	Key       string     `json:"key"`
	Label     string     `json:"label,omitempty"`
	Enabled   bool       `json:"enabled"`
	CreatedAt string     `json:"createdAt"`
	Quota     *quotaView `json:"quota,omitempty"`
}

type quotaView struct {
	Bucket  string `json:"bucket"`
	Count   int64  `json:"count"`
	Limit   int64  `json:"limit"`
	ResetAt string `json:"resetAt"`
}

func run(ctx context.Context, args []string, provisioner *services.CredentialProvisioner, usage usageReader, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	command, rest := args[0], args[1:]
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	label := fs.String("label", "", "free text describing the key owner")
	key := fs.String("key", "", "API key to act on")
	if err := fs.Parse(rest); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var (
		credential *entities.Credential
		err        error
	)
	switch command {
	case "create":
		credential, err = provisioner.Create(ctx, *label)
	case "show", "disable", "enable":
		if *key == "" {
			return fmt.Errorf("%w: -key is required", errUsage)
		}
		switch command {
		case "show":
			credential, err = provisioner.Show(ctx, *key)
		case "disable":
			credential, err = provisioner.Disable(ctx, *key)
		default:
			credential, err = provisioner.Enable(ctx, *key)
		}
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
	if err != nil {
		if services.IsNotFound(err) {
			return fmt.Errorf("no such API key %s", entities.MaskKey(*key))
		}
		return err
	}

	view := credentialView{
		Key:       credential.KeyID,
		Label:     credential.Label,
		Enabled:   credential.Enabled,
		CreatedAt: credential.CreatedAt.UTC().Format(time.RFC3339),
	}
	if command == "show" && usage != nil {
		counter, err := usage.Usage(ctx, credential.KeyID)
		if err != nil {
			return fmt.Errorf("read quota usage: %w", err)
		}
		view.Quota = &quotaView{
			Bucket:  counter.Bucket,
			Count:   counter.Count,
			Limit:   counter.Limit,
			ResetAt: counter.ResetAt.UTC().Format(time.RFC3339),
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
