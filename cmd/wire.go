package cmd

import (
	"fmt"
	"os"
	"time"

	relaygateway "github.com/bnema/wallet-bridge-cli/internal/adapters/gateway/relay"
	simulatedgateway "github.com/bnema/wallet-bridge-cli/internal/adapters/gateway/simulated"
	statusadapter "github.com/bnema/wallet-bridge-cli/internal/adapters/render/status"
	tomlstore "github.com/bnema/wallet-bridge-cli/internal/adapters/session/toml"
	"github.com/bnema/wallet-bridge-cli/internal/application"
	"github.com/bnema/wallet-bridge-cli/internal/domain"
	"github.com/bnema/wallet-bridge-cli/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	manager        *application.ConnectionManager
	submitter      *application.TransactionSubmitter
	statusRenderer func(application.Status) string
}

func wireApp() (*app, error) {
	store, err := tomlstore.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}

	gateway, err := wireGateway()
	if err != nil {
		return nil, err
	}

	handshakeTimeout := durationOrDefault("WB_HANDSHAKE_TIMEOUT", 2*time.Minute)
	submitTimeout := durationOrDefault("WB_SUBMIT_TIMEOUT", 30*time.Second)

	manager := application.NewConnectionManager(gateway, store, handshakeTimeout)

	return &app{
		manager:        manager,
		submitter:      application.NewTransactionSubmitter(gateway, manager, submitTimeout),
		statusRenderer: statusadapter.Render,
	}, nil
}

func wireGateway() (ports.WalletGateway, error) {
	switch mode := envOrDefault("WB_GATEWAY", "relay"); mode {
	case "relay":
		return &relaygateway.Gateway{
			BaseURL:      envOrDefault("WB_RELAY_URL", "http://127.0.0.1:9464"),
			ProbeTimeout: durationOrDefault("WB_PROBE_TIMEOUT", 3*time.Second),
		}, nil
	case "simulated":
		accountID, err := domain.ParseAccountID(envOrDefault("WB_SIM_ACCOUNT", "0.0.1001"))
		if err != nil {
			return nil, fmt.Errorf("wire simulated gateway: %w", err)
		}

		return simulatedgateway.NewGateway(simulatedgateway.Config{
			Available: true,
			AccountID: accountID,
			Latency:   durationOrDefault("WB_SIM_LATENCY", 0),
		}, ports.SystemClock{}), nil
	default:
		return nil, fmt.Errorf("unknown gateway mode %q", mode)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
