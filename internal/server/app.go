// Package server initializes and runs the certificate relay server: it wires
// the database, the chain client and the relay components, and handles
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/certledger/internal/logging"
	"github.com/dmitrijs2005/certledger/internal/server/certificates"
	"github.com/dmitrijs2005/certledger/internal/server/config"
	"github.com/dmitrijs2005/certledger/internal/server/httpapi"
	"github.com/dmitrijs2005/certledger/internal/server/institutes"
	"github.com/dmitrijs2005/certledger/internal/server/ledger"
	"github.com/dmitrijs2005/certledger/internal/server/relay"
	"github.com/dmitrijs2005/certledger/internal/server/shared/db"
	"github.com/dmitrijs2005/certledger/internal/server/students"
)

func gweiToWei(gwei int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(gwei), big.NewInt(1_000_000_000))
}

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	chain, err := ledger.NewClient(ctx, ledger.ClientOptions{
		RPCURL:            cfg.RPCURL,
		ContractAddress:   cfg.ContractAddress,
		RelayerKeyHex:     cfg.RelayerPrivateKey,
		MaxPriorityFeeWei: gweiToWei(cfg.MaxPriorityFeeGwei),
		MaxFeeWei:         gweiToWei(cfg.MaxFeeGwei),
		ConfirmTimeout:    cfg.ConfirmTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("chain client init error: %w", err)
	}

	instituteService := institutes.NewService(rm.Institutes(), cfg, logger)
	studentService := students.NewService(rm.Students())
	certificateService := certificates.NewService(rm.Certificates(), logger)

	guard := relay.NewGuard(chain, logger)
	executor := relay.NewExecutor(chain, logger)
	coordinator := relay.NewCoordinator(executor, studentService, certificateService, logger)

	api := httpapi.NewServer(cfg, logger,
		instituteService, studentService, certificateService,
		guard, executor, coordinator, chain)

	return &App{config: cfg, logger: logger, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.api.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
