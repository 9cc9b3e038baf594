package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"greenlight/internal/config"
	"greenlight/internal/dispatch"
	"greenlight/internal/logging"
	"greenlight/internal/queue"
)

// Daemon coordinates the background services and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *queue.Store
	dispatcher *dispatch.Dispatcher
	apiServer  *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, dispatcher *dispatch.Dispatcher, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || dispatcher == nil {
		return nil, errors.New("daemon requires config, store, and dispatcher")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "greenlightd.lock")
	d := &Daemon{
		cfg:        cfg,
		logger:     logging.WithComponent(logger, "daemon"),
		store:      store,
		dispatcher: dispatcher,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}

	server, err := newAPIServer(cfg, store, logger)
	if err != nil {
		return nil, err
	}
	d.apiServer = server
	return d, nil
}

// Start acquires the daemon lock and launches the API server and dispatcher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another greenlight daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if d.apiServer != nil {
		if err := d.apiServer.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return err
		}
	}

	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		d.dispatcher.Run(d.ctx)
	}()

	d.running.Store(true)
	d.logger.Info("greenlight daemon started", slog.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.apiServer != nil {
		d.apiServer.stop()
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.String("error", err.Error()))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("greenlight daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the daemon is started.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// APIAddr returns the bound API address, empty until Start succeeds.
func (d *Daemon) APIAddr() string {
	if d.apiServer == nil {
		return ""
	}
	return d.apiServer.addr()
}

// LockFilePath returns the single-instance lock location.
func (d *Daemon) LockFilePath() string {
	return d.lockPath
}
