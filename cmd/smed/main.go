package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wlanstack/sme/internal/adapters/control"
	"github.com/wlanstack/sme/internal/adapters/simdriver"
	"github.com/wlanstack/sme/internal/config"
	"github.com/wlanstack/sme/internal/core/domain"
	"github.com/wlanstack/sme/internal/core/engine"
	"github.com/wlanstack/sme/internal/core/sme"
	"github.com/wlanstack/sme/internal/telemetry"
)

func main() {
	// Setup Structured Logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	// Initialize Tracing
	shutdownTracer, err := telemetry.InitTracer()
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				slog.Error("Failed to shutdown tracer", "error", err)
			}
		}()
	}
	telemetry.InitMetrics()

	if err := run(cfg); err != nil {
		slog.Error("smed terminated", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if !cfg.MockMode {
		// The netlink MLME transport lives in the product tree; this
		// binary only ships the simulated driver.
		return errors.New("no driver transport configured, run with -mock")
	}

	addr, err := domain.ParseMAC(cfg.MacAddr)
	if err != nil {
		return err
	}

	dev := domain.DeviceInfo{
		Addr:  addr,
		Iface: cfg.Iface,
		Bands: []domain.BandCapability{
			{
				Band:     domain.Band2GHz,
				Rates:    []uint8{0x82, 0x84, 0x8b, 0x96, 0x0c, 0x12, 0x18, 0x24},
				Channels: []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
			},
			{
				Band:     domain.Band5GHz,
				Rates:    []uint8{0x8c, 0x12, 0x18, 0x24, 0x30, 0x48, 0x60, 0x6c},
				Channels: []uint8{36, 40, 44, 48, 149, 153, 157, 161},
			},
		},
	}

	driver := simdriver.New([]domain.BSSDescription{
		{BSSID: domain.MustParseMAC("aa:bb:cc:00:00:01"), SSID: "lab", Channel: 36, RSSI: -42},
		{BSSID: domain.MustParseMAC("aa:bb:cc:00:00:02"), SSID: "lab", Channel: 6, RSSI: -58},
		{BSSID: domain.MustParseMAC("aa:bb:cc:00:00:03"), SSID: "guest", Channel: 149, RSSI: -70},
	})
	defer driver.Close()

	srv := control.NewServer(cfg.Addr)
	statsQueries := make(chan domain.StatsQuery)

	eng := engine.New(
		driver, dev, sme.Factory,
		driver.Events(), srv.Endpoints(), statsQueries,
		engine.WithMaxInflight(cfg.MaxInflight),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("smed starting", "addr", cfg.Addr, "iface", cfg.Iface, "mock", cfg.MockMode)

	errc := make(chan error, 2)
	go func() { errc <- srv.Run(ctx) }()
	go func() { errc <- eng.Serve(ctx) }()
	go logStats(ctx, statsQueries)

	err = <-errc
	cancel()
	<-errc

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// logStats periodically queries the engine's read-only statistics.
func logStats(ctx context.Context, queries chan<- domain.StatsQuery) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reply := make(chan domain.Stats, 1)
			select {
			case queries <- domain.StatsQuery{Reply: reply}:
			case <-ctx.Done():
				return
			}
			select {
			case stats := <-reply:
				slog.Info("sme stats",
					"driver_events", stats.DriverEvents,
					"scans", stats.ScansCompleted,
					"joins", stats.JoinsCompleted,
					"pending", stats.PendingTokens,
				)
			case <-ctx.Done():
				return
			}
		}
	}
}
