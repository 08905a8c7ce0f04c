package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crisp-im/crisp-bridge/internal/bridge"
	"github.com/crisp-im/crisp-bridge/internal/config"
	"github.com/crisp-im/crisp-bridge/internal/gateway"
	"github.com/crisp-im/crisp-bridge/internal/notification"
	"github.com/crisp-im/crisp-bridge/internal/sdk"
	"github.com/crisp-im/crisp-bridge/internal/sdk/loopback"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("crispbridge v%s\n", version)
	case "init":
		if err := initConfig(); err != nil {
			slog.Error("fatal", "error", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(); err != nil {
			slog.Error("fatal", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("crispbridge - Crisp chat bridge gateway")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  crispbridge serve     Start the bridge gateway")
	fmt.Println("  crispbridge init      Write a starter config file")
	fmt.Println("  crispbridge version   Show version info")
}

func initConfig() error {
	path := config.Path()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	if err := config.CreateFromExample(path); err != nil {
		return err
	}
	fmt.Printf("config written to %s\n", path)
	return nil
}

func capabilitiesFor(platform string) (sdk.Capabilities, error) {
	switch platform {
	case "android":
		return sdk.AndroidCapabilities, nil
	case "apple":
		return sdk.AppleCapabilities, nil
	default:
		return sdk.Capabilities{}, fmt.Errorf("unknown platform %q", platform)
	}
}

func serve() error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	home := config.ResolveHome()
	slog.Info("crispbridge starting", "version", version, "home", home)

	cfgPath := config.ResolveConfigPath("")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Warn("config not found, using defaults", "path", cfgPath, "error", err)
		cfg = config.DefaultConfig()
	}
	config.Set(cfg)

	caps, err := capabilitiesFor(cfg.Crisp.Platform)
	if err != nil {
		return err
	}

	client := loopback.New(caps)
	conns := gateway.NewConnManager()
	module := bridge.New(client, conns.Broadcast, cfg.Crisp.Notifications.Mode)
	if err := module.Attach(); err != nil {
		return err
	}
	defer module.Detach()

	module.SetLogLevel(cfg.Crisp.LogLevel)
	if cfg.Crisp.WebsiteID != "" {
		if err := module.Configure(cfg.Crisp.WebsiteID); err != nil {
			slog.Warn("initial configure failed", "error", err)
		}
	}

	refresher := notification.NewRefreshScheduler(module.Registrar())
	if err := refresher.Schedule(cfg.Crisp.Notifications.RefreshSchedule); err != nil {
		slog.Warn("invalid refresh schedule", "schedule", cfg.Crisp.Notifications.RefreshSchedule, "error", err)
	}
	refresher.Start()
	defer refresher.Stop()

	// Hot-reload: a changed website id reconfigures the session in place.
	config.RegisterOnReload(func(next *config.Config) {
		module.SetLogLevel(next.Crisp.LogLevel)
		if next.Crisp.WebsiteID != "" && next.Crisp.WebsiteID != cfg.Crisp.WebsiteID {
			if err := module.Configure(next.Crisp.WebsiteID); err != nil {
				slog.Warn("reconfigure failed", "error", err)
			}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutdown signal received", "signal", sig)
		cancel()
	}()

	go config.Watch(ctx)

	srv := gateway.NewServer(cfg, module, conns)
	return srv.Start(ctx)
}
