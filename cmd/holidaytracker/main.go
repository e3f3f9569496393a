package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holidaytracker/internal/cache"
	"holidaytracker/internal/config"
	"holidaytracker/internal/ics"
	appLog "holidaytracker/internal/log"
	"holidaytracker/internal/nager"
	"holidaytracker/internal/query"
	"holidaytracker/internal/shell"
)

// trackedYears are loaded once at startup and never refreshed.
var trackedYears = []int{2023, 2024, 2025}

type flagConfig struct {
	configPath string
	initConfig bool
	exportICS  string
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	if level, ok := appLog.ParseLevel(conf.LogLevel); ok {
		appLog.SetLevel(level)
	}

	if flags.initConfig {
		if err := conf.Save(flags.configPath); err != nil {
			appLog.Error("failed to write config", err, "config_path", flags.configPath)
			os.Exit(1)
		}
		fmt.Printf("config written to %s\n", flags.configPath)
		return
	}

	appLog.Info("holidaytracker starting",
		"version", config.Version,
		"user_agent", conf.UserAgent,
		"api_base_url", conf.APIBaseURL,
		"country", nager.CountryCode,
		"timeout", conf.Timeout().String(),
		"parallel_fetch", conf.ParallelFetch,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	client := nager.NewClient(nager.Options{
		BaseURL:   conf.APIBaseURL,
		Timeout:   conf.Timeout(),
		UserAgent: conf.UserAgent,
		Parallel:  conf.ParallelFetch,
	})

	years := cache.New()
	cache.Load(ctx, years, client, trackedYears, os.Stdout)
	appLog.Info("holidays loaded", "years", len(years.Years()), "total", years.Len())

	if flags.exportICS != "" {
		res, err := ics.WriteFile(flags.exportICS, years.All(), time.Now())
		if err != nil {
			appLog.Error("ics export failed", err, "path", flags.exportICS)
			os.Exit(1)
		}
		fmt.Printf("%s yazıldı. (%d etkinlik)\n", flags.exportICS, res.Events)
		return
	}

	sh := shell.New(query.New(years), os.Stdin, os.Stdout, shell.WithEcho(!shell.IsTerminal(os.Stdin)))
	if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLog.Error("shell stopped", err)
		os.Exit(1)
	}

	appLog.Info("holidaytracker exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to YAML config file (optional)")
	flag.BoolVar(&cfg.initConfig, "init-config", false, "Write the default config to -config and exit")
	flag.StringVar(&cfg.exportICS, "export-ics", "", "Write loaded holidays to this .ics file and exit")

	flag.Parse()

	if cfg.initConfig && cfg.configPath == "" {
		fmt.Fprintln(os.Stderr, "-init-config requires -config")
		os.Exit(2)
	}

	return cfg
}
