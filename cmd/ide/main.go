package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ojide/internal/ide/config"
	"ojide/internal/ide/repl"
	"ojide/internal/ide/store"
	"ojide/pkg/utils/logger"
)

const (
	defaultConfigPath  = "configs/ide.yaml"
	defaultHistoryPath = ".ojide_history"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	backend := flag.String("backend", "", "Override judge backend (judge0 or oj)")
	baseURL := flag.String("base", "", "Override base URL")
	timeout := flag.Duration("timeout", 0, "Override HTTP timeout (e.g. 10s)")
	interval := flag.Duration("interval", 0, "Override poll interval (e.g. 1.5s)")
	language := flag.String("lang", "", "Start with this language")
	statePath := flag.String("state", "", "Override preference file path")
	history := flag.String("history", defaultHistoryPath, "Line editor history file, empty to disable")
	logLevel := flag.String("log-level", "", "Override log level")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "load env failed: %v\n", err)
		return
	}

	path := *configPath
	if _, err := os.Stat(path); os.IsNotExist(err) && path == defaultConfigPath {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return
	}
	if *backend != "" {
		cfg = cfg.WithBackend(*backend)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *interval > 0 {
		cfg.Poll.Interval = *interval
	}
	if *statePath != "" {
		cfg.Store.Driver = store.DriverFile
		cfg.Store.Path = *statePath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return
	}

	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	st := store.Open(cfg.Store)
	defer func() {
		_ = store.Close(st)
	}()

	_, backendFromEnv := os.LookupEnv(config.EnvBackend)
	session := repl.New(cfg, st, repl.Options{
		Out:            os.Stdout,
		HistoryFile:    *history,
		RestoreBackend: *backend == "" && !backendFromEnv,
	})
	if *language != "" {
		if err := session.HandleLine(context.Background(), "lang "+*language); err != nil {
			fmt.Fprintf(os.Stderr, "select language failed: %v\n", err)
		}
	}
	if err := session.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
