package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"chronos/internal/config"
	appLog "chronos/internal/log"
)

const version = "0.1.0"

func main() {
	// Load .env first; a missing file is fine.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		appLog.Error("chronos failed", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "chronos",
		Usage:   "Compile timeline text into items, markers, groups and flags.",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "./chronos.yaml",
				EnvVars: []string{"CHRONOS_CONFIG"},
				Usage:   "Path to config file (created with defaults if missing)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Usage:   "debug, info, warn or error (overrides config)",
			},
			&cli.StringFlag{
				Name:  "locale",
				Usage: "Locale code (overrides config)",
			},
		},
		Before: loadConfig,
		Commands: []*cli.Command{
			parseCommand(),
			scanCommand(),
			normalizeCommand(),
			formatCommand(),
			localesCommand(),
			exportCommand(),
			importCommand(),
			serveCommand(),
		},
	}
}

// loadConfig resolves the effective configuration once and stores it in
// the app metadata for the commands.
func loadConfig(c *cli.Context) error {
	path := c.String("config")
	conf, err := config.Load(path)
	if err != nil {
		return err
	}

	if lvl := c.String("log-level"); lvl != "" {
		conf.LogLevel = lvl
	}
	if loc := c.String("locale"); loc != "" {
		conf.Locale = loc
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Debug("effective config",
		"config_path", path,
		"locale", conf.Locale,
		"known_locales", len(conf.KnownLocales),
		"listen", conf.Listen,
		"cache_ttl_seconds", conf.CacheTTLSeconds,
		"cache_purge", conf.CachePurge,
	)

	c.App.Metadata["config"] = conf
	return nil
}

func configFrom(c *cli.Context) (*config.Config, error) {
	conf, ok := c.App.Metadata["config"].(*config.Config)
	if !ok {
		return nil, errors.New("config not loaded")
	}
	return conf, nil
}
