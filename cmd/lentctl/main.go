package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type config struct {
	ServerURL string `env:"LENT_SERVER_URL" envDefault:"http://localhost:80"`
	Token     string `env:"LENT_TOKEN"`
	Secret    string `env:"SECRET"`
	Verbose   bool   `env:"LENT_VERBOSE" envDefault:"false"`
}

func loadConfig() (*config, error) {
	conf := &config{}
	if err := env.Parse(conf); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return conf, nil
}

func newLogger(conf *config) *zap.SugaredLogger {
	if !conf.Verbose {
		return zap.NewNop().Sugar()
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "lentctl",
		Short:         "Command line client for the Lent tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(feedCmd())
	rootCmd.AddCommand(completeCmd())
	rootCmd.AddCommand(completeSeriesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
