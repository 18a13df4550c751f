package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orand-network/ecvrf/internal/config"
	"github.com/orand-network/ecvrf/internal/storage"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "orand",
	Short: "secp256k1 ECVRF key management and epoch randomness",
	Long: `orand generates VRF keys, proves and verifies VRF outputs, and
produces a chain of per-network epochs where each epoch is seeded by the
output of the previous one.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	defer glog.Flush()
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.orand.yaml)")
	RootCmd.PersistentFlags().String(config.KeyDriver, config.DefaultDriver, "database driver: sqlite3 or mysql")
	RootCmd.PersistentFlags().String(config.KeyDSN, config.DefaultDSN, "database source name")
	RootCmd.PersistentFlags().Int64(config.KeyNetwork, 0, "default network id")
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		glog.Exitf("%v", err)
	}

	// glog registers its flags on the standard flag set.
	RootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	// Silence glog's "logging before flag.Parse" warning.
	if err := flag.CommandLine.Parse([]string{}); err != nil {
		glog.Exitf("%v", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("orand")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			glog.Exitf("Failed reading config file: %v: %v", viper.ConfigFileUsed(), err)
		}
	} else {
		viper.SetConfigName(".orand")
		viper.AddConfigPath("$HOME")
		if err := viper.ReadInConfig(); err == nil {
			glog.V(1).Infof("Using config file: %v", viper.ConfigFileUsed())
		}
	}
}

// openStore opens and migrates the configured database.
func openStore(ctx context.Context) (*storage.Store, *config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	store := storage.New(db, cfg.Driver)
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, cfg, nil
}

func decodeHexFlag(name, value string) ([]byte, error) {
	b, err := decodeHex(value)
	if err != nil {
		return nil, fmt.Errorf("--%v: %v", name, err)
	}
	return b, nil
}
