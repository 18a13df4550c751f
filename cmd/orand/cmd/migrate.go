package cmd

import (
	"context"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the keyring and randomness tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, cfg, err := openStore(context.Background())
		if err != nil {
			return err
		}
		glog.Infof("migrated %v database", cfg.Driver)
		return store.Close()
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
