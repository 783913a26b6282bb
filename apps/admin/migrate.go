package main

import (
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/computersciencehouse/packet/storage/database"
)

var gooseRunFunc = goose.RunContext // mockable

func (cli *commandLine) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run database migrations (up, down, status, version, ...)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errHelp
			}
			dir, err := database.Goose(cli.conf.Database.Engine)
			if err != nil {
				return err
			}
			sqlDB, err := cli.db.DB()
			if err != nil {
				return errors.Wrap(err, "migrating database")
			}
			return gooseRunFunc(cmd.Context(), args[0], sqlDB, dir, args[1:]...)
		},
	}
}
