package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/computersciencehouse/packet/core/packet"
)

func (cli *commandLine) readRoster(path string) (packet.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return packet.Roster{}, errors.Wrap(err, "opening roster")
	}
	defer f.Close()

	fmt.Fprintln(cli.out, "Parsing file...")
	roster, err := packet.ParseRoster(f)
	if err != nil {
		fmt.Fprintln(cli.out, "Failure while parsing CSV")
		return packet.Roster{}, err
	}
	return roster, nil
}

func (cli *commandLine) syncFreshmenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-freshmen CSV_FILE",
		Short: "Update the freshmen and their floor status from a roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := cli.readRoster(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cli.out, "Syncing contents with the DB...")
			err = cli.inTx(cmd.Context(), func(tx packet.Tx) error {
				report, err := cli.svc.SyncFreshmen(cmd.Context(), tx, roster, cli.now())
				if err != nil {
					return err
				}
				cli.logger.Info(fmt.Sprintf(
					"freshmen synced: %d added, %d updated, %d departed, %d packets reconciled",
					report.Added, report.Updated, report.Departed, report.PacketsReconciled,
				))
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, "Done!")
			return nil
		},
	}
}
