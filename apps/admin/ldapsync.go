package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computersciencehouse/packet/core/packet"
)

func (cli *commandLine) ldapSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ldap-sync",
		Short: "Update the upperclassmen signatures of open packets from LDAP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cli.out, "Fetching data from LDAP...")
			err := cli.inTx(cmd.Context(), func(tx packet.Tx) error {
				report, err := cli.svc.SyncDirectory(cmd.Context(), tx, cli.now())
				if err != nil {
					return err
				}
				cli.logger.Info(fmt.Sprintf(
					"%d packets synced: %d refreshed, %d demoted, %d moved to misc, %d reactivated, %d added",
					report.Packets, report.Refreshed, report.Demoted, report.MovedToMisc, report.Reactivated, report.Added,
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
