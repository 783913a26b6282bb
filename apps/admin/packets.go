package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computersciencehouse/packet/core/packet"
)

func (cli *commandLine) createPacketsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-packets CSV_FILE",
		Short: "Open a packet for every freshman of a roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cli.out, "WARNING: The 'sync-freshmen' command must be run first to ensure that the state of floor is up to date.")
			ok, err := cli.prompt.confirm("Continue?")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			day, err := cli.prompt.date("Input the first day of packet season", cli.season())
			if err != nil {
				return err
			}
			start, end := cli.season().Window(day)

			roster, err := cli.readRoster(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cli.out, "Fetching data from LDAP...")
			err = cli.inTx(cmd.Context(), func(tx packet.Tx) error {
				report, err := cli.svc.CreatePackets(cmd.Context(), tx, roster, start, end)
				if err != nil {
					return err
				}
				for _, username := range report.Skipped {
					cli.logger.Warn("no freshman record for " + username + "; run sync-freshmen first")
				}
				cli.logger.Info(fmt.Sprintf(
					"%d packets created with %d upperclassmen", len(report.Packets), report.Upperclass,
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
