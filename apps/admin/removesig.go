package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computersciencehouse/packet/core/packet"
)

const sigsClosedMsg = "Packet is already closed so its signatures cannot be modified"

type removeSigFunc func(ctx context.Context, tx packet.Tx, id int, username string) error

func (cli *commandLine) removeSigCommand(use, short string, remove removeSigFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PACKET_ID USERNAME",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePacketID(args[0])
			if err != nil {
				return err
			}
			username := args[1]

			err = cli.inTx(cmd.Context(), func(tx packet.Tx) error {
				return remove(cmd.Context(), tx, id, username)
			})
			if err != nil {
				return cli.reportOutcome(err, sigsClosedMsg, id, username)
			}
			fmt.Fprintln(cli.out, "Successfully unsigned packet")
			return nil
		},
	}
}

func (cli *commandLine) removeMemberSigCommand() *cobra.Command {
	return cli.removeSigCommand(
		"remove-member-sig",
		"Unsign an upperclassman signature or delete a misc signature",
		func(ctx context.Context, tx packet.Tx, id int, username string) error {
			return cli.svc.RemoveMemberSignature(ctx, tx, id, username, cli.now())
		},
	)
}

func (cli *commandLine) removeFreshmanSigCommand() *cobra.Command {
	return cli.removeSigCommand(
		"remove-freshman-sig",
		"Unsign a freshman signature",
		func(ctx context.Context, tx packet.Tx, id int, username string) error {
			return cli.svc.RemoveFreshmanSignature(ctx, tx, id, username, cli.now())
		},
	)
}
