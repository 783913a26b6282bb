package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/computersciencehouse/packet/core/packet"
)

func parsePacketID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid packet id %q", s)
	}
	return id, nil
}

// reportOutcome prints the message of a business outcome; other errors are returned as is.
func (cli *commandLine) reportOutcome(err error, closedMsg string, id int, username string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, packet.ErrPacketClosed):
		fmt.Fprintln(cli.out, closedMsg)
	case errors.Is(err, packet.ErrSignatureNotFound):
		fmt.Fprintln(cli.out, "Failed to unsign packet; could not find signature")
	case errors.Is(err, packet.ErrNotOnFloor):
		fmt.Fprintf(cli.out, "Failed to unsign packet; %s is not an onfloor\n", username)
	case errors.Is(err, packet.ErrPacketNotFound):
		return errors.Errorf("packet #%d does not exist", id)
	default:
		return err
	}
	return nil
}

func (cli *commandLine) extendPacketCommand() *cobra.Command {
	const closedMsg = "Packet is already closed so it cannot be extended"

	return &cobra.Command{
		Use:   "extend-packet PACKET_ID",
		Short: "Move the end date of an open packet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePacketID(args[0])
			if err != nil {
				return err
			}

			var p *packet.Packet
			err = cli.inTx(cmd.Context(), func(tx packet.Tx) (err error) {
				p, err = cli.svc.OpenPacket(cmd.Context(), tx, id, cli.now())
				return err
			})
			if err != nil {
				return cli.reportOutcome(err, closedMsg, id, "")
			}

			fmt.Fprintf(cli.out, "Ready to extend packet #%d for %s\n", p.ID, p.FreshmanUsername)
			day, err := cli.prompt.date("Enter the new end date for this packet", cli.season())
			if err != nil {
				return err
			}
			newEnd := cli.season().EndOn(day)

			err = cli.inTx(cmd.Context(), func(tx packet.Tx) error {
				return cli.svc.ExtendPacket(cmd.Context(), tx, id, newEnd, cli.now())
			})
			if err != nil {
				return cli.reportOutcome(err, closedMsg, id, "")
			}
			fmt.Fprintln(cli.out, "Packet successfully extended")
			return nil
		},
	}
}
