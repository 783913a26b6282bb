package notifysvc

import (
	"context"
	"time"

	"github.com/computersciencehouse/packet/core"
	"github.com/computersciencehouse/packet/core/packet"
)

// ConsoleNotifier logs notifications instead of pushing them.
type ConsoleNotifier struct {
	logger core.Logger
	loc    *time.Location
}

var _ packet.Notifier = (*ConsoleNotifier)(nil)

func NewConsoleNotifier(logger core.Logger, loc *time.Location) *ConsoleNotifier {
	if loc == nil {
		loc = time.Local
	}
	return &ConsoleNotifier{logger: logger, loc: loc}
}

func (n *ConsoleNotifier) PacketStarting(_ context.Context, p packet.Packet) error {
	heading, content := packetStartingMessage()
	n.logger.Info("notification: "+heading, map[string]interface{}{"to": p.FreshmanUsername, "content": content})
	return nil
}

func (n *ConsoleNotifier) PacketsStarting(_ context.Context, start time.Time) error {
	heading, content := packetsStartingMessage(start, n.loc)
	n.logger.Info("notification: "+heading, map[string]interface{}{"to": seasonSegment, "content": content})
	return nil
}
