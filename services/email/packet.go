package emailsvc

import (
	"context"
	"net/mail"
	"time"

	"github.com/computersciencehouse/packet/core"
	"github.com/computersciencehouse/packet/core/packet"
)

const (
	ritDomain     = "rit.edu"
	mailDateFmt   = "Monday, January 2 at 3:04 PM"
	startTemplate = "packet_start"
)

// PacketMailer sends packet emails through an EmailService.
type PacketMailer struct {
	svc       core.EmailService
	packetURL string
	loc       *time.Location
}

var _ packet.Mailer = (*PacketMailer)(nil)

func NewPacketMailer(svc core.EmailService, packetURL string, loc *time.Location) *PacketMailer {
	if loc == nil {
		loc = time.Local
	}
	return &PacketMailer{svc: svc, packetURL: packetURL, loc: loc}
}

type startPacketData struct {
	Name  string
	Start string
	End   string
	URL   string
}

func (m *PacketMailer) SendStartPacketMail(ctx context.Context, p packet.Packet, f packet.Freshman) error {
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: f.Name, Address: f.Username + "@" + ritDomain}},
		Subject:      "Your Packet Begins",
		TemplateName: startTemplate,
		TemplateData: startPacketData{
			Name:  f.Name,
			Start: p.Start.In(m.loc).Format(mailDateFmt),
			End:   p.End.In(m.loc).Format(mailDateFmt),
			URL:   m.packetURL + "/packet/" + f.Username + "/",
		},
	}
	return m.svc.Send(ctx, msg)
}
