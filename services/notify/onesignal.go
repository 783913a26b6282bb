package notifysvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/computersciencehouse/packet/core"
	"github.com/computersciencehouse/packet/core/packet"
)

const (
	seasonSegment = "Total Subscriptions"
	startDateFmt  = "Monday, January 2 at 3:04 PM"
)

var newIdempotencyKey = func() string { return uuid.NewString() }

type (
	// OneSignalNotifier pushes packet notifications through the OneSignal REST API.
	OneSignalNotifier struct {
		appID     string
		apiKey    string
		url       string
		packetURL string
		loc       *time.Location
		client    *http.Client
	}

	notification struct {
		AppID            string              `json:"app_id"`
		IdempotencyKey   string              `json:"idempotency_key"`
		TargetChannel    string              `json:"target_channel"`
		Headings         map[string]string   `json:"headings"`
		Contents         map[string]string   `json:"contents"`
		URL              string              `json:"url,omitempty"`
		IncludedSegments []string            `json:"included_segments,omitempty"`
		IncludeAliases   map[string][]string `json:"include_aliases,omitempty"`
	}
)

var _ packet.Notifier = (*OneSignalNotifier)(nil)

func NewOneSignalNotifier(conf core.NotifyConfig, packetURL string, loc *time.Location) *OneSignalNotifier {
	if loc == nil {
		loc = time.Local
	}
	return &OneSignalNotifier{
		appID:     conf.OneSignalAppID,
		apiKey:    conf.OneSignalAPIKey,
		url:       conf.URL,
		packetURL: packetURL,
		loc:       loc,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// New returns the OneSignal notifier when an API key is configured, the console one otherwise.
func New(conf core.NotifyConfig, packetURL string, loc *time.Location, logger core.Logger) packet.Notifier {
	if conf.OneSignalAPIKey == "" {
		return NewConsoleNotifier(logger, loc)
	}
	return NewOneSignalNotifier(conf, packetURL, loc)
}

func packetStartingMessage() (heading, content string) {
	return "Your packet has begun!", "Log into your packet, and get started meeting people!"
}

func packetsStartingMessage(start time.Time, loc *time.Location) (heading, content string) {
	return "Packet starts soon!", fmt.Sprintf("Packets start %s in the Lounge!", start.In(loc).Format(startDateFmt))
}

func (n *OneSignalNotifier) PacketStarting(ctx context.Context, p packet.Packet) error {
	heading, content := packetStartingMessage()
	return n.send(ctx, notification{
		Headings:       map[string]string{"en": heading},
		Contents:       map[string]string{"en": content},
		URL:            n.packetURL + "/packet/" + p.FreshmanUsername + "/",
		IncludeAliases: map[string][]string{"external_id": {p.FreshmanUsername}},
	})
}

func (n *OneSignalNotifier) PacketsStarting(ctx context.Context, start time.Time) error {
	heading, content := packetsStartingMessage(start, n.loc)
	return n.send(ctx, notification{
		Headings:         map[string]string{"en": heading},
		Contents:         map[string]string{"en": content},
		URL:              n.packetURL,
		IncludedSegments: []string{seasonSegment},
	})
}

func (n *OneSignalNotifier) send(ctx context.Context, notif notification) error {
	notif.AppID = n.appID
	notif.TargetChannel = "push"
	notif.IdempotencyKey = newIdempotencyKey()

	body, err := json.Marshal(notif)
	if err != nil {
		return errors.Wrap(err, "encoding notification")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building notification request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending notification")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return errors.Errorf("sending notification - status: %d - body: %s", resp.StatusCode, msg)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
