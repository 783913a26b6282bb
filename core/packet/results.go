package packet

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// DefaultRequiredMisc is the number of misc signatures a packet needs by default.
const DefaultRequiredMisc = 15

type (
	Counts struct {
		Upper       int
		Fresh       int
		Misc        int
		MemberTotal int
		Total       int
	}

	// Scorer computes the required and received signature counts of a packet.
	Scorer interface {
		Score(p Packet, sigs *Signatures) (required, received Counts)
	}

	// FlatScorer counts every signature as one. Received misc signatures and the
	// received member total never exceed what is required.
	FlatScorer struct {
		RequiredMisc int
	}

	Result struct {
		Packet   Packet
		Freshman Freshman
		Required Counts
		Received Counts
	}
)

var _ Scorer = FlatScorer{}

func (s FlatScorer) Score(_ Packet, sigs *Signatures) (required, received Counts) {
	required.Upper = len(sigs.Upper)
	required.Fresh = len(sigs.Fresh)
	required.Misc = s.RequiredMisc
	required.MemberTotal = required.Upper + required.Misc
	required.Total = required.MemberTotal + required.Fresh

	for _, sig := range sigs.Upper {
		if sig.Signed {
			received.Upper++
		}
	}
	for _, sig := range sigs.Fresh {
		if sig.Signed {
			received.Fresh++
		}
	}
	received.Misc = min(len(sigs.Misc), required.Misc)
	received.MemberTotal = min(received.Upper+received.Misc, required.MemberTotal)
	received.Total = received.MemberTotal + received.Fresh
	return required, received
}

// Percent returns received/required as a percentage; nothing required counts as complete.
func Percent(received, required int) float64 {
	if required == 0 {
		return 100
	}
	return float64(received) / float64(required) * 100
}

func (r Result) UpperScore() float64 { return Percent(r.Received.MemberTotal, r.Required.MemberTotal) }
func (r Result) TotalScore() float64 { return Percent(r.Received.Total, r.Required.Total) }
func (r Result) Missed() int         { return r.Required.Total - r.Received.Total }

// Results scores every packet ending on the calendar `day`, ordered by freshman username.
func (svc *Service) Results(ctx context.Context, tx Tx, day time.Time) ([]Result, error) {
	from, to := svc.season.DayRange(day)
	packets, err := tx.PacketsEndingBetween(from, to)
	if err != nil {
		return nil, errors.Wrap(err, "listing packets")
	}

	usernames := make([]string, 0, len(packets))
	for _, p := range packets {
		usernames = append(usernames, p.FreshmanUsername)
	}
	freshmen, err := tx.FreshmenByUsernames(usernames)
	if err != nil {
		return nil, errors.Wrap(err, "loading freshmen")
	}
	byUsername := make(map[string]Freshman, len(freshmen))
	for _, f := range freshmen {
		byUsername[f.Username] = f
	}

	results := make([]Result, 0, len(packets))
	for _, p := range packets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sigs, err := tx.Signatures(p.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "loading signatures of packet %d", p.ID)
		}
		f, ok := byUsername[p.FreshmanUsername]
		if !ok {
			f = Freshman{Username: p.FreshmanUsername}
		}
		required, received := svc.scorer.Score(p, sigs)
		results = append(results, Result{Packet: p, Freshman: f, Required: required, Received: received})
	}
	return results, nil
}
