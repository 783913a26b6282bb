// Package directory describes the member directory packet data is synced from.
package directory

import (
	"context"
	"sort"

	"github.com/pkg/errors"
)

type (
	// Member is a directory account.
	Member struct {
		UID    string
		Name   string
		Groups []string
	}

	// Service is any service that can answer membership questions about the directory.
	Service interface {
		ActiveMembers(ctx context.Context) ([]Member, error)
		IsIntroMember(ctx context.Context, m Member) (bool, error)
		IsOnCoop(ctx context.Context, m Member) (bool, error)
		// EboardRole returns the member's eboard position name, or "" if they hold none.
		EboardRole(ctx context.Context, m Member) (string, error)
		ActiveRTPs(ctx context.Context) ([]Member, error)
		ThreeDAs(ctx context.Context) ([]Member, error)
		Webmasters(ctx context.Context) ([]Member, error)
		ConstitutionalMaintainers(ctx context.Context) ([]Member, error)
		DrinkAdmins(ctx context.Context) ([]Member, error)
	}

	// RoleFlags are the role markers cached on an upperclassman signature.
	RoleFlags struct {
		Eboard     string
		ActiveRTP  bool
		ThreeDA    bool
		Webmaster  bool
		CM         bool
		DrinkAdmin bool
	}

	// RoleSets holds the uids of every role group, fetched once per command.
	RoleSets struct {
		ActiveRTPs                map[string]struct{}
		ThreeDAs                  map[string]struct{}
		Webmasters                map[string]struct{}
		ConstitutionalMaintainers map[string]struct{}
		DrinkAdmins               map[string]struct{}
	}

	// Upperclassmen is the set of members eligible to sign packets, with their role flags.
	Upperclassmen struct {
		flags map[string]RoleFlags
	}
)

// RoleFlagsFor computes the role flags of uid.
func RoleFlagsFor(uid, eboardRole string, sets RoleSets) RoleFlags {
	return RoleFlags{
		Eboard:     eboardRole,
		ActiveRTP:  has(sets.ActiveRTPs, uid),
		ThreeDA:    has(sets.ThreeDAs, uid),
		Webmaster:  has(sets.Webmasters, uid),
		CM:         has(sets.ConstitutionalMaintainers, uid),
		DrinkAdmin: has(sets.DrinkAdmins, uid),
	}
}

func has(set map[string]struct{}, uid string) bool {
	_, ok := set[uid]
	return ok
}

func uidSet(members []Member) map[string]struct{} {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		set[m.UID] = struct{}{}
	}
	return set
}

// FetchRoleSets loads every role group from svc.
func FetchRoleSets(ctx context.Context, svc Service) (RoleSets, error) {
	var sets RoleSets
	groups := []struct {
		name  string
		fetch func(context.Context) ([]Member, error)
		dest  *map[string]struct{}
	}{
		{"active RTPs", svc.ActiveRTPs, &sets.ActiveRTPs},
		{"3DAs", svc.ThreeDAs, &sets.ThreeDAs},
		{"webmasters", svc.Webmasters, &sets.Webmasters},
		{"constitutional maintainers", svc.ConstitutionalMaintainers, &sets.ConstitutionalMaintainers},
		{"drink admins", svc.DrinkAdmins, &sets.DrinkAdmins},
	}
	for _, g := range groups {
		members, err := g.fetch(ctx)
		if err != nil {
			return RoleSets{}, errors.Wrapf(err, "fetching %s", g.name)
		}
		*g.dest = uidSet(members)
	}
	return sets, nil
}

// FetchUpperclassmen returns the active members that are neither intro members nor on co-op.
func FetchUpperclassmen(ctx context.Context, svc Service) (*Upperclassmen, error) {
	members, err := svc.ActiveMembers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching active members")
	}
	sets, err := FetchRoleSets(ctx, svc)
	if err != nil {
		return nil, err
	}

	upper := &Upperclassmen{flags: make(map[string]RoleFlags, len(members))}
	for _, m := range members {
		intro, err := svc.IsIntroMember(ctx, m)
		if err != nil {
			return nil, errors.Wrapf(err, "checking intro status of %s", m.UID)
		}
		if intro {
			continue
		}
		coop, err := svc.IsOnCoop(ctx, m)
		if err != nil {
			return nil, errors.Wrapf(err, "checking co-op status of %s", m.UID)
		}
		if coop {
			continue
		}
		role, err := svc.EboardRole(ctx, m)
		if err != nil {
			return nil, errors.Wrapf(err, "fetching eboard role of %s", m.UID)
		}
		upper.flags[m.UID] = RoleFlagsFor(m.UID, role, sets)
	}
	return upper, nil
}

// NewUpperclassmen builds an Upperclassmen set from precomputed flags.
func NewUpperclassmen(flags map[string]RoleFlags) *Upperclassmen {
	cp := make(map[string]RoleFlags, len(flags))
	for uid, f := range flags {
		cp[uid] = f
	}
	return &Upperclassmen{flags: cp}
}

func (u *Upperclassmen) Has(uid string) bool {
	_, ok := u.flags[uid]
	return ok
}

// Flags returns the role flags of uid; ok is false if uid is not an upperclassman.
func (u *Upperclassmen) Flags(uid string) (flags RoleFlags, ok bool) {
	flags, ok = u.flags[uid]
	return
}

// UIDs returns the upperclassmen uids in ascending order.
func (u *Upperclassmen) UIDs() []string {
	uids := make([]string, 0, len(u.flags))
	for uid := range u.flags {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}

func (u *Upperclassmen) Len() int { return len(u.flags) }
