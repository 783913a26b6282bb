package dirsvc

import (
	"context"
	"crypto/tls"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/pkg/errors"

	"github.com/computersciencehouse/packet/core"
	"github.com/computersciencehouse/packet/core/directory"
)

const (
	activeGroup    = "active"
	introGroup     = "intromembers"
	fallCoopGroup  = "fall_coop"
	springCoopGrp  = "spring_coop"
	rtpGroup       = "active_rtp"
	threeDAGroup   = "3da"
	webmasterGroup = "webmaster"
	cmGroup        = "constitutional_maintainers"
	drinkGroup     = "drink"
)

// eboard groups in precedence order
var eboardRoles = []struct{ group, role string }{
	{"eboard-chairman", "Chairman"},
	{"eboard-evaluations", "Evals"},
	{"eboard-financial", "Financial"},
	{"eboard-history", "History"},
	{"eboard-imps", "Imps"},
	{"eboard-opcomm", "OpComm"},
	{"eboard-research", "R&D"},
	{"eboard-social", "Social"},
	{"eboard-pr", "PR"},
}

var (
	nowFunc  = time.Now
	dialFunc = func(conf core.LDAPConfig) (searcher, func(), error) {
		conn, err := dial(conf)
		if err != nil {
			return nil, nil, err
		}
		return conn, func() { conn.Close() }, nil
	}

	memberAttrs = []string{"uid", "cn", "memberOf"}
)

type searcher interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
}

type ldapService struct {
	conf core.LDAPConfig

	mu    sync.Mutex
	conn  searcher
	close func()
}

var _ directory.Service = (*ldapService)(nil)

// NewLDAPService returns a directory.Service backed by LDAP. The connection is
// opened on first use.
func NewLDAPService(conf core.LDAPConfig) *ldapService {
	return &ldapService{conf: conf}
}

func dial(conf core.LDAPConfig) (*ldap.Conn, error) {
	conn, err := ldap.DialURL(conf.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", conf.URL)
	}
	if conf.StartTLS {
		u, err := url.Parse(conf.URL)
		if err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "parsing ldap url")
		}
		if err := conn.StartTLS(&tls.Config{ServerName: u.Hostname()}); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "starting tls")
		}
	}
	if conf.BindDN != "" {
		if err := conn.Bind(conf.BindDN, conf.BindPassword); err != nil {
			conn.Close()
			return nil, errors.Wrap(err, "binding")
		}
	}
	return conn, nil
}

func (svc *ldapService) getConn() (searcher, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.conn != nil {
		return svc.conn, nil
	}
	conn, closeFn, err := dialFunc(svc.conf)
	if err != nil {
		return nil, err
	}
	svc.conn, svc.close = conn, closeFn
	return conn, nil
}

// Close closes the connection if one was opened.
func (svc *ldapService) Close() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.close != nil {
		svc.close()
	}
	svc.conn, svc.close = nil, nil
}

func (svc *ldapService) groupDN(cn string) string {
	return "cn=" + cn + "," + svc.conf.GroupBase
}

func (svc *ldapService) groupMembers(ctx context.Context, cn string) ([]directory.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := svc.getConn()
	if err != nil {
		return nil, err
	}

	req := ldap.NewSearchRequest(
		svc.conf.UserBase,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		"(memberOf="+ldap.EscapeFilter(svc.groupDN(cn))+")",
		memberAttrs,
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, errors.Wrapf(err, "searching members of %s", cn)
	}

	members := make([]directory.Member, 0, len(res.Entries))
	for _, entry := range res.Entries {
		members = append(members, memberFromEntry(entry))
	}
	return members, nil
}

func memberFromEntry(entry *ldap.Entry) directory.Member {
	return directory.Member{
		UID:    entry.GetAttributeValue("uid"),
		Name:   entry.GetAttributeValue("cn"),
		Groups: groupsFromDNs(entry.GetAttributeValues("memberOf")),
	}
}

// groupsFromDNs extracts the group cn of every memberOf DN, skipping malformed ones.
func groupsFromDNs(dns []string) []string {
	groups := make([]string, 0, len(dns))
	for _, s := range dns {
		dn, err := ldap.ParseDN(s)
		if err != nil || len(dn.RDNs) == 0 {
			continue
		}
		for _, attr := range dn.RDNs[0].Attributes {
			if strings.EqualFold(attr.Type, "cn") {
				groups = append(groups, attr.Value)
				break
			}
		}
	}
	return groups
}

func inGroup(m directory.Member, group string) bool {
	for _, g := range m.Groups {
		if g == group {
			return true
		}
	}
	return false
}

func coopGroup(now time.Time) string {
	if now.Month() > time.June {
		return fallCoopGroup
	}
	return springCoopGrp
}

func eboardRole(m directory.Member) string {
	for _, er := range eboardRoles {
		if inGroup(m, er.group) {
			return er.role
		}
	}
	return ""
}

func (svc *ldapService) ActiveMembers(ctx context.Context) ([]directory.Member, error) {
	return svc.groupMembers(ctx, activeGroup)
}

func (svc *ldapService) IsIntroMember(_ context.Context, m directory.Member) (bool, error) {
	return inGroup(m, introGroup), nil
}

func (svc *ldapService) IsOnCoop(_ context.Context, m directory.Member) (bool, error) {
	return inGroup(m, coopGroup(nowFunc())), nil
}

func (svc *ldapService) EboardRole(_ context.Context, m directory.Member) (string, error) {
	return eboardRole(m), nil
}

func (svc *ldapService) ActiveRTPs(ctx context.Context) ([]directory.Member, error) {
	return svc.groupMembers(ctx, rtpGroup)
}

func (svc *ldapService) ThreeDAs(ctx context.Context) ([]directory.Member, error) {
	return svc.groupMembers(ctx, threeDAGroup)
}

func (svc *ldapService) Webmasters(ctx context.Context) ([]directory.Member, error) {
	return svc.groupMembers(ctx, webmasterGroup)
}

func (svc *ldapService) ConstitutionalMaintainers(ctx context.Context) ([]directory.Member, error) {
	return svc.groupMembers(ctx, cmGroup)
}

func (svc *ldapService) DrinkAdmins(ctx context.Context) ([]directory.Member, error) {
	return svc.groupMembers(ctx, drinkGroup)
}
