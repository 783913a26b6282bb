package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/computersciencehouse/packet/core"
	"github.com/computersciencehouse/packet/core/directory"
	"github.com/computersciencehouse/packet/core/packet"
	"github.com/computersciencehouse/packet/storage/database"
	"github.com/computersciencehouse/packet/storage/database/gormdb"
)

// OpenDB opens a migrated sqlite database living in the test's temp dir.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	conf := core.DatabaseConfig{Engine: database.EngineSQLite, Path: filepath.Join(t.TempDir(), "packet.db")}
	db, err := database.Open(conf, false)
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.Migrate(context.Background(), db, database.EngineSQLite); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

func OpenStore(t *testing.T) *gormdb.Store {
	t.Helper()
	return gormdb.NewStore(OpenDB(t))
}

// Begin opens a transaction that is rolled back at the end of the test unless committed.
func Begin(t *testing.T, store packet.Store) packet.Tx {
	t.Helper()
	tx, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() failed: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

func CreateFreshman(t *testing.T, tx packet.Tx, username, name string, onFloor bool) packet.Freshman {
	t.Helper()
	f := packet.Freshman{Username: username, Name: name, OnFloor: onFloor}
	if err := tx.SaveFreshman(&f); err != nil {
		t.Fatalf("CreateFreshman() failed: %v", err)
	}
	return f
}

func CreatePacket(t *testing.T, tx packet.Tx, username string, start, end time.Time) packet.Packet {
	t.Helper()
	p := packet.Packet{FreshmanUsername: username, Start: start, End: end}
	if err := tx.CreatePacket(&p); err != nil {
		t.Fatalf("CreatePacket() failed: %v", err)
	}
	return p
}

func Signatures(t *testing.T, tx packet.Tx, packetID int) *packet.Signatures {
	t.Helper()
	sigs, err := tx.Signatures(packetID)
	if err != nil {
		t.Fatalf("Signatures() failed: %v", err)
	}
	return sigs
}

// FakeDirectory is an in-memory directory.Service.
type FakeDirectory struct {
	Members []directory.Member
	Intro   map[string]bool
	Coop    map[string]bool
	Eboard  map[string]string

	RTPUIDs       []string
	ThreeDAUIDs   []string
	WebmasterUIDs []string
	CMUIDs        []string
	DrinkUIDs     []string

	Err error // returned by ActiveMembers
}

var _ directory.Service = (*FakeDirectory)(nil)

func NewFakeDirectory(uids ...string) *FakeDirectory {
	dir := &FakeDirectory{
		Intro:  make(map[string]bool),
		Coop:   make(map[string]bool),
		Eboard: make(map[string]string),
	}
	for _, uid := range uids {
		dir.Members = append(dir.Members, directory.Member{UID: uid, Name: uid})
	}
	return dir
}

func members(uids []string) []directory.Member {
	ms := make([]directory.Member, 0, len(uids))
	for _, uid := range uids {
		ms = append(ms, directory.Member{UID: uid})
	}
	return ms
}

func (d *FakeDirectory) ActiveMembers(context.Context) ([]directory.Member, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Members, nil
}

func (d *FakeDirectory) IsIntroMember(_ context.Context, m directory.Member) (bool, error) {
	return d.Intro[m.UID], nil
}

func (d *FakeDirectory) IsOnCoop(_ context.Context, m directory.Member) (bool, error) {
	return d.Coop[m.UID], nil
}

func (d *FakeDirectory) EboardRole(_ context.Context, m directory.Member) (string, error) {
	return d.Eboard[m.UID], nil
}

func (d *FakeDirectory) ActiveRTPs(context.Context) ([]directory.Member, error) {
	return members(d.RTPUIDs), nil
}

func (d *FakeDirectory) ThreeDAs(context.Context) ([]directory.Member, error) {
	return members(d.ThreeDAUIDs), nil
}

func (d *FakeDirectory) Webmasters(context.Context) ([]directory.Member, error) {
	return members(d.WebmasterUIDs), nil
}

func (d *FakeDirectory) ConstitutionalMaintainers(context.Context) ([]directory.Member, error) {
	return members(d.CMUIDs), nil
}

func (d *FakeDirectory) DrinkAdmins(context.Context) ([]directory.Member, error) {
	return members(d.DrinkUIDs), nil
}

// RecordingMailer records the packets it was asked to mail about.
type RecordingMailer struct {
	Sent []packet.Packet
	Err  error
}

var _ packet.Mailer = (*RecordingMailer)(nil)

func (m *RecordingMailer) SendStartPacketMail(_ context.Context, p packet.Packet, _ packet.Freshman) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, p)
	return nil
}

// RecordingNotifier records the notifications it was asked to push.
type RecordingNotifier struct {
	Started []packet.Packet
	Seasons []time.Time
	Err     error
}

var _ packet.Notifier = (*RecordingNotifier)(nil)

func (n *RecordingNotifier) PacketStarting(_ context.Context, p packet.Packet) error {
	if n.Err != nil {
		return n.Err
	}
	n.Started = append(n.Started, p)
	return nil
}

func (n *RecordingNotifier) PacketsStarting(_ context.Context, start time.Time) error {
	if n.Err != nil {
		return n.Err
	}
	n.Seasons = append(n.Seasons, start)
	return nil
}
