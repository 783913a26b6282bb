package packet

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/computersciencehouse/packet/core"
)

const rosterColumns = 4 // name, onfloor, unused, username

type (
	RosterEntry struct {
		Name     string `field:"name" validate:"required"`
		Username string `field:"username" validate:"required,alphanum_"`
		OnFloor  bool   `field:"onfloor"`
	}

	// Roster is the set of freshmen listed in a roster file, keyed by username.
	Roster struct {
		entries map[string]RosterEntry
	}

	// RosterError reports a malformed roster row.
	RosterError struct {
		Line int
		Err  error
	}
)

func (e *RosterError) Error() string {
	return fmt.Sprintf("roster line %d: %v", e.Line, e.Err)
}

func (e *RosterError) Unwrap() error { return e.Err }

// ParseRoster reads a headerless CSV roster with columns [name, onfloor, unused, username].
// A later row for the same username overrides an earlier one.
func ParseRoster(r io.Reader) (Roster, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1

	roster := Roster{entries: make(map[string]RosterEntry)}
	for {
		row, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var line int
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return Roster{}, &RosterError{Line: line, Err: err}
		}
		line, _ := rdr.FieldPos(0)
		if len(row) < rosterColumns {
			return Roster{}, &RosterError{
				Line: line,
				Err:  errors.Errorf("expected at least %d columns, got %d", rosterColumns, len(row)),
			}
		}

		entry := RosterEntry{
			Name:     core.CleanString(row[0]),
			OnFloor:  core.CleanString(row[1]) == "TRUE",
			Username: core.CleanString(row[3]),
		}
		if err := core.CheckStruct(entry); err != nil {
			return Roster{}, &RosterError{Line: line, Err: err}
		}
		roster.entries[entry.Username] = entry
	}
	return roster, nil
}

// NewRoster builds a roster from already validated entries.
func NewRoster(entries ...RosterEntry) Roster {
	roster := Roster{entries: make(map[string]RosterEntry, len(entries))}
	for _, e := range entries {
		roster.entries[e.Username] = e
	}
	return roster
}

func (r Roster) Len() int { return len(r.entries) }

func (r Roster) Get(username string) (RosterEntry, bool) {
	e, ok := r.entries[username]
	return e, ok
}

// Usernames returns the roster usernames in ascending order.
func (r Roster) Usernames() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the roster entries ordered by username.
func (r Roster) Entries() []RosterEntry {
	entries := make([]RosterEntry, 0, len(r.entries))
	for _, name := range r.Usernames() {
		entries = append(entries, r.entries[name])
	}
	return entries
}
