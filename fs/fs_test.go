package appfs

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFS(t *testing.T) {
	for _, name := range []string{
		"templates/email/_base.txt",
		"templates/email/_base.gohtml",
		"templates/email/packet_start.txt",
		"templates/email/packet_start.gohtml",
		MigrationsDir("postgres") + "/00001_packet.sql",
		MigrationsDir("sqlite") + "/00001_packet.sql",
	} {
		_, err := fs.Stat(FS, name)
		assert.NoError(t, err, name)
	}
}
