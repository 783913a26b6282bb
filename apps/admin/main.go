package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/computersciencehouse/packet/core"
	"github.com/computersciencehouse/packet/core/packet"
	"github.com/computersciencehouse/packet/services/directory"
	"github.com/computersciencehouse/packet/services/email"
	"github.com/computersciencehouse/packet/services/logger"
	"github.com/computersciencehouse/packet/services/notify"
	"github.com/computersciencehouse/packet/storage/database"
	"github.com/computersciencehouse/packet/storage/database/gormdb"
)

var stdLogger *log.Logger

func main() {
	stdLogger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// start CLI
	cli := commandLine{
		prompt: newPrompter(os.Stdin, os.Stdout, !term.IsTerminal(int(os.Stdin.Fd()))),
		out:    os.Stdout,
		setup:  setup,
	}
	if err := cli.run(os.Args); err != nil {
		// errors are already logged once the logger is set up
		if err != errHelp && cli.logger == nil {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

// setup wires every service from the configuration.
func setup(cli *commandLine, configFile string, debug bool) error {
	conf, err := core.NewConfig(configFile)
	if err != nil {
		return err
	}
	if debug {
		conf.Debug = true
	}
	cli.conf = conf

	rlog := logsvc.NewRollbarLogger(stdLogger, conf)
	cli.logger = rlog

	// set up DB
	db, err := database.Open(conf.Database, conf.Debug)
	if err != nil {
		rlog.Close()
		return errors.Wrap(err, "opening database")
	}
	cli.db = db
	cli.store = gormdb.NewStore(db)

	// set up services
	var emailSvc core.EmailService
	if conf.Email.SendgridAPIKey != "" {
		emailSvc = emailsvc.NewSendgridService(conf, rlog)
	} else {
		emailSvc = emailsvc.NewConsoleService(conf, os.Stdout)
	}
	dir := dirsvc.NewLDAPService(conf.LDAP)
	cli.svc = packet.NewService(
		dir,
		emailsvc.NewPacketMailer(emailSvc, conf.Packet.URL, conf.Location()),
		notifysvc.New(conf.Notify, conf.Packet.URL, conf.Location(), rlog),
		packet.FlatScorer{RequiredMisc: conf.Packet.RequiredMiscSignatures},
		packet.SeasonConfig{
			StartHour:    conf.Packet.StartHour,
			EndHour:      conf.Packet.EndHour,
			DurationDays: conf.Packet.DurationDays,
			Location:     conf.Location(),
		},
	)

	cli.cleanup = func() {
		dir.Close()
		if err := database.Close(db); err != nil {
			rlog.Error("closing database", err)
		}
		rlog.Close()
	}
	return nil
}
