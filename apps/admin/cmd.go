package main

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/computersciencehouse/packet/core"
	"github.com/computersciencehouse/packet/core/packet"
)

const programName = "packet-admin"

var (
	nowFunc = time.Now // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	db     *gorm.DB
	store  packet.Store
	svc    *packet.Service
	prompt *prompter
	out    io.Writer

	// setup wires the dependencies from the configuration; nil when they are injected.
	setup   func(cli *commandLine, configFile string, debug bool) error
	cleanup func()
}

func (cli *commandLine) rootCommand() *cobra.Command {
	var (
		configFile string
		debug      bool
	)
	root := &cobra.Command{
		Use:           programName,
		Short:         "Administer packet seasons",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return errHelp
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["offline"] == "true" || cli.setup == nil {
				return nil
			}
			return cli.setup(cli, configFile, debug)
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")
	root.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "enable debug logging")

	root.AddCommand(
		cli.createSecretCommand(),
		cli.syncFreshmenCommand(),
		cli.createPacketsCommand(),
		cli.ldapSyncCommand(),
		cli.fetchResultsCommand(),
		cli.extendPacketCommand(),
		cli.removeMemberSigCommand(),
		cli.removeFreshmanSigCommand(),
		cli.migrateCommand(),
	)
	return root
}

// run executes the command line; args[0] is the program name.
func (cli *commandLine) run(args []string) error {
	defer func() {
		if cli.cleanup != nil {
			cli.cleanup()
		}
	}()
	root := cli.rootCommand()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)

	// reported before cleanup flushes the logger
	err := root.Execute()
	if err != nil && err != errHelp && cli.logger != nil {
		cli.logger.Error("command failed", err)
	}
	return err
}

// inTx runs fn in a transaction, committed only if fn succeeds.
func (cli *commandLine) inTx(ctx context.Context, fn func(tx packet.Tx) error) error {
	tx, err := cli.store.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			cli.logger.Error("rolling back transaction", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (cli *commandLine) season() packet.SeasonConfig {
	return cli.svc.Season()
}

func (cli *commandLine) now() time.Time {
	return nowFunc().UTC()
}
