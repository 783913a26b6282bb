package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var randReadFunc = rand.Read // mockable

func (cli *commandLine) createSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "create-secret",
		Short:       "Generate a random secure token",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"offline": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			b := make([]byte, 32)
			if _, err := randReadFunc(b); err != nil {
				return errors.Wrap(err, "generating secret")
			}
			_, _ = fmt.Fprintf(cli.out, "Here's your random secure token:\n%s\n", hex.EncodeToString(b))
			return nil
		},
	}
}
