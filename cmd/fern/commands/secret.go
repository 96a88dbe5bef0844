// Copyright 2026 The Fern Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/base64"
	"fmt"

	"github.com/fernwiki/fern/cmd/fern/cli"
	"github.com/fernwiki/fern/lib/session"
)

func secretCommand() *cli.Command {
	return &cli.Command{
		Name:    "secret",
		Summary: "Generate a session signing key",
		Description: `Generate a session signing key and print it base64-encoded.

Paste the output into the secret_key field of the config file. Sessions
are signed with this key; replacing it signs everyone out, and running
without one means sessions do not survive a server restart.`,
		Usage: "fern secret",
		Run: func(args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("secret takes no arguments")
			}
			key, err := session.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Println(base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}
}
