package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/isometry/zoom-webhook-app/internal/validation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdSign() *cobra.Command {
	var timestamp string

	cmd := &cobra.Command{
		Use:   "sign [file]",
		Short: "Print the Zoom signature headers for a payload read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readPayload(cmd, args)
			if err != nil {
				return err
			}
			secret, err := retrieveWebhookSecret(cmd)
			if err != nil {
				return err
			}
			if timestamp == "" {
				timestamp = strconv.FormatInt(time.Now().Unix(), 10)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n%s: %s\n",
				validation.TimestampHeader, timestamp,
				validation.SignatureHeader, validation.NewWebhookSecret(secret).Sign(timestamp, body))
			return err
		},
	}
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "the request timestamp to sign (default now, in epoch seconds)")

	return cmd
}

func readPayload(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		body, err := io.ReadAll(cmd.InOrStdin())
		return body, errors.Wrap(err, "failed to read payload from stdin")
	}
	body, err := os.ReadFile(args[0])
	return body, errors.Wrapf(err, "failed to read payload from %s", args[0])
}
