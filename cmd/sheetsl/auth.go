package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricofy/sheet-translator/internal/deepl"
	"github.com/pricofy/sheet-translator/internal/settings"
)

// ---------------------------------------------------------------------------
// auth (DeepL API key)
// ---------------------------------------------------------------------------

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the DeepL API authentication key",
		Long: `Manage the DeepL API authentication key.

Keys ending in ":fx" are DeepL API Free keys, any other key is used with
DeepL API Pro. $DEEPL_AUTH_KEY overrides the stored key.

Examples:
  sheetsl auth set                  Prompt for the key
  sheetsl auth set 0123-abcd:fx     Store the key
  sheetsl auth show                 Show the stored key (masked)
  sheetsl auth delete               Remove the stored key`,
	}

	cmd.AddCommand(
		newAuthSetCmd(a),
		newAuthDeleteCmd(a),
		newAuthShowCmd(a),
	)

	return cmd
}

func newAuthSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set [key]",
		Short: "Store the DeepL API authentication key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				fmt.Fprint(os.Stderr, "Enter your DeepL API authentication key: ")
				key = readLine(a.in)
			}
			if err := a.store.SetAPIKey(key); err != nil {
				return err
			}
			logSuccess("%s", a.msg.T("ApiKeySaved", nil))
			return nil
		},
	}
}

func newAuthDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Remove the stored DeepL API authentication key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.DeleteAPIKey(); err != nil {
				return err
			}
			logSuccess("%s", a.msg.T("ApiKeyDeleted", nil))
			return nil
		},
	}
}

func newAuthShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the DeepL API authentication key in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			key, err := a.store.APIKey()
			if err != nil {
				return err
			}
			if key == "" {
				fmt.Fprintln(out, "key:      not configured")
				return nil
			}

			plan := "pro"
			if deepl.BaseURL(key) == deepl.FreeBaseURL {
				plan = "free"
			}
			source := a.store.Path()
			if os.Getenv(settings.EnvAPIKey) != "" {
				source = "$" + settings.EnvAPIKey
			}
			fmt.Fprintf(out, "key:      %s\n", settings.MaskKey(key))
			fmt.Fprintf(out, "plan:     %s\n", plan)
			fmt.Fprintf(out, "source:   %s\n", source)
			return nil
		},
	}
}

// readLine reads one line from r without the line terminator.
func readLine(r io.Reader) string {
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
