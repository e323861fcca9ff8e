// sheetsl translates cell ranges of .xlsx workbooks with DeepL.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pricofy/sheet-translator/internal/config"
	"github.com/pricofy/sheet-translator/internal/deepl"
	"github.com/pricofy/sheet-translator/internal/i18n"
	"github.com/pricofy/sheet-translator/internal/settings"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// errTargetUnset is returned when neither --target nor a stored target
// language is available.
var errTargetUnset = errors.New("target language is not set")

// app is the state shared by all commands.
type app struct {
	cfg   *config.Config
	store *settings.Store
	msg   *i18n.Translator
	in    io.Reader
}

func (a *app) client() *deepl.Client {
	return deepl.New(a.store, deepl.Config{
		BaseURL: a.cfg.APIBaseURL,
		Timeout: a.cfg.Timeout,
		Proxy:   a.cfg.Proxy,
	})
}

// describe renders err for the user in the configured language.
func (a *app) describe(err error) string {
	if errors.Is(err, errTargetUnset) {
		return a.msg.T("TargetLocaleUnavailable", nil)
	}
	return a.msg.Error(err)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sheetsl",
		Short: "Translate spreadsheet cell ranges with DeepL",
		Long: `sheetsl translates a range of cells in an .xlsx workbook with the DeepL API
and writes the translations into the cells to the right of the range.

Commands:
  auth        Manage the DeepL API authentication key
  lang        Set or show the source and target languages
  languages   List the languages DeepL supports
  usage       Show the character usage of your DeepL account
  translate   Translate a cell range of a workbook

Environment:
  DEEPL_AUTH_KEY       DeepL API key (overrides the stored key)
  DEEPL_API_BASE_URL   DeepL endpoint override
  SHEETSL_LOCALE       Message language (en, ja)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAuthCmd(a),
		newLangCmd(a),
		newLanguagesCmd(a),
		newUsageCmd(a),
		newTranslateCmd(a),
		newVersionCmd(),
	)

	return root
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	store, err := settings.OpenDefault()
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}

	a := &app{
		cfg:   cfg,
		store: store,
		msg:   i18n.NewTranslator(i18n.DetectLocale(cfg.Locale)),
		in:    os.Stdin,
	}
	if err := newRootCmd(a).Execute(); err != nil {
		logError("%s", a.describe(err))
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sheetsl version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}

	return cmd
}
