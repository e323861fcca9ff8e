package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricofy/sheet-translator/internal/settings"
	"github.com/pricofy/sheet-translator/internal/sheet"
	"github.com/pricofy/sheet-translator/internal/translator"
)

// ---------------------------------------------------------------------------
// translate (cell range of a workbook)
// ---------------------------------------------------------------------------

type translateArgs struct {
	file      string
	cellRange string
	sheetName string
	source    string
	target    string
	force     bool
	out       string
}

func newTranslateCmd(a *app) *cobra.Command {
	var ta translateArgs

	cmd := &cobra.Command{
		Use:   "translate <file.xlsx>",
		Short: "Translate a cell range of a workbook",
		Long: `Translate the cells of --range and write the translations into the range of
the same size immediately to its right. Empty cells stay empty.

The target language defaults to the one stored with 'sheetsl lang set'.
If the cells to the right are not empty you are asked before they are
overwritten, unless --force is given.

Examples:
  sheetsl translate book.xlsx --range A1:A20
  sheetsl translate book.xlsx --range B2:D9 --sheet Prices --target JA
  sheetsl translate book.xlsx --range A1:C4 --out book.de.xlsx --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ta.file = args[0]
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.runTranslate(ctx, ta)
		},
	}

	cmd.Flags().StringVarP(&ta.cellRange, "range", "r", "", "Cell range to translate, e.g. A1:C4 (required)")
	cmd.Flags().StringVar(&ta.sheetName, "sheet", "", "Sheet name (default: active sheet)")
	cmd.Flags().StringVarP(&ta.source, "source", "s", "", "Source language (default: stored setting or auto-detect)")
	cmd.Flags().StringVarP(&ta.target, "target", "t", "", "Target language (default: stored setting)")
	cmd.Flags().BoolVarP(&ta.force, "force", "f", false, "Overwrite non-empty target cells without asking")
	cmd.Flags().StringVarP(&ta.out, "out", "o", "", "Write the result to this file instead of the input")
	_ = cmd.MarkFlagRequired("range")

	return cmd
}

func (a *app) runTranslate(ctx context.Context, ta translateArgs) error {
	storedSource, storedTarget, err := a.store.Locales()
	if err != nil {
		return err
	}
	target := ta.target
	if target == "" {
		target = storedTarget
	}
	if target == "" {
		return errTargetUnset
	}
	target = settings.NormalizeLocale(target)
	source := ta.source
	if source == "" {
		source = storedSource
	}
	source = settings.NormalizeLocale(source)

	wb, err := sheet.Open(ta.file)
	if err != nil {
		return err
	}
	defer wb.Close()

	selected, grid, err := wb.ReadRange(ta.sheetName, ta.cellRange)
	if err != nil {
		return err
	}
	dest := selected.Adjacent()

	blank, err := wb.IsBlank(ta.sheetName, dest)
	if err != nil {
		return err
	}
	if !blank && !ta.force {
		question := a.msg.T("OverwriteConfirm", map[string]any{"Range": dest.String()})
		if !confirm(a.in, os.Stderr, question) {
			logWarning("%s", a.msg.T("TranslationCanceled", nil))
			return nil
		}
	}

	opts := a.cfg.TranslatorOptions()
	opts.OnLog = logInfo
	opts.OnProgress = func(done, total int) {
		if total > 1 {
			logInfo("Chunk %d/%d done", done, total)
		}
	}

	res, err := translator.New(a.client(), opts).Translate(ctx, grid, target, source)
	if err != nil {
		return err
	}

	if err := wb.WriteRange(ta.sheetName, dest, res.Grid); err != nil {
		return err
	}
	if ta.out != "" {
		err = wb.SaveAs(ta.out)
	} else {
		err = wb.Save()
	}
	if err != nil {
		return err
	}

	logSuccess("%s", a.msg.T("TranslationComplete", map[string]any{
		"Cells":  res.CellsTranslated,
		"Chunks": res.ChunksProcessed,
		"Range":  dest.String(),
	}))
	return nil
}

// confirm asks a yes/no question on w and reads the answer from r.
// Anything but "y" or "yes" is a no.
func confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	switch strings.ToLower(strings.TrimSpace(readLine(r))) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// usage (GET /usage)
// ---------------------------------------------------------------------------

func newUsageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show the character usage of your DeepL account",
		RunE: func(cmd *cobra.Command, args []string) error {
			usage, err := a.client().Usage(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.msg.T("UsageSummary", map[string]any{
				"Count":     usage.CharacterCount,
				"Limit":     usage.CharacterLimit,
				"Remaining": usage.Remaining(),
			}))
			return nil
		},
	}
}
