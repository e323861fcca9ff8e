package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricofy/sheet-translator/internal/deepl"
	"github.com/pricofy/sheet-translator/internal/settings"
)

// ---------------------------------------------------------------------------
// lang (source/target language settings)
// ---------------------------------------------------------------------------

func newLangCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lang",
		Short: "Set or show the source and target languages",
	}

	cmd.AddCommand(
		newLangSetCmd(a),
		newLangShowCmd(a),
	)

	return cmd
}

func newLangSetCmd(a *app) *cobra.Command {
	var source, target string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Validate and store the source and target languages",
		Long: `Validate the languages against the list DeepL currently supports and store
them as defaults for 'sheetsl translate'.

Leave --source empty to let DeepL detect the source language.

Examples:
  sheetsl lang set --target DE
  sheetsl lang set --source EN --target JA
  sheetsl lang set --target en-us`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, target, err := settings.SetLanguage(cmd.Context(), a.client(), a.store, source, target)
			if err != nil {
				return err
			}
			logSuccess("%s", a.msg.T("LanguageSaved", map[string]any{
				"Source": a.displaySource(source),
				"Target": target,
			}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source language (default: auto-detect)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "Target language (required)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newLangShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, target, err := a.store.Locales()
			if err != nil {
				return err
			}
			if target == "" {
				target = "-"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source:   %s\n", a.displaySource(source))
			fmt.Fprintf(out, "target:   %s\n", target)
			return nil
		},
	}
}

func (a *app) displaySource(source string) string {
	if source == "" {
		return a.msg.T("AutoDetect", nil)
	}
	return source
}

// ---------------------------------------------------------------------------
// languages (GET /languages)
// ---------------------------------------------------------------------------

func newLanguagesCmd(a *app) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the languages DeepL supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			lt := deepl.LanguageType(strings.ToLower(kind))
			if lt != deepl.SourceLanguages && lt != deepl.TargetLanguages {
				return fmt.Errorf("--type must be %q or %q", deepl.SourceLanguages, deepl.TargetLanguages)
			}

			languages, err := a.client().Languages(cmd.Context(), lt)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, l := range languages {
				fmt.Fprintf(out, "%-8s %s\n", l.Language, l.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", string(deepl.SourceLanguages), "Direction: source or target")
	_ = cmd.RegisterFlagCompletionFunc("type", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(deepl.SourceLanguages), string(deepl.TargetLanguages)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
