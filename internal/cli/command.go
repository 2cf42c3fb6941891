// Package cli implements the doctranslate command line tool. It runs the same
// pipeline as the web server against local files.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/doctranslate/internal/config"
	"github.com/JonMunkholm/doctranslate/internal/core"
	"github.com/JonMunkholm/doctranslate/internal/logging"
	"github.com/JonMunkholm/doctranslate/internal/translate"
)

// Flags holds the command line options.
type Flags struct {
	Language  string
	Output    string
	Backend   string
	Timeout   time.Duration
	Force     bool
	LogLevel  string
	LogFormat string
}

// NewFlags returns flags with their defaults.
func NewFlags() *Flags {
	return &Flags{
		Language:  translate.DefaultLanguage,
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// TranslatorFactory builds the translator used by the translate command.
// Tests replace it to avoid network calls.
type TranslatorFactory func(ctx context.Context, cfg *config.Config) (core.Translator, error)

// CreateRootCommand creates the root command with all subcommands.
func CreateRootCommand(flags *Flags, newTranslator TranslatorFactory) *cobra.Command {
	if newTranslator == nil {
		newTranslator = NewTranslator
	}

	rootCmd := &cobra.Command{
		Use:   "doctranslate",
		Short: "Translate PowerPoint and Word documents in place",
		Long: `doctranslate translates the text of .pptx and .docx files while keeping
layout, images and formatting untouched.

Backends and caching are configured through the same environment variables
as the server (DEEPL_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, REDIS_URL, ...).

Examples:
  doctranslate translate deck.pptx                  # writes deck_slovenian.pptx
  doctranslate translate report.docx -l german      # writes report_german.docx
  doctranslate translate deck.pptx -o out.pptx --backend echo
  doctranslate languages`,
		Version:       core.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), flags.LogLevel, flags.LogFormat))
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	rootCmd.AddCommand(
		newTranslateCommand(flags, newTranslator),
		newLanguagesCommand(),
		newKindsCommand(),
	)
	return rootCmd
}

func newTranslateCommand(flags *Flags, newTranslator TranslatorFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if flags.Backend != "" {
				cfg.Translate.Backend = flags.Backend
			}
			if !translate.IsSupported(flags.Language) {
				slog.Info("language is not a named language, passing it to the backend as given", "language", flags.Language)
			}

			translator, err := newTranslator(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			timeout := flags.Timeout
			if timeout <= 0 {
				timeout = cfg.Transform.Timeout
			}
			return RunTranslate(cmd.Context(), cmd.OutOrStdout(), translator, args[0], flags, core.ServiceConfig{
				MaxFileSize:   cfg.Upload.MaxFileSize,
				MaxPartSize:   cfg.Upload.MaxPartSize,
				Timeout:       timeout,
				MaxConcurrent: 1,
			})
		},
	}

	cmd.Flags().StringVarP(&flags.Language, "language", "l", flags.Language, "Target language name or tag (e.g. slovenian, de, pt-BR)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file (default: <name>_<language>.<ext> next to the input)")
	cmd.Flags().StringVar(&flags.Backend, "backend", "", "Translation backend: auto, deepl, openai, gemini, echo (default: TRANSLATE_BACKEND)")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Bound on the whole translation (default: TRANSFORM_TIMEOUT)")
	cmd.Flags().BoolVarP(&flags.Force, "force", "f", false, "Overwrite an existing output file")
	return cmd
}

// RunTranslate translates inputPath and writes the result. Statistics are
// printed to out. Pipeline failures are returned as *core.UserError.
func RunTranslate(ctx context.Context, out io.Writer, translator core.Translator, inputPath string, flags *Flags, cfg core.ServiceConfig) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	service, err := core.NewService(translator, nil, cfg)
	if err != nil {
		return err
	}

	result, err := service.Translate(ctx, core.TranslateRequest{
		FileName: filepath.Base(inputPath),
		Data:     data,
		Language: flags.Language,
	})
	if err != nil {
		return core.NewUserError(err)
	}

	outputPath := flags.Output
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(inputPath), result.FileName)
	}
	if err := checkOutputPath(inputPath, outputPath, flags.Force); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, result.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(out, "Translated %s -> %s\n", filepath.Base(inputPath), outputPath)
	fmt.Fprintf(out, "  language:             %s\n", result.Language)
	fmt.Fprintf(out, "  parts processed:      %d of %d (%d failed)\n", result.Stats.PartsProcessed, result.Stats.PartsMatched, result.Stats.PartsFailed)
	fmt.Fprintf(out, "  fragments translated: %d\n", result.Stats.FragmentsTranslated)
	if result.Stats.CacheSize > 0 {
		fmt.Fprintf(out, "  cached translations:  %d\n", result.Stats.CacheSize)
	}
	fmt.Fprintf(out, "  duration:             %s\n", result.Duration.Round(time.Millisecond))
	return nil
}

// checkOutputPath refuses to overwrite the input, and any existing file
// unless force is set.
func checkOutputPath(inputPath, outputPath string, force bool) error {
	in, err := filepath.Abs(inputPath)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}
	if in == out {
		return errors.New("output file would overwrite the input")
	}
	if force {
		return nil
	}
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("output file %s already exists (use --force to overwrite)", outputPath)
	}
	return nil
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List named target languages",
		Long:  "List named target languages. Any other language name or BCP 47 tag is passed to the backend as given.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, lang := range translate.SupportedLanguages() {
				fmt.Fprintf(out, "%-12s %-6s %s (%s)\n", lang.Name, lang.Code, lang.Display, lang.Native)
			}
		},
	}
}

func newKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List supported document types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, def := range core.All() {
				info := def.Info()
				fmt.Fprintf(out, "%-6s %-26s %v\n", info.Key, info.Label, info.Extensions)
			}
		},
	}
}
