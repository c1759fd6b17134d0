package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DougFavaretto/mockdata-browser-extension/internal/app"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/config"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/domain"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/logger"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/settings"
	"github.com/DougFavaretto/mockdata-browser-extension/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mockdata",
		Short: "Settings service for the fake data generator extension",
		Long: `mockdata stores the fake data generator configuration, keeps the context
menu in step with it and serves the editor API.

Run without a subcommand to start the server. Settings come from MOCKDATA_*
environment variables.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newSanitizeCmd(), newFormatCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	a, err := app.New(ctx, cfg, loggerClient)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

func newSanitizeCmd() *cobra.Command {
	var inFormat, outFormat string

	cmd := &cobra.Command{
		Use:   "sanitize <file|->",
		Short: "Print the sanitized form of a stored configuration",
		Long: `Reads a configuration blob (JSON or YAML), repairs it the way the store does
on load and prints the result. Shared shortcuts are reported on stderr.

The input format defaults to the file extension, JSON for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSanitize(cmd, args[0], inFormat, outFormat)
		},
	}
	cmd.Flags().StringVarP(&inFormat, "format", "f", "", "Input format (json/yaml)")
	cmd.Flags().StringVarP(&outFormat, "output", "o", "json", "Output format (json/yaml)")
	return cmd
}

func runSanitize(cmd *cobra.Command, path, inFormat, outFormat string) error {
	if inFormat == "" {
		inFormat = formatFromPath(path)
	}
	in, err := settings.ParseFormat(inFormat)
	if err != nil {
		return err
	}
	out, err := settings.ParseFormat(outFormat)
	if err != nil {
		return err
	}

	data, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	raw, err := settings.Decode(data, in)
	if err != nil {
		return err
	}

	fields := domain.SanitizeFields(raw)
	if dup, ok := fields.Items.FindDuplicate(); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %s and %s share a shortcut, %s keeps it\n",
			dup.First, dup.Second, dup.First)
	}

	encoded, err := settings.Encode(domain.Sanitize(raw), out)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(encoded)
	if err == nil && out == settings.FormatJSON {
		_, err = fmt.Fprintln(cmd.OutOrStdout())
	}
	return err
}

func formatFromPath(path string) string {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return string(settings.FormatYAML)
	default:
		return string(settings.FormatJSON)
	}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format <shortcut>...",
		Short: "Show how shortcuts are displayed and whether the browser reserves them",
		Example: `  mockdata format ctrl+shift+k
  mockdata format "alt + ArrowUp" ctrl+u`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd.OutOrStdout(), args)
		},
	}
}

func runFormat(w io.Writer, args []string) error {
	for _, arg := range args {
		s, err := domain.ParseShortcut(arg)
		if err != nil {
			return err
		}
		line := domain.Format(&s)
		if reason, reserved := domain.ReservedReason(s); reserved {
			line += "  (reservado: " + reason + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
