// Package main implements a CLI tool that propagates a semantic version
// across the metadata files of a PlatformIO/Arduino library project.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	pioversion "github.com/pio-tools/pioversion/pkg"
)

const (
	shortDesc = "Propagate a semantic version across library metadata files"
	longDesc  = `Propagates a semantic version (X.Y.Z) across the metadata files of a
PlatformIO/Arduino library project: the VERSION marker file, the JSON
manifest (library.json), the properties file (library.properties), and the
version define in the C header.

When the version argument is omitted, the VERSION marker file at the
project root is consulted. The marker file is always rewritten; target
files that do not exist are skipped. If none of the three target files
exist, a warning is emitted but the run still succeeds.

Examples:
  pioversion 1.0.9
  pioversion -C path/to/project 1.0.9
  pioversion --dry 2.0.0
  pioversion`
)

func newRootCmd() *cobra.Command {
	targets := pioversion.DefaultTargets()

	var (
		root      string
		dry       bool
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:           "pioversion [version]",
		Short:         shortDesc,
		Long:          longDesc,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return configureLogger(logLevel, logFormat)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			var (
				res pioversion.Result
				err error
			)
			if dry {
				res, err = pioversion.DryRun(root, arg, targets)
			} else {
				res, err = pioversion.Run(root, arg, targets)
			}
			if err != nil {
				return err
			}

			if res.Downgrade {
				log.Warn("applying a version lower than the current one",
					"current", res.Previous, "new", res.Version)
			}
			if len(res.UpdatedFiles) == 0 {
				log.Warn("no target files were updated")
			}

			if dry {
				fmt.Println("Dry run complete, no files were modified.")
				fmt.Printf("Version %s would be written to:\n", res.Version)
				fmt.Printf("  %s\n", res.MarkerPath)
				for _, f := range res.UpdatedFiles {
					fmt.Printf("  %s\n", f)
				}
				return nil
			}

			fmt.Printf("Version set to %s\n", res.Version)
			fmt.Println("Files updated:")
			fmt.Printf("  %s\n", res.MarkerPath)
			for _, f := range res.UpdatedFiles {
				fmt.Printf("  %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "C", ".", "Project root containing the metadata files")
	cmd.Flags().StringVar(&targets.Manifest, "manifest", targets.Manifest,
		"Path to the JSON manifest, relative to the project root")
	cmd.Flags().StringVar(&targets.Properties, "properties", targets.Properties,
		"Path to the properties file, relative to the project root")
	cmd.Flags().StringVar(&targets.Header, "header", targets.Header,
		"Path to the C header carrying the version define, relative to the project root")
	cmd.Flags().StringVar(&targets.Macro, "macro", targets.Macro,
		"Name of the version define in the header")
	cmd.Flags().BoolVar(&dry, "dry", false,
		"Report which files would be updated without writing anything")
	cmd.PersistentFlags().StringVar(&logLevel, "log_level", "warn",
		"Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log_format", "text",
		"Set the log format (text, logfmt, json)")

	return cmd
}

func configureLogger(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(log.JSONFormatter)
	case "logfmt":
		log.SetFormatter(log.LogfmtFormatter)
	case "text", "":
		log.SetFormatter(log.TextFormatter)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	log.SetReportTimestamp(false)

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
