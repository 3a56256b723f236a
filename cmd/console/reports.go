package main

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/storage"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	kind   string
	month  int
	year   int
	format string
	out    string
}

func newReportsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Export attendance, leave and department reports",
	}
	cmd.AddCommand(newReportsExportCmd(a))
	cmd.AddCommand(newReportsExportAllCmd(a))
	return cmd
}

func newReportsExportCmd(a *app) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one report to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			artifact, err := a.exporter.Generate(cmd.Context(), report.ExportRequest{
				Kind:   report.Kind(opts.kind),
				Month:  opts.month,
				Year:   opts.year,
				Format: report.Format(opts.format),
			})
			if err != nil {
				return err
			}
			path, err := writeArtifact(cmd.Context(), opts.out, artifact)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d rows)\n", path, artifact.Rows)
			return nil
		},
	}

	addPeriodFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.kind, "kind", "", "Report kind: attendance, leave, department (required)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newReportsExportAllCmd(a *app) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export-all",
		Short: "Export every report kind for one period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			artifacts, err := a.exporter.GenerateAll(cmd.Context(), opts.month, opts.year, report.Format(opts.format))
			if err != nil {
				return err
			}
			for _, artifact := range artifacts {
				path, err := writeArtifact(cmd.Context(), opts.out, artifact)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d rows)\n", path, artifact.Rows)
			}
			return nil
		},
	}

	addPeriodFlags(cmd, &opts)
	return cmd
}

func addPeriodFlags(cmd *cobra.Command, opts *exportOptions) {
	now := time.Now()
	cmd.Flags().IntVar(&opts.month, "month", int(now.Month()), "Report month, 1-12")
	cmd.Flags().IntVar(&opts.year, "year", now.Year(), "Report year")
	cmd.Flags().StringVar(&opts.format, "format", string(report.FormatCSV), "Output format: csv or xlsx")
	cmd.Flags().StringVar(&opts.out, "out", ".", "Output directory")
}

func writeArtifact(ctx context.Context, dir string, artifact report.Artifact) (string, error) {
	store, err := storage.NewLocalStorage(dir)
	if err != nil {
		return "", err
	}
	return store.Save(ctx, bytes.NewReader(artifact.Body), artifact.FileName)
}
