package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"busfee/internal/app/runtime"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var newApp = runtime.New

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "busfee",
		Short: "Bus fee collection service",
		Long: `busfee tracks student bus fees: monthly dues, payments, carried-forward
credit and the monthly rollover. Configuration is read from CONFIG_PATH
(default configs/config.yaml) with environment overrides.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newRolloverCmd(), newExportCmd())
	return root
}

func initApp(ctx context.Context) (*runtime.App, error) {
	app, err := newApp(ctx)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedInitializingApp, err)
		return nil, err
	}
	return app, nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the rollover scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := initApp(cmd.Context())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

func newRolloverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Run the monthly rollover once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Shutdown(ctx)

			resp := app.RunRollover(ctx)
			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if resp.ErrorMsg != "" && len(resp.RolledIDs) == 0 && len(resp.SkippedIDs) == 0 {
				return fmt.Errorf("rollover failed: %s", resp.ErrorMsg)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var (
		out     string
		deliver bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export students to an Excel workbook",
		Example: `  # Write the workbook locally
  busfee export --out students-data.xlsx

  # Push it to the SFTP drop and the bucket
  busfee export --deliver`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" && !deliver {
				return fmt.Errorf("nothing to do: pass --out and/or --deliver")
			}
			ctx := cmd.Context()
			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Shutdown(ctx)

			result, err := app.ExportStudents(ctx, out, deliver)
			if result != nil {
				if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil {
					return printErr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the workbook to this path")
	cmd.Flags().BoolVar(&deliver, "deliver", false, "upload the workbook to SFTP and GCS")
	return cmd
}
