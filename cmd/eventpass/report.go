package main

import (
	"fmt"
	"time"

	"eventpass/internal/adapters/archive"
	"eventpass/internal/adapters/export"
	"eventpass/internal/domain"
	"eventpass/internal/repository/postgres"
	"eventpass/internal/services"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Generate registration reports",
	GroupID: "admin",
}

var reportArchiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Export the registration report and upload it to the archive bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := domain.ParseExportFormat(formatName)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		cfg := a.cfg

		uploader, err := archive.NewS3Uploader(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix, cfg.Archive.Region, cfg.Archive.Endpoint)
		if err != nil {
			return err
		}

		reports := services.NewReportService(postgres.NewRegistrationRepository(a.db), export.NewRenderer(cfg.Location), cfg.Location)
		data, err := reports.Export(ctx, format)
		if err != nil {
			return fmt.Errorf("exporting report: %w", err)
		}

		key, err := uploader.Upload(ctx, format.Filename(time.Now().In(cfg.Location)), format.ContentType(), data)
		if err != nil {
			return err
		}
		a.logger.InfoContext(ctx, "report archived", "key", key, "format", format, "bytes", len(data))
		fmt.Fprintf(cmd.OutOrStdout(), "Archived s3://%s/%s\n", cfg.Archive.Bucket, key)
		return nil
	},
}

func init() {
	reportArchiveCmd.Flags().String("format", "xlsx", "export format: csv, xlsx, or pdf")

	reportCmd.AddCommand(reportArchiveCmd)
}
