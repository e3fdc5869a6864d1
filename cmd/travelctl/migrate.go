package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"travelshot/internal/infra"
	"travelshot/internal/sqlinline"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the photo_jobs and integration_tokens schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeDB, err := openRunner(cmd.Context(), "migrate")
			if err != nil {
				return err
			}
			defer closeDB()

			for _, script := range []string{sqlinline.QCreatePhotoJobsSchema, sqlinline.QCreateIntegrationTokensSchema} {
				if err := infra.Migrate(cmd.Context(), runner, script); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}
