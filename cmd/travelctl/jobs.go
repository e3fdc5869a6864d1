package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"travelshot/internal/adapter/repo"
	"travelshot/internal/domain"
	"travelshot/internal/trigger"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect photo jobs",
	}

	var limit int
	pending := &cobra.Command{
		Use:   "pending",
		Short: "List jobs still waiting for a worker, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeDB, err := openRunner(cmd.Context(), "jobs")
			if err != nil {
				return err
			}
			defer closeDB()

			keys, err := repo.NewPhotoJobRepository(runner).ListPending(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", key.OwnerID, key.JobID)
			}
			return nil
		},
	}
	pending.Flags().IntVar(&limit, "limit", 50, "maximum number of jobs to list")

	show := &cobra.Command{
		Use:   "show <owner-id> <job-id>",
		Short: "Print one job record as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeDB, err := openRunner(cmd.Context(), "jobs")
			if err != nil {
				return err
			}
			defer closeDB()

			job, err := repo.NewPhotoJobRepository(runner).Get(cmd.Context(), domain.JobKey{OwnerID: args[0], JobID: args[1]})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(job)
		},
	}

	kick := &cobra.Command{
		Use:   "kick <owner-id> <job-id>",
		Short: "Re-send the creation notification for a pending job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := domain.JobKey{OwnerID: args[0], JobID: args[1]}
			if err := key.Validate(); err != nil {
				return err
			}
			runner, closeDB, err := openRunner(cmd.Context(), "jobs")
			if err != nil {
				return err
			}
			defer closeDB()

			job, err := repo.NewPhotoJobRepository(runner).Get(cmd.Context(), key)
			if err != nil {
				return err
			}
			if job.Status != domain.JobStatusPending {
				return fmt.Errorf("job %s is %s, only pending jobs can be kicked", key, job.Status)
			}
			if err := trigger.NewPGNotifier(runner).Dispatch(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "notified %s\n", key)
			return nil
		},
	}

	cmd.AddCommand(pending, show, kick)
	return cmd
}
