package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/tracker"
	"github.com/spf13/cobra"
)

// reportWrite prints a failed write as a warning. The local state is already
// reverted so the command still succeeds.
func reportWrite(cmd *cobra.Command, state tracker.State, err error) error {
	var writeErr *tracker.WriteError
	if errors.As(err, &writeErr) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", writeErr)
		printGroups(cmd.OutOrStdout(), state.Groups)
		return nil
	}
	if err != nil {
		return err
	}

	printGroups(cmd.OutOrStdout(), state.Groups)
	return nil
}

func completeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete [task id]",
		Short: "Mark one of your tasks as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			undo, _ := cmd.Flags().GetBool("undo")

			tr, err := load(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			state, err := tr.SetTaskCompletion(cmd.Context(), id, !undo)
			return reportWrite(cmd, state, err)
		},
	}

	cmd.Flags().Bool("undo", false, "Mark as not done instead")
	addFeedFlags(cmd)

	return cmd
}

func completeSeriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete-series [recurrence id]",
		Short: "Mark every instance of one of your repeating tasks as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			undo, _ := cmd.Flags().GetBool("undo")

			tr, err := load(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			state, err := tr.SetSeriesCompletion(cmd.Context(), args[0], !undo)
			return reportWrite(cmd, state, err)
		},
	}

	cmd.Flags().Bool("undo", false, "Mark as not done instead")
	addFeedFlags(cmd)

	return cmd
}
