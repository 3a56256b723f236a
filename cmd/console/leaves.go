package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/spf13/cobra"
)

const tokenEnv = "CONSOLE_TOKEN"

type listOptions struct {
	status string
	search string
	json   bool
}

func newLeavesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaves",
		Short: "List, decide and clean up leave requests",
	}
	cmd.AddCommand(newLeavesListCmd(a))
	cmd.AddCommand(newLeavesTransitionCmd(a, "approve", leave.StatusApproved))
	cmd.AddCommand(newLeavesTransitionCmd(a, "reject", leave.StatusRejected))
	cmd.AddCommand(newLeavesCleanupCmd(a))
	return cmd
}

func newLeavesListCmd(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List valid leave records and report hidden invalid ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			state := a.reconciler.List(cmd.Context(), leave.ListFilter{
				Status: leave.StatusFilter(opts.status),
				Search: opts.search,
			})
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), leave.NewConsoleStateResponse(state))
			}
			if err := printState(cmd.OutOrStdout(), state); err != nil {
				return err
			}
			if state.Error != "" {
				return errors.New(state.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.status, "status", string(leave.StatusFilterAll), "Status filter: all, pending, approved, rejected")
	cmd.Flags().StringVar(&opts.search, "search", "", "Case-insensitive search over name, email, type and reason")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the console state as JSON")
	return cmd
}

func newLeavesTransitionCmd(a *app, use string, status leave.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Mark a pending leave request as %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			// Load the snapshot first so already decided records are caught locally.
			a.reconciler.List(cmd.Context(), leave.ListFilter{Status: leave.StatusFilterAll})

			state, err := a.reconciler.TransitionStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), state)
		},
	}
}

func newLeavesCleanupCmd(a *app) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete orphaned leave records (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv(tokenEnv)
			}
			isAdmin := false
			if token != "" {
				claims, err := a.jwtService.ValidateAccessToken(token)
				if err != nil {
					return fmt.Errorf("invalid --token: %w", err)
				}
				isAdmin = claims.IsAdmin
			}

			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			result, err := a.reconciler.CleanupOrphans(cmd.Context(), isAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %d\n", result.DeletedCount)
			return printState(cmd.OutOrStdout(), result.State)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Admin access token (default $"+tokenEnv+")")
	return cmd
}

func printState(w io.Writer, state leave.ConsoleState) error {
	if state.Notice != nil {
		fmt.Fprintln(w, state.Notice.Message)
	}
	if state.Error != "" {
		fmt.Fprintln(w, "Error:", state.Error)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMPLOYEE\tEMAIL\tDEPARTMENT\tTYPE\tSTART\tEND\tSTATUS")
	for _, r := range state.Leaves {
		resp := leave.NewLeaveResponse(r)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			resp.ID, resp.EmployeeName, resp.EmployeeEmail, orDash(resp.Department),
			resp.LeaveType, orDash(resp.StartDate), orDash(resp.EndDate), resp.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if state.Warning != nil {
		fmt.Fprintln(w, "Warning:", leave.WarningMessage(state.Warning.Count))
		for _, r := range state.Warning.Records {
			fmt.Fprintf(w, "  %s: %s\n", r.ID, strings.Join(r.Issues(), ", "))
		}
	}
	return nil
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
