package main

import (
	"fmt"
	"text/tabwriter"

	"ethereal/backend/internal/analysis"
	"ethereal/backend/internal/auth"
	"ethereal/backend/internal/complaint"
	"ethereal/backend/internal/models"
	"ethereal/backend/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	store      *storage.Service
	auth       *auth.Service
	complaints *complaint.Service
	logger     *zap.Logger
}

// newRootCmd builds the CLI. open is called lazily so --help never touches the database.
func newRootCmd(open func() (*app, error)) *cobra.Command {
	var a *app
	root := &cobra.Command{
		Use:          "admin",
		Short:        "Operator tooling for the complaint portal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = open()
			return err
		},
	}
	get := func() *app { return a }

	root.AddCommand(
		newMigrateCmd(get),
		newCreateAdminCmd(get),
		newGrantRoleCmd(get),
		newSetStatusCmd(get),
		newListCmd(get),
		newAddDepartmentCmd(get),
	)
	return root
}

func newMigrateCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := get().store.Migrate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations complete")
			return nil
		},
	}
}

func newCreateAdminCmd(get func() *app) *cobra.Command {
	var fullName string
	cmd := &cobra.Command{
		Use:   "create-admin <email> <password>",
		Short: "Register an account with the admin role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := get().auth.CreateAdmin(cmd.Context(), nil, args[0], args[1], fullName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&fullName, "name", "", "full name shown on the dashboard")
	return cmd
}

func newGrantRoleCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "grant-role <user_id> <role>",
		Short: "Add a role (student, department_officer, admin, ombudsperson, company_rep) to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.AppRole(args[1])
			if err := get().auth.GrantRole(cmd.Context(), args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %s to %s\n", role, args[0])
			return nil
		},
	}
}

func newSetStatusCmd(get func() *app) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "set-status <tracking_id> <status>",
		Short: "Move a complaint along its lifecycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := get().complaints.Transition(cmd.Context(), "", args[0], models.Status(args[1]), note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", c.TrackingID, c.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "note recorded in the audit trail")
	return cmd
}

func newListCmd(get func() *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print complaints, newest first, with status counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			complaints, err := get().store.ListComplaints(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TRACKING ID\tSTATUS\tCATEGORY\tSUBMITTED\tTITLE")
			for _, c := range complaints {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					c.TrackingID, c.Status, c.Category, c.SubmittedAt.Format("2006-01-02"), c.Title)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			counts := analysis.Summarize(complaints)
			fmt.Fprintf(cmd.OutOrStdout(), "total=%d pending=%d in_progress=%d resolved=%d\n",
				counts.Total, counts.Pending, counts.InProgress, counts.Resolved)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows (0 = all)")
	return cmd
}

func newAddDepartmentCmd(get func() *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "add-department <name>",
		Short: "Create a department complaints can be routed to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := &models.Department{Name: args[0]}
			if email != "" {
				d.Email = &email
			}
			if err := get().store.SaveDepartment(cmd.Context(), d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "department %s created (%s)\n", d.Name, d.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "contact address")
	return cmd
}
