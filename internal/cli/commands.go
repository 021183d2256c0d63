package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clublink/usersync/internal/core/domain"
)

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.controller(cmd)
			err := c.CheckHealth(commandContext(cmd))
			renderHealth(cmd.OutOrStdout(), c.Snapshot(), a.baseURL)
			return err
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.controller(cmd)
			if err := c.ListUsers(commandContext(cmd)); err != nil {
				return err
			}
			renderUsers(cmd.OutOrStdout(), c.Snapshot().Users)
			return nil
		},
	}
}

func newCreateCommand(a *app) *cobra.Command {
	var draft draftFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.controller(cmd)
			c.OpenCreate()
			c.SetDraft(draft.apply(domain.NewDraft()))
			if err := c.Submit(commandContext(cmd)); err != nil {
				return err
			}
			users := c.Snapshot().Users
			renderUsers(cmd.OutOrStdout(), users[len(users)-1:])
			return nil
		},
	}
	draft.register(cmd)
	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var (
		id    string
		draft draftFlags
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a user; unset flags keep their current values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			c := a.controller(cmd)
			if err := c.ListUsers(ctx); err != nil {
				return err
			}

			current, ok := findUser(c.Snapshot().Users, id)
			if !ok {
				return fmt.Errorf("user %s not found", id)
			}

			c.BeginEdit(current)
			c.SetDraft(draft.apply(c.Snapshot().Draft))
			if err := c.Submit(ctx); err != nil {
				return err
			}

			updated, _ := findUser(c.Snapshot().Users, id)
			renderUsers(cmd.OutOrStdout(), []domain.User{updated})
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "ID of the user to update")
	_ = cmd.MarkFlagRequired("id")
	draft.register(cmd)
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			c := a.controller(cmd)
			// Best effort: the list only feeds the confirmation prompt.
			_ = c.ListUsers(ctx)

			before := len(c.Snapshot().Users)
			if err := c.DeleteUser(ctx, id); err != nil {
				return err
			}
			if len(c.Snapshot().Users) < before {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", id)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "ID of the user to delete")
	cmd.Flags().BoolVarP(&a.yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newRefreshCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Check health and reload users in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.controller(cmd)
			err := c.RefreshAll(commandContext(cmd))
			renderSnapshot(cmd.OutOrStdout(), c.Snapshot(), a.baseURL)
			return err
		},
	}
}

// draftFlags binds --email, --clerk-id and --role and overlays whichever
// were set onto a draft.
type draftFlags struct {
	cmd     *cobra.Command
	email   string
	clerkID string
	role    string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	f.cmd = cmd
	cmd.Flags().StringVar(&f.email, "email", "", "email address")
	cmd.Flags().StringVar(&f.clerkID, "clerk-id", "", "Clerk identity reference")
	cmd.Flags().StringVar(&f.role, "role", "", "role: admin, owner or member")
}

func (f *draftFlags) apply(d domain.Draft) domain.Draft {
	if f.cmd.Flags().Changed("email") {
		d.Email = f.email
	}
	if f.cmd.Flags().Changed("clerk-id") {
		d.ClerkID = f.clerkID
	}
	if f.cmd.Flags().Changed("role") {
		d.Role = domain.Role(f.role)
	}
	return d
}

func findUser(users []domain.User, id string) (domain.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}
