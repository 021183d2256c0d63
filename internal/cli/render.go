package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/clublink/usersync/internal/core/domain"
	"github.com/clublink/usersync/internal/core/service"
)

func renderHealth(w io.Writer, snap service.Snapshot, baseURL string) {
	fmt.Fprintf(w, "%s\n", snap.Health.Label())
	fmt.Fprintf(w, "Status: %s\n", snap.Health.ConnectionLabel())
	fmt.Fprintf(w, "API: %s\n", baseURL)
	if msg := snap.ErrorMessage(); msg != "" {
		fmt.Fprintf(w, "Error: %s\n", msg)
	}
}

func renderUsers(w io.Writer, users []domain.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROLE\tCLERK ID\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, u.ClerkID, u.CreatedAt)
	}
	_ = tw.Flush()
}

func renderSnapshot(w io.Writer, snap service.Snapshot, baseURL string) {
	renderHealth(w, snap, baseURL)
	fmt.Fprintf(w, "Users: %d\n\n", len(snap.Users))
	renderUsers(w, snap.Users)
}
