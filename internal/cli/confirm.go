package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/clublink/usersync/internal/core/ports"
)

// promptConfirmer asks on out and reads a y/N answer from in. Anything other
// than an explicit yes declines, including EOF.
func promptConfirmer(in io.Reader, out io.Writer) ports.Confirmer {
	reader := bufio.NewReader(in)
	return func(_ context.Context, req ports.PendingDelete) bool {
		target := req.ID
		if req.Email != "" {
			target = fmt.Sprintf("%s (%s)", req.Email, req.ID)
		}
		fmt.Fprintf(out, "Delete User\nAre you sure you want to delete %s? [y/N]: ", target)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}
