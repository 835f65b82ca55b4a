package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
)

// newBrowseCmd reads one filter set per input line and refetches on each.
// A line is a list of key=value pairs; bare words become the search term.
// Only the result for the latest line is printed.
func newBrowseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively filter projects, one filter line per input line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			feed := listing.NewFeed(opts.client().Projects())
			defer feed.Close()

			states, unsubscribe := feed.Subscribe()
			defer unsubscribe()

			done := make(chan struct{})
			go func() {
				defer close(done)
				render(cmd.OutOrStdout(), cmd.ErrOrStderr(), states)
			}()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "quit" || line == "exit" {
					break
				}
				feed.Fetch(cmd.Context(), parseFilterLine(line), 1, opts.pageSize)
			}

			feed.Wait()
			unsubscribe()
			<-done
			return scanner.Err()
		},
	}
}

func render(w, errw io.Writer, states <-chan listing.State[models.Project]) {
	for s := range states {
		switch s.Kind {
		case listing.Loading:
			if s.Generation > 0 {
				fmt.Fprintln(w, "loading...")
			}
		case listing.Failed:
			fmt.Fprintf(errw, "error: %s\n", s.Message)
		case listing.Success:
			printProjects(w, s.Page)
		}
	}
}

func parseFilterLine(line string) query.Filters {
	var f query.Filters
	var words []string
	for _, tok := range strings.Fields(line) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			words = append(words, tok)
			continue
		}
		switch strings.ToLower(key) {
		case "search":
			words = append(words, value)
		case "category":
			f.Category = value
		case "stage":
			f.Stage = value
		case "location":
			f.Location = value
		default:
			words = append(words, tok)
		}
	}
	f.Search = strings.Join(words, " ")
	return f
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
