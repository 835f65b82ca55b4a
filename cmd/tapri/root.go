package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tapri-app/tapri-api/internal/client"
	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

type rootOptions struct {
	apiURL   string
	token    string
	asJSON   bool
	page     int
	pageSize int
	filters  query.Filters
}

func (o *rootOptions) client() *client.Client {
	var opts []client.Option
	if o.token != "" {
		opts = append(opts, client.WithToken(o.token))
	}
	return client.New(o.apiURL, opts...)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "tapri",
		Short:         "Browse Tapri projects and talent",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("TAPRI_API_URL", "http://localhost:8080/api/v1"), "API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", envOr("TAPRI_TOKEN", ""), "access token")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print the raw page as JSON")
	root.PersistentFlags().IntVar(&opts.pageSize, "page-size", 0, "results per page (server default when 0)")

	root.AddCommand(newProjectsCmd(opts), newTalentCmd(opts), newBrowseCmd(opts))
	return root
}

func addFilterFlags(cmd *cobra.Command, opts *rootOptions, fields ...string) {
	cmd.Flags().StringVarP(&opts.filters.Search, "search", "s", "", "free-text search")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number")
	for _, field := range fields {
		switch field {
		case "category":
			cmd.Flags().StringVar(&opts.filters.Category, field, "", "category filter")
		case "stage":
			cmd.Flags().StringVar(&opts.filters.Stage, field, "", "stage filter")
		case "location":
			cmd.Flags().StringVar(&opts.filters.Location, field, "", "location filter")
		case "skill":
			cmd.Flags().StringVar(&opts.filters.Skill, field, "", "skill filter")
		case "availability":
			cmd.Flags().StringVar(&opts.filters.Availability, field, "", "availability filter")
		}
	}
}

func newProjectsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List approved projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := opts.client().FetchProjects(cmd.Context(), opts.filters, opts.page, opts.pageSize)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			printProjects(cmd.OutOrStdout(), page)
			return nil
		},
	}
	addFilterFlags(cmd, opts, "category", "stage", "location")
	return cmd
}

func newTalentCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "talent",
		Short: "List discoverable profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := opts.client().FetchTalent(cmd.Context(), opts.filters, opts.page, opts.pageSize)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			printTalent(cmd.OutOrStdout(), page)
			return nil
		},
	}
	addFilterFlags(cmd, opts, "location", "skill", "availability")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProjects(w io.Writer, page *listing.Page[models.Project]) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tCATEGORY\tSTAGE\tLOCATION\tOPEN")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", p.Slug, p.Title, p.Category, p.Stage, p.Location, p.OpenPositions)
	}
	tw.Flush()
	printFooter(w, page.Page, len(page.Items), page.HasMore, page.Demo)
}

func printTalent(w io.Writer, page *listing.Page[dto.PublicProfile]) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tROLE\tLOCATION\tAVAILABILITY\tSKILLS")
	for _, p := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.FullName, p.Role, p.Location, p.Availability, strings.Join(p.Skills, ", "))
	}
	tw.Flush()
	printFooter(w, page.Page, len(page.Items), page.HasMore, page.Demo)
}

func printFooter(w io.Writer, page, n int, hasMore, demo bool) {
	line := fmt.Sprintf("page %d, %d result(s)", page, n)
	if hasMore {
		line += ", more available"
	}
	if demo {
		line += " (demo data)"
	}
	fmt.Fprintln(w, line)
}
