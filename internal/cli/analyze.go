package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evcraddock/litetravel/internal/client"
)

func newAnalyzeCmd() *cobra.Command {
	var city, source, template string
	var limit int

	cmd := &cobra.Command{
		Use:   "analyze <keyword>",
		Short: "Fetch travel notes for a keyword and analyze them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > 20 {
				return fmt.Errorf("--limit must be between 1 and 20")
			}
			resp, err := newAPIClient().AnalyzeSearch(cmd.Context(), client.SearchRequest{
				Keyword:  args[0],
				City:     city,
				Source:   source,
				Limit:    limit,
				Template: template,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, resp)
			}
			b := resp.Data
			if b == nil || len(b.Results) == 0 {
				fmt.Fprintln(out, "No notes found.")
				return nil
			}
			for _, r := range b.Results {
				printAnalysis(out, r)
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Analyzed %d notes: %d ok, %d failed (%.1fs)\n",
				b.TotalCount, b.SuccessCount, b.FailedCount, b.ProcessingTime)
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "city the notes are about")
	cmd.Flags().StringVar(&source, "source", "mock", "note source (mock|amap)")
	cmd.Flags().IntVar(&limit, "limit", 5, "number of notes to analyze (1-20)")
	cmd.Flags().StringVar(&template, "template", "", "analysis template (see 'lt analyze templates')")

	cmd.AddCommand(newAnalyzeTextCmd(), newAnalyzeTemplatesCmd(), newAnalyzeStatusCmd())
	return cmd
}

func newAnalyzeTextCmd() *cobra.Command {
	var req client.TextRequest
	var tags string

	cmd := &cobra.Command{
		Use:   "text <title> <content>",
		Short: "Analyze a single piece of text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Title, req.Content = args[0], args[1]
			if tags != "" {
				for _, t := range strings.Split(tags, ",") {
					if t = strings.TrimSpace(t); t != "" {
						req.Tags = append(req.Tags, t)
					}
				}
			}
			resp, err := newAPIClient().AnalyzeText(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, resp)
			}
			if resp.Data != nil {
				printAnalysis(out, *resp.Data)
			}
			if !resp.Success {
				return fmt.Errorf("analysis failed: %s", resp.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&req.Location, "location", "", "place the text is about")
	cmd.Flags().StringVar(&req.City, "city", "", "city the text is about")
	cmd.Flags().StringVar(&req.ContentType, "type", "", "content type (attraction|dining|hotel|commute|general)")
	return cmd
}

func newAnalyzeTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List analysis templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newAPIClient().AnalyzeTemplates(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, resp)
			}
			names := append([]string(nil), resp.Templates...)
			sort.Strings(names)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDESCRIPTION")
			for _, n := range names {
				fmt.Fprintf(tw, "%s\t%s\n", n, resp.Descriptions[n])
			}
			return tw.Flush()
		},
	}
}

func newAnalyzeStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the server's analysis provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newAPIClient().AnalyzeStatus(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, s)
			}
			key := "no"
			if s.APIKeyConfigured {
				key = "yes"
			}
			fmt.Fprintf(out, "Provider:    %s\n", s.Provider)
			fmt.Fprintf(out, "Model:       %s\n", dash(s.Model))
			fmt.Fprintf(out, "API key:     %s\n", key)
			fmt.Fprintf(out, "Sources:     %s\n", strings.Join(s.RegisteredSources, ", "))
			fmt.Fprintf(out, "Concurrency: %d\n", s.Concurrency)
			return nil
		},
	}
}
