package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/morning-report/internal/speech"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		format    string
		maxLength int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the stored morning report as text or SSML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "ssml" {
				return fmt.Errorf("unknown format %q, want text or ssml", format)
			}
			opts := speech.Options{MaxLength: maxLength}
			if err := opts.Validate(); err != nil {
				return err
			}
			repo, done, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			rep, err := repo.Report(cmd.Context())
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}
			article, err := rep.Article()
			if err != nil {
				return fmt.Errorf("parse report body: %w", err)
			}
			if format == "text" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), speech.PlainText(article))
				return err
			}
			r := speech.RenderSSML(article, opts)
			if r.Truncated() {
				fmt.Fprintf(cmd.ErrOrStderr(), "truncated: %d of %d sections fit\n", r.Emitted, r.Sections)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), r.SSML)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or ssml")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "SSML length budget (0 uses the platform default)")
	return cmd
}

func (a *app) podcastsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "podcasts",
		Short: "List the stored podcast episodes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			list, err := repo.Podcasts(cmd.Context())
			if err != nil {
				return fmt.Errorf("read podcasts: %w", err)
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOKEN\tPUBLISHED\tTITLE")
			for _, p := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Token, p.PublishedAt.Format(time.DateOnly), p.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
