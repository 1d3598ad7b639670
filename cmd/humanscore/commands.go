package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/humanscore/internal/app"
	"github.com/hyperifyio/humanscore/internal/report"
	"github.com/hyperifyio/humanscore/internal/tone"
)

func newAnalyzeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [files, globs or urls...]",
		Short: "Score documents (reads stdin when no files are given)",
		Example: "  humanscore analyze post.md\n" +
			"  humanscore analyze 'content/**/*.md' --exclude '**/draft-*' --tone casual\n" +
			"  humanscore analyze https://example.com/post --json\n" +
			"  pbpaste | humanscore analyze --format text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, o, func(ctx context.Context, a *app.App) error {
				var docs []report.Document
				if len(args) == 0 {
					doc, err := a.AnalyzeReader(ctx, "", cmd.InOrStdin())
					if err != nil {
						return err
					}
					docs = []report.Document{doc}
				} else {
					var err error
					docs, err = a.AnalyzeFiles(ctx, args)
					if err != nil {
						return err
					}
				}
				if err := printDocuments(cmd.OutOrStdout(), docs, a.Config()); err != nil {
					return err
				}
				return a.WriteOutputs(docs)
			})
		},
	}
	addOutputFlags(cmd, o)
	cmd.Flags().StringSliceVar(&o.exclude, "exclude", nil, "Glob patterns to skip (matched on path or base name)")
	return cmd
}

func newRewriteCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite <file or url>",
		Short: "Score a document and suggest more natural phrasing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, o, func(ctx context.Context, a *app.App) error {
				doc, err := a.RewriteTarget(ctx, args[0])
				if err != nil {
					return err
				}
				docs := []report.Document{doc}
				if err := printDocuments(cmd.OutOrStdout(), docs, a.Config()); err != nil {
					return err
				}
				return a.WriteOutputs(docs)
			})
		},
	}
	addOutputFlags(cmd, o)
	cmd.Flags().IntVar(&o.rewriteN, "max", 0, "Maximum number of rewrite suggestions (0 uses the default of 8)")
	return cmd
}

func newWatchCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-score a file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, o, func(ctx context.Context, a *app.App) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				out := cmd.OutOrStdout()
				styles := report.StylesFor(out)
				cfg := a.Config()
				return a.Watch(ctx, args[0], func(d report.Document) {
					if cfg.JSON {
						b, err := report.JSON(d.Result)
						if err != nil {
							log.Error().Err(err).Msg("encode result")
							return
						}
						fmt.Fprintln(out, string(b))
						return
					}
					if err := report.Terminal(out, d.Path, d.Result, cfg.Top, styles); err != nil {
						log.Error().Err(err).Msg("print result")
					}
				})
			})
		},
	}
	cmd.Flags().BoolVar(&o.jsonOut, "json", false, "Print one JSON result per analysis")
	return cmd
}

func newTonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tones",
		Short: "List tone presets and their metric weights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TONE\tNAME\tSENT\tPERS\tPATT\tPARA\tCOLL\tINFO\tDESCRIPTION")
			for _, p := range tone.All() {
				w := p.Weights
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
					p.ID, p.Name, w.Sentence, w.Personal, w.Pattern, w.Paragraph, w.Colloquial, w.Informal, p.Description)
			}
			return tw.Flush()
		},
	}
}

// printDocuments writes either the JSON array or the styled terminal summary.
func printDocuments(w io.Writer, docs []report.Document, cfg app.Config) error {
	if cfg.JSON {
		b, err := report.JSONDocuments(docs)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}
	styles := report.StylesFor(w)
	for i, d := range docs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := report.Terminal(w, d.Path, d.Result, cfg.Top, styles); err != nil {
			return err
		}
		if len(d.Rewrites) > 0 {
			if err := report.TerminalRewrites(w, d.Rewrites, styles); err != nil {
				return err
			}
		}
	}
	return nil
}
