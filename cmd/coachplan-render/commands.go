package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/claude/coachplan/internal/linkback"
	"github.com/claude/coachplan/internal/plan"
	"github.com/claude/coachplan/internal/render"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	style  string
	weeks  []int
	client string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.style, "style", "s", string(render.StyleCompact), "Document style (compact, landscape, enhanced)")
	cmd.Flags().IntSliceVarP(&f.weeks, "weeks", "w", nil, "Weeks to print (default every week)")
	cmd.Flags().StringVar(&f.client, "client", "", "Client name to print instead of the one stored on the plan")
}

func (f *renderFlags) request(p plan.WorkoutPlan) render.Request {
	return render.Request{Plan: p, ClientName: f.client, Weeks: f.weeks, Style: render.Style(f.style)}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan.json>",
		Short: "Check a plan document and list every problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPlan(args[0])
			if err != nil {
				return err
			}
			err = plan.Validate(p)
			var verrs plan.ValidationErrors
			if errors.As(err, &verrs) {
				fmt.Fprintln(cmd.OutOrStdout(), validationTable(verrs))
				return fmt.Errorf("%s: %d problem(s)", args[0], len(verrs))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d sessions, %d rows)\n", args[0], len(p.Sessions), p.RowCount())
			return nil
		},
	}
}

func newPagesCommand(opts *options) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "pages <plan.json>",
		Short: "Show how a plan paginates without drawing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPlan(args[0])
			if err != nil {
				return err
			}
			svc := render.NewService(render.Options{}, opts.logger(cmd))
			doc, err := svc.Layout(cmd.Context(), flags.request(p))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pagesTable(doc.Summary()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPDFCommand(opts *options) *cobra.Command {
	flags := &renderFlags{}
	var out, baseURL string
	cmd := &cobra.Command{
		Use:   "pdf <plan.json>",
		Short: "Render a plan to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPlan(args[0])
			if err != nil {
				return err
			}
			svcOpts := render.Options{BaseURL: baseURL}
			if baseURL != "" {
				svcOpts.Linkback = linkback.New().Image
			}
			svc := render.NewService(svcOpts, opts.logger(cmd))

			res, err := svc.Render(cmd.Context(), flags.request(p))
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = res.Filename
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, res.Filename)
			}
			if err := os.WriteFile(path, res.Data, 0o644); err != nil {
				return fmt.Errorf("write document: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), pagesTable(res.Summary))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pages, %d bytes)\n", path, res.Summary.PageCount, len(res.Data))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file or directory (default {title}_{client}.pdf)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Public plan URL base; enables the scan-to-view code")
	return cmd
}

func pagesTable(s render.Summary) string {
	var rows [][]string
	for _, p := range s.Pages {
		var units []string
		for _, u := range p.Units {
			units = append(units, u.Session+" / "+string(u.Section)+" "+strings.Join(u.Labels, ","))
		}
		used := strconv.FormatFloat(p.Used, 'f', 1, 64)
		if p.Overflow {
			used += " (overflow)"
		}
		rows = append(rows, []string{strconv.Itoa(p.Number), strconv.Itoa(len(p.Units)), used, strings.Join(units, "\n")})
	}
	return renderTable(
		[]string{"Page", "Units", "Used mm", "Content"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	)
}

func validationTable(errs plan.ValidationErrors) string {
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, []string{e.Path, e.Message})
	}
	return renderTable([]string{"Path", "Problem"}, rows, nil)
}
