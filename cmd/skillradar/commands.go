package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kittclouds/skillradar/internal/store"
	"github.com/kittclouds/skillradar/pkg/aggregate"
	"github.com/kittclouds/skillradar/pkg/export"
	"github.com/kittclouds/skillradar/pkg/model"
	"github.com/kittclouds/skillradar/pkg/radar"
	"github.com/kittclouds/skillradar/pkg/snapshot"
)

func newLevelsCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Print the level of every competency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			levels := w.session.Levels()
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), levels)
			}
			return writeLevels(cmd.OutOrStdout(), levels)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func writeLevels(out io.Writer, levels []aggregate.Level) error {
	if len(levels) == 0 {
		_, err := fmt.Fprintln(out, "No competencies yet.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPETENCY\tLEVEL")
	for _, lv := range levels {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", lv.CompetencyID, lv.Name, radar.FormatLevel(lv.Level))
	}
	return tw.Flush()
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var output string
	var width, height float64
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the radar chart as SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			if width <= 0 {
				width = w.cfg.Chart.Width
			}
			if height <= 0 {
				height = w.cfg.Chart.Height
			}
			svg := radar.NewSVG(width, height)
			w.session.Render(svg)
			return writeOutput(cmd.OutOrStdout(), output, svg.Bytes())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().Float64Var(&width, "width", 0, "Chart width (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "Chart height (default from config)")
	return cmd
}

func newLinkCmd(opts *rootOptions) *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print a read-only share link for the current data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			if base == "" {
				base = w.cfg.Share.BaseURL
			}
			link, err := w.session.ShareURL(base)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "Viewer URL (default from config)")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output, title string
	var autoPrint bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a standalone HTML document with the chart and task breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			eo := export.Options{
				Title:     w.cfg.Export.Title,
				AutoPrint: w.cfg.Export.AutoPrint || autoPrint,
				ShareBase: w.cfg.Share.BaseURL,
				Width:     w.cfg.Chart.Width,
				Height:    w.cfg.Chart.Height,
			}
			if title != "" {
				eo.Title = title
			}
			doc, err := w.session.ExportHTML(eo)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, doc)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&title, "title", "", "Document title (default from config)")
	cmd.Flags().BoolVar(&autoPrint, "print", false, "Open the print dialog when the document loads")
	return cmd
}

func newDecodeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token|url>",
		Short: "Decode a share link or token and print its data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := snapshot.Decode(tokenFrom(args[0]))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				model.Dataset
				Levels []aggregate.Level `json:"levels"`
			}{ds, aggregate.Levels(ds.View())})
		},
	}
}

// tokenFrom accepts a bare token, a "#d=" fragment or a full share URL.
func tokenFrom(arg string) string {
	arg = strings.TrimSpace(arg)
	if _, frag, ok := strings.Cut(arg, "#"); ok {
		arg = frag
	}
	return strings.TrimPrefix(arg, snapshot.FragmentPrefix)
}

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Replace the saved data with the demo dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			p, err := openPersister(cfg)
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer p.Close()
			if err := p.Save(cmd.Context(), store.Demo().Document()); err != nil {
				return fmt.Errorf("save state: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Demo data written to %s\n", cfg.Storage.Path)
			return err
		},
	}
}

func newAddTaskCmd(opts *rootOptions) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add-task <name>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			t, err := w.session.AddTask(args[0], description)
			if err != nil {
				return ignoreEmpty(err)
			}
			if err := w.save(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", t.ID, t.Name)
			return err
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	return cmd
}

func newAddCompetencyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-competency <name>",
		Short: "Add a competency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			c, err := w.session.AddCompetency(args[0])
			if err != nil {
				return ignoreEmpty(err)
			}
			if err := w.save(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added competency %d: %s\n", c.ID, c.Name)
			return err
		},
	}
}

func newScoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score <task-id> <competency-id> <value>",
		Short: "Set a score from 1 to 10; 0 or garbage removes it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("task id: %w", err)
			}
			compID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("competency id: %w", err)
			}

			w, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			v, err := w.session.SetScoreInput(taskID, compID, args[2])
			if err != nil {
				return err
			}
			if err := w.save(cmd.Context()); err != nil {
				return err
			}
			if v == 0 {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed score %d/%d\n", taskID, compID)
			} else {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Score %d/%d = %d\n", taskID, compID, v)
			}
			return err
		},
	}
}

func newSimilarCmd(opts *rootOptions) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "similar <task-id>",
		Short: "List tasks with the closest competency profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("task id: %w", err)
			}
			w, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			tasks, err := w.session.Similar(taskID, k)
			if err != nil {
				return err
			}
			for _, t := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", t.ID, t.Name)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "limit", "k", 3, "Number of tasks to list")
	return cmd
}

// =============================================================================
// Output helpers
// =============================================================================

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
