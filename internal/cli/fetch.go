package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrsandeep/tokyo-links/internal/aggregate"
	"github.com/vrsandeep/tokyo-links/internal/models"
	"github.com/vrsandeep/tokyo-links/internal/util"
)

// stdoutPath selects standard output instead of a result file.
const stdoutPath = "-"

type fetchOptions struct {
	url      string
	ranges   map[models.ContentType]*string
	metric   string
	template string
	rename   bool
	output   string
	workers  int
	order    []string
}

func newFetchCommand(global *globalOptions) *cobra.Command {
	opts := &fetchOptions{ranges: map[models.ContentType]*string{}}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Extract download links for a series",
		Example: `  tokyo-links fetch --url https://www.tokyoinsider.com/anime/B/Bleach_(TV) --episode 1-12 --ova none --metric downloads
  tokyo-links fetch --url ... --rename --template "{anime_name} {episode_number}" --output -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rename") && cmd.Flags().Changed("template") {
				opts.rename = true
			}
			return runFetch(cmd, global, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", "", "series catalog page URL")
	for _, t := range models.ContentTypes {
		opts.ranges[t] = f.String(string(t), "all", fmt.Sprintf("%s to fetch: all, none, N or A-B", t.Label()))
	}
	f.StringVar(&opts.metric, "metric", "size", "ranking metric: size, downloads or latest")
	f.StringVar(&opts.template, "template", "", "filename template, default "+models.DefaultTemplate)
	f.BoolVar(&opts.rename, "rename", false, "append a filename to every link")
	f.StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default from config)`)
	f.IntVar(&opts.workers, "workers", 0, "number of item pages fetched at once (default from config)")
	f.StringSliceVar(&opts.order, "order", nil, "content type order of the output, e.g. movie,episode")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

// buildRequest turns the command line into a validated selection.
func buildRequest(opts *fetchOptions) (models.SelectionRequest, error) {
	req := models.SelectionRequest{
		CatalogURL: strings.TrimSpace(opts.url),
		Ranges:     map[models.ContentType]models.IndexRange{},
	}
	for t, raw := range opts.ranges {
		rng, err := models.ParseRange(*raw)
		if err != nil {
			return req, fmt.Errorf("--%s: %w", t, err)
		}
		req.Ranges[t] = rng
	}

	metric, err := models.ParseMetric(opts.metric)
	if err != nil {
		return req, err
	}
	req.Metric = metric

	if opts.rename {
		tmpl := opts.template
		req.Template = &tmpl
	}
	for _, name := range opts.order {
		t, ok := models.ParseContentType(name)
		if !ok {
			return req, fmt.Errorf("%w: unknown content type %q in --order", models.ErrInvalidRequest, name)
		}
		req.TypeOrder = append(req.TypeOrder, t)
	}
	return req, req.Validate()
}

func runFetch(cmd *cobra.Command, global *globalOptions, opts *fetchOptions) error {
	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Fetch.Workers = opts.workers
	}
	output := cfg.Output.Path
	if opts.output != "" {
		output = opts.output
	}
	if output != stdoutPath {
		if err := util.ValidateOutputFile(output); err != nil {
			return err
		}
	}

	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd.OutOrStdout(), output, res.Lines); err != nil {
		return err
	}

	status := cmd.ErrOrStderr()
	fmt.Fprintf(status, "Saved %d of %d links", len(res.Lines), res.Summary.Total)
	if output != stdoutPath {
		fmt.Fprintf(status, " to %s", output)
	}
	fmt.Fprintln(status)
	for _, o := range res.Summary.Failures {
		fmt.Fprintf(status, "  %s %d: %s\n", o.Descriptor.Type, o.Descriptor.Index, o.Reason)
	}
	if res.Partial {
		return errors.New("run cancelled, the output is incomplete")
	}
	return nil
}

func writeOutput(stdout io.Writer, path string, lines []models.OutputLine) error {
	if path == stdoutPath {
		return aggregate.WriteLines(stdout, lines)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := aggregate.WriteLines(f, lines); err != nil {
		f.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	return f.Close()
}
