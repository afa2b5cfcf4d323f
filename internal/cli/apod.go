package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations/apod"
)

type apodOptions struct {
	date     string
	start    string
	end      string
	count    int
	fallback bool
}

func (c *CLI) apodCommand() *cobra.Command {
	var opts apodOptions

	cmd := &cobra.Command{
		Use:   "apod",
		Short: "Show the Astronomy Picture of the Day",
		Long: `Show the Astronomy Picture of the Day.

Without flags today's picture is shown. Use --date for a single day,
--start/--end for a range of up to 100 days, or --count for random pictures.`,
		Example: `  orbit apod
  orbit apod --date 1995-06-16
  orbit apod --start 2024-01-01 --end 2024-01-07
  orbit apod --count 3 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runAPOD(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "picture for a day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.start, "start", "", "first day of a range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.end, "end", "", "last day of a range (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.count, "count", 0, fmt.Sprintf("number of random pictures (1-%d)", apod.MaxCount))
	cmd.Flags().BoolVar(&opts.fallback, "fallback", false, "show a placeholder instead of failing when the picture is unavailable")
	cmd.MarkFlagsMutuallyExclusive("date", "start", "count")
	cmd.MarkFlagsMutuallyExclusive("date", "end", "count")
	cmd.MarkFlagsRequiredTogether("start", "end")

	return cmd
}

func (c *CLI) runAPOD(ctx context.Context, opts apodOptions) error {
	sc, err := c.newSpace()
	if err != nil {
		return err
	}
	defer sc.Close()

	switch {
	case opts.count > 0:
		pics, err := fetch(ctx, c, "Fetching random pictures...", func(ctx context.Context) (apod.Pictures, error) {
			return sc.APOD.Random(ctx, opts.count)
		})
		if err != nil {
			return err
		}
		return c.emit(pics, func() { renderPictures(pics) })

	case opts.start != "":
		pics, err := fetch(ctx, c, "Fetching pictures...", func(ctx context.Context) (apod.Pictures, error) {
			return sc.APOD.Range(ctx, opts.start, opts.end)
		})
		if err != nil {
			return err
		}
		return c.emit(pics, func() { renderPictures(pics) })
	}

	pic, err := fetch(ctx, c, "Fetching picture...", func(ctx context.Context) (*apod.Picture, error) {
		if opts.date != "" {
			return sc.APOD.ForDate(ctx, opts.date)
		}
		return sc.APOD.Today(ctx)
	})
	if opts.fallback {
		if err != nil {
			c.Logger.Warn("picture unavailable", "err", errors.UserMessage(err))
		}
		pic, err = apod.OrFallback(pic, err)
	}
	if err != nil {
		return err
	}
	return c.emit(pic, func() { renderPicture(pic) })
}

func renderPicture(p *apod.Picture) {
	printTitle(p.Title, p.Date)
	if p.Copyright != "" {
		printDetail("© %s", p.Copyright)
	}
	printNewline()
	fmt.Fprintln(stdout, wrap(p.Explanation, 80))
	printNewline()
	if p.IsVideo() {
		printKeyValue("Video", p.URL)
		printLink(p.ThumbnailURL)
		return
	}
	printKeyValue("Image", p.URL)
	if p.HDURL != "" {
		printKeyValue("HD", p.HDURL)
	}
}

func renderPictures(pics apod.Pictures) {
	rows := make([][]string, len(pics))
	for i, p := range pics {
		rows[i] = []string{p.Date, truncate(p.Title, 48), p.MediaType, p.URL}
	}
	printTable([]string{"Date", "Title", "Media", "URL"}, rows)
	printCount(len(pics), "pictures")
}
