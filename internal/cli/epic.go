package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/integrations/epic"
)

func (c *CLI) epicCommand() *cobra.Command {
	var collection, date, format string
	var available bool

	cmd := &cobra.Command{
		Use:   "epic",
		Short: "List full-disc Earth images from DSCOVR's EPIC camera",
		Long: `List full-disc Earth images from the EPIC camera on DSCOVR.

Without --date the most recent day is shown. --available lists the days
with images instead.`,
		Example: `  orbit epic
  orbit epic --collection enhanced --date 2024-01-15
  orbit epic --available`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			col, err := epic.ParseCollection(collection)
			if err != nil {
				return err
			}
			if available {
				return c.runEPICAvailable(cmd.Context(), col)
			}
			return c.runEPIC(cmd.Context(), col, date, epic.Format(format))
		},
	}

	cmd.Flags().StringVar(&collection, "collection", string(epic.Natural), "natural or enhanced")
	cmd.Flags().StringVar(&date, "date", "", "capture day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", string(epic.PNG), "archive format for image links (png, jpg, thumbs)")
	cmd.Flags().BoolVar(&available, "available", false, "list days with images")
	cmd.MarkFlagsMutuallyExclusive("date", "available")

	return cmd
}

func (c *CLI) runEPIC(ctx context.Context, col epic.Collection, date string, format epic.Format) error {
	sc, err := c.newSpace()
	if err != nil {
		return err
	}
	defer sc.Close()

	images, err := fetch(ctx, c, "Fetching images...", func(ctx context.Context) ([]epic.Image, error) {
		if date != "" {
			return sc.EPIC.ForDate(ctx, col, date)
		}
		return sc.EPIC.Latest(ctx, col)
	})
	if err != nil {
		return err
	}

	archive := sc.Config().Endpoints.EPICArchive
	type imageWithURL struct {
		epic.Image
		URL string `json:"url"`
	}
	out := make([]imageWithURL, len(images))
	for i, img := range images {
		u, err := epic.ImageURL(archive, col, img, format)
		if err != nil {
			return err
		}
		out[i] = imageWithURL{Image: img, URL: u}
	}

	return c.emit(out, func() {
		if len(out) == 0 {
			printInfo("No %s images for that day", col)
			printNextStep("See which days have images", "orbit epic --available")
			return
		}
		rows := make([][]string, len(out))
		for i, img := range out {
			rows[i] = []string{img.Date, fmt.Sprintf("%.1f, %.1f", img.Centroid.Lat, img.Centroid.Lon), img.URL}
		}
		printTable([]string{"Captured (UTC)", "Centroid", "Image"}, rows)
		printCount(len(out), "images", string(col))
	})
}

func (c *CLI) runEPICAvailable(ctx context.Context, col epic.Collection) error {
	sc, err := c.newSpace()
	if err != nil {
		return err
	}
	defer sc.Close()

	dates, err := fetch(ctx, c, "Fetching dates...", func(ctx context.Context) ([]string, error) {
		return sc.EPIC.AvailableDates(ctx, col)
	})
	if err != nil {
		return err
	}
	slices.Sort(dates)
	return c.emit(dates, func() {
		if len(dates) == 0 {
			printInfo("No %s images available", col)
			return
		}
		printKeyValue("First", dates[0])
		printKeyValue("Latest", dates[len(dates)-1])
		printCount(len(dates), "days", string(col))
	})
}
