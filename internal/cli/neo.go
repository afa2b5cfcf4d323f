package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations/neo"
)

func (c *CLI) neoCommand() *cobra.Command {
	var start, end string
	var hazardousOnly bool

	cmd := &cobra.Command{
		Use:   "neo",
		Short: "List near-Earth objects passing close to Earth",
		Long: `List near-Earth objects by closest approach, for a window of up to 7 days.

Without flags today's approaches are shown.`,
		Example: `  orbit neo
  orbit neo --start 2024-03-01 --end 2024-03-07 --hazardous
  orbit neo lookup 3542519`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if start == "" {
				start = time.Now().UTC().Format(errors.DateLayout)
			}
			if end == "" {
				end = start
			}
			return c.runNEOFeed(cmd.Context(), start, end, hazardousOnly)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD, default --start)")
	cmd.Flags().BoolVar(&hazardousOnly, "hazardous", false, "only potentially hazardous objects")

	cmd.AddCommand(c.neoLookupCommand())
	cmd.AddCommand(c.neoBrowseCommand())

	return cmd
}

func (c *CLI) neoLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <id>",
		Short: "Show one object by its JPL small-body ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.newSpace()
			if err != nil {
				return err
			}
			defer sc.Close()

			obj, err := fetch(cmd.Context(), c, "Looking up object...", func(ctx context.Context) (*neo.Object, error) {
				return sc.NEO.Lookup(ctx, args[0])
			})
			if err != nil {
				return err
			}
			return c.emit(obj, func() { renderObject(obj) })
		},
	}
}

func (c *CLI) neoBrowseCommand() *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the full near-Earth object catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := c.newSpace()
			if err != nil {
				return err
			}
			defer sc.Close()

			bp, err := fetch(cmd.Context(), c, "Browsing catalog...", func(ctx context.Context) (*neo.BrowsePage, error) {
				return sc.NEO.Browse(ctx, page, size)
			})
			if err != nil {
				return err
			}
			return c.emit(bp, func() {
				renderObjects(bp.Objects)
				printDetail("page %d of %d", bp.Page.Number+1, bp.Page.TotalPages)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "0-based page")
	cmd.Flags().IntVar(&size, "size", 20, "objects per page (max 20)")
	return cmd
}

func (c *CLI) runNEOFeed(ctx context.Context, start, end string, hazardousOnly bool) error {
	sc, err := c.newSpace()
	if err != nil {
		return err
	}
	defer sc.Close()

	objs, err := fetch(ctx, c, "Fetching approaches...", func(ctx context.Context) ([]neo.Object, error) {
		return sc.NEO.Feed(ctx, start, end)
	})
	if err != nil {
		return err
	}
	if hazardousOnly {
		objs = neo.Hazardous(objs)
	}
	return c.emit(objs, func() {
		if len(objs) == 0 {
			printInfo("No close approaches between %s and %s", start, end)
			return
		}
		renderObjects(objs)
	})
}

func renderObjects(objs []neo.Object) {
	rows := make([][]string, len(objs))
	hazardous := 0
	for i := range objs {
		o := &objs[i]
		when, miss, speed := "-", "-", "-"
		if a := o.NextApproach(); a != nil {
			when = a.Time().Format("2006-01-02 15:04")
			miss = formatKilometers(a.MissKilometers())
			speed = a.RelativeVelocity.KilometersPerSecond
			if f, err := strconv.ParseFloat(speed, 64); err == nil {
				speed = fmt.Sprintf("%.1f km/s", f)
			}
		}
		flag := ""
		if o.Hazardous {
			flag = StyleDanger.Render("hazardous")
			hazardous++
		}
		size := fmt.Sprintf("%.0f–%.0f m", o.EstimatedDiameter.Meters.Min, o.EstimatedDiameter.Meters.Max)
		rows[i] = []string{o.Name, when, miss, speed, size, flag}
	}
	printTable([]string{"Name", "Closest approach (UTC)", "Miss distance", "Speed", "Diameter", ""}, rows)
	printCount(len(objs), "objects", fmt.Sprintf("%d potentially hazardous", hazardous))
}

func renderObject(o *neo.Object) {
	suffix := ""
	if o.Hazardous {
		suffix = "potentially hazardous"
	}
	printTitle(o.Name, suffix)
	printKeyValue("ID", o.ID)
	printKeyValue("Magnitude", fmt.Sprintf("%.2f H", o.AbsoluteMagnitude))
	printKeyValue("Diameter", fmt.Sprintf("%.0f–%.0f m", o.EstimatedDiameter.Meters.Min, o.EstimatedDiameter.Meters.Max))
	printKeyValue("Sentry", strconv.FormatBool(o.Sentry))
	printKeyValue("Approaches", strconv.Itoa(len(o.CloseApproaches)))
	if a := o.NextApproach(); a != nil {
		printKeyValue("First listed", fmt.Sprintf("%s, %s from %s", a.Time().Format(errors.DateLayout), formatKilometers(a.MissKilometers()), a.OrbitingBody))
	}
	printLink(o.JPLURL)
}

func formatKilometers(km float64) string {
	switch {
	case km >= 1e6:
		return fmt.Sprintf("%.2fM km", km/1e6)
	case km >= 1e3:
		return fmt.Sprintf("%.0fk km", km/1e3)
	default:
		return fmt.Sprintf("%.0f km", km)
	}
}
