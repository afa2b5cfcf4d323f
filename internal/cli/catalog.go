package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/integrations/catalog"
)

func (c *CLI) catalogCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "catalog <name>",
		Short: "Query a reference catalog",
		Long: fmt.Sprintf(`Query a reference catalog (%s).

Meteorites and comets come from NASA's open data portal; the solar-system
catalogs from the Solar System OpenData API. Catalogs are cached for a day.`, strings.Join(catalog.Names, ", ")),
		Example: `  orbit catalog planets
  orbit catalog meteorites --limit 20
  orbit catalog body ceres`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: catalog.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.newSpace()
			if err != nil {
				return err
			}
			defer sc.Close()

			v, err := fetch(cmd.Context(), c, "Fetching catalog...", func(ctx context.Context) (any, error) {
				return sc.Catalog.ByName(ctx, args[0], limit)
			})
			if err != nil {
				return err
			}
			return c.emit(v, func() { renderCatalog(v) })
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, fmt.Sprintf("maximum entries (default %d for open data, all for bodies)", catalog.DefaultLimit))
	cmd.AddCommand(c.catalogBodyCommand())

	return cmd
}

func (c *CLI) catalogBodyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "body <id>",
		Short: "Show one solar-system body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.newSpace()
			if err != nil {
				return err
			}
			defer sc.Close()

			b, err := fetch(cmd.Context(), c, "Fetching body...", func(ctx context.Context) (*catalog.Body, error) {
				return sc.Catalog.Body(ctx, args[0])
			})
			if err != nil {
				return err
			}
			return c.emit(b, func() { renderBody(b) })
		},
	}
}

func renderCatalog(v any) {
	switch v := v.(type) {
	case []catalog.Meteorite:
		rows := make([][]string, len(v))
		for i, m := range v {
			rows[i] = []string{m.Name, m.Class, orDash(m.MassG), m.Fall, orDash(yearOf(m.Year))}
		}
		printTable([]string{"Name", "Class", "Mass (g)", "Fall", "Year"}, rows)
		printCount(len(v), "meteorites")
	case []catalog.Comet:
		rows := make([][]string, len(v))
		for i, cm := range v {
			rows[i] = []string{cm.Object, cm.E, cm.I, cm.Q, orDash(cm.PeriodYr)}
		}
		printTable([]string{"Comet", "e", "i (deg)", "q (AU)", "Period (yr)"}, rows)
		printCount(len(v), "comets")
	case []catalog.Body:
		rows := make([][]string, len(v))
		for i, b := range v {
			rows[i] = []string{b.EnglishName, b.BodyType, fmt.Sprintf("%.0f km", b.MeanRadius), fmt.Sprintf("%.2f", b.Gravity)}
		}
		printTable([]string{"Name", "Type", "Mean radius", "Gravity (m/s²)"}, rows)
		printCount(len(v), "bodies")
	}
}

func renderBody(b *catalog.Body) {
	printTitle(b.EnglishName, b.BodyType)
	printKeyValue("ID", b.ID)
	printKeyValue("Mean radius", fmt.Sprintf("%.1f km", b.MeanRadius))
	printKeyValue("Gravity", fmt.Sprintf("%.2f m/s²", b.Gravity))
	printKeyValue("Density", fmt.Sprintf("%.2f g/cm³", b.Density))
	if b.Mass != nil {
		printKeyValue("Mass", fmt.Sprintf("%.3f×10^%d kg", b.Mass.Value, b.Mass.Exponent))
	}
	if b.SemimajorAxis > 0 {
		printKeyValue("Semimajor axis", fmt.Sprintf("%.0f km", b.SemimajorAxis))
	}
	if b.SideralOrbit > 0 {
		printKeyValue("Orbit", fmt.Sprintf("%.2f days", b.SideralOrbit))
	}
	if b.AroundPlanet != nil {
		printKeyValue("Orbits", b.AroundPlanet.Planet)
	}
	if len(b.Moons) > 0 {
		printKeyValue("Moons", fmt.Sprintf("%d", len(b.Moons)))
	}
	if b.DiscoveredBy != "" {
		printKeyValue("Discovered", strings.TrimSpace(b.DiscoveredBy+" "+b.DiscoveryDate))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// yearOf trims a floating timestamp such as "1880-01-01T00:00:00.000" to its year.
func yearOf(s string) string {
	if len(s) >= 4 {
		return s[:4]
	}
	return s
}
