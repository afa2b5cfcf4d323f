package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/integrations/mars"
)

type marsOptions struct {
	sol       int
	earthDate string
	camera    string
	page      int
	latest    bool
	manifest  bool
}

func (c *CLI) marsCommand() *cobra.Command {
	var opts marsOptions

	rovers := make([]string, len(mars.Rovers))
	for i, r := range mars.Rovers {
		rovers[i] = string(r)
	}

	cmd := &cobra.Command{
		Use:   "mars <rover>",
		Short: "Browse Mars rover photos",
		Long: fmt.Sprintf(`Browse photos taken by a Mars rover (%s).

Photos are selected by --sol (Martian day, default 1000) or --earth-date.
--latest shows the most recent photos and --manifest the mission summary.`, strings.Join(rovers, ", ")),
		Example: `  orbit mars curiosity --sol 1000 --camera fhaz
  orbit mars perseverance --latest
  orbit mars opportunity --manifest`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: rovers,
		RunE: func(cmd *cobra.Command, args []string) error {
			rover, err := mars.ParseRover(args[0])
			if err != nil {
				return err
			}
			q := mars.Query{EarthDate: opts.earthDate, Camera: opts.camera, Page: opts.page}
			if cmd.Flags().Changed("sol") {
				q.Sol = &opts.sol
			}
			return c.runMars(cmd.Context(), rover, q, opts)
		},
	}

	cmd.Flags().IntVar(&opts.sol, "sol", 0, "Martian day since landing")
	cmd.Flags().StringVar(&opts.earthDate, "earth-date", "", "Earth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.camera, "camera", "", "camera abbreviation (e.g. FHAZ, NAVCAM)")
	cmd.Flags().IntVar(&opts.page, "page", 0, "1-based page of 25 photos (0 for all)")
	cmd.Flags().BoolVar(&opts.latest, "latest", false, "show the most recent photos")
	cmd.Flags().BoolVar(&opts.manifest, "manifest", false, "show the mission manifest")
	cmd.MarkFlagsMutuallyExclusive("sol", "earth-date", "latest", "manifest")

	return cmd
}

func (c *CLI) runMars(ctx context.Context, rover mars.Rover, q mars.Query, opts marsOptions) error {
	sc, err := c.newSpace()
	if err != nil {
		return err
	}
	defer sc.Close()

	if opts.manifest {
		m, err := fetch(ctx, c, "Fetching manifest...", func(ctx context.Context) (*mars.Manifest, error) {
			return sc.Mars.Manifest(ctx, rover)
		})
		if err != nil {
			return err
		}
		return c.emit(m, func() { renderManifest(m) })
	}

	photos, err := fetch(ctx, c, "Fetching photos...", func(ctx context.Context) ([]mars.Photo, error) {
		if opts.latest {
			return sc.Mars.Latest(ctx, rover)
		}
		return sc.Mars.Photos(ctx, rover, q)
	})
	if err != nil {
		return err
	}
	return c.emit(photos, func() { renderPhotos(rover, photos) })
}

func renderPhotos(rover mars.Rover, photos []mars.Photo) {
	if len(photos) == 0 {
		printInfo("No photos from %s for that query", rover)
		printNextStep("See which sols have photos", "orbit mars "+string(rover)+" --manifest")
		return
	}
	rows := make([][]string, len(photos))
	cameras := map[string]bool{}
	for i, p := range photos {
		rows[i] = []string{strconv.Itoa(p.ID), strconv.Itoa(p.Sol), p.EarthDate, p.Camera.Name, p.ImgSrc}
		cameras[p.Camera.Name] = true
	}
	printTable([]string{"ID", "Sol", "Earth date", "Camera", "Image"}, rows)
	printCount(len(photos), "photos", fmt.Sprintf("%d cameras", len(cameras)))
}

func renderManifest(m *mars.Manifest) {
	printTitle(m.Name, m.Status)
	printKeyValue("Launched", m.LaunchDate)
	printKeyValue("Landed", m.LandingDate)
	printKeyValue("Latest sol", fmt.Sprintf("%d (%s)", m.MaxSol, m.MaxDate))
	printKeyValue("Photos", strconv.Itoa(m.TotalPhotos))

	// The tail of the manifest is the most useful part.
	recent := m.Photos
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	if len(recent) == 0 {
		return
	}
	printNewline()
	rows := make([][]string, len(recent))
	for i, s := range recent {
		rows[i] = []string{strconv.Itoa(s.Sol), s.EarthDate, strconv.Itoa(s.TotalPhotos), strings.Join(s.Cameras, " ")}
	}
	printTable([]string{"Sol", "Earth date", "Photos", "Cameras"}, rows)
}
