package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/space"
)

func (c *CLI) overviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Summarize today: picture, close approaches and solar activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := c.newSpace()
			if err != nil {
				return err
			}
			defer sc.Close()

			ov, err := fetch(cmd.Context(), c, "Fetching overview...", sc.Overview)
			if err != nil {
				return err
			}
			return c.emit(ov, func() { renderOverview(ov) })
		},
	}
}

func renderOverview(ov *space.Overview) {
	printTitle("Today in space", ov.Date)
	printNewline()

	if p := ov.Picture; p != nil {
		printKeyValue("Picture", p.Title)
		printLink(p.URL)
	}
	printKeyValue("Close passes", fmt.Sprintf("%d objects, %d potentially hazardous", len(ov.NEOs), ov.Hazardous))
	if n := len(ov.NEOs); n > 0 {
		closest := ov.NEOs[0]
		if a := closest.NextApproach(); a != nil {
			printDetail("first: %s at %s, %s", closest.Name, a.Time().Format("15:04 UTC"), formatKilometers(a.MissKilometers()))
		}
	}
	printKeyValue("Solar flares", fmt.Sprintf("%d in the last 7 days", len(ov.Flares)))
	printKeyValue("CMEs", fmt.Sprintf("%d in the last 7 days", len(ov.CMEs)))

	if len(ov.Errors) > 0 {
		printNewline()
		sections := make([]string, 0, len(ov.Errors))
		for s := range ov.Errors {
			sections = append(sections, s)
		}
		slices.Sort(sections)
		for _, s := range sections {
			printWarning("%s unavailable: %s", s, ov.Errors[s])
		}
	}
}
