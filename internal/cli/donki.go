package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/integrations/donki"
)

func (c *CLI) donkiCommand() *cobra.Command {
	var start, end string

	kinds := donki.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:   "donki [kind]",
		Short: "List space-weather events",
		Long: fmt.Sprintf(`List space-weather events of one kind (%s).

The window defaults to the last 30 days. When no kind is given on an
interactive terminal, a picker is shown.`, strings.Join(names, ", ")),
		Example: `  orbit donki FLR
  orbit donki CME --start 2024-05-01 --end 2024-05-15
  orbit donki notifications --type GST`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind donki.Kind
			if len(args) == 1 {
				k, err := donki.ParseKind(args[0])
				if err != nil {
					return err
				}
				kind = k
			} else {
				if c.jsonOutput || !interactive(os.Stdin) || !interactive(os.Stdout) {
					return errors.New(errors.ErrCodeInvalidInput, "event kind required (one of %s)", strings.Join(names, ", "))
				}
				k, err := pickKind()
				if err != nil {
					return err
				}
				if k == "" {
					return nil
				}
				kind = k
			}
			return c.runDONKI(cmd.Context(), kind, start, end)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD, default 30 days before --end)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD, default today)")

	cmd.AddCommand(c.donkiNotificationsCommand())

	return cmd
}

func (c *CLI) donkiNotificationsCommand() *cobra.Command {
	var start, end, typ string

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List Space Weather Research Center notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := c.newSpace()
			if err != nil {
				return err
			}
			defer sc.Close()

			ns, err := fetch(cmd.Context(), c, "Fetching notifications...", func(ctx context.Context) ([]donki.Notification, error) {
				return sc.DONKI.Notifications(ctx, start, end, typ)
			})
			if err != nil {
				return err
			}
			return c.emit(ns, func() {
				if len(ns) == 0 {
					printInfo("No notifications in that window")
					return
				}
				rows := make([][]string, len(ns))
				for i, n := range ns {
					rows[i] = []string{n.IssueTime, n.Type, n.ID, n.URL}
				}
				printTable([]string{"Issued", "Type", "ID", "URL"}, rows)
				printCount(len(ns), "notifications")
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&typ, "type", "all", "message type ("+strings.Join(donki.NotificationTypes, ", ")+")")

	return cmd
}

func (c *CLI) runDONKI(ctx context.Context, kind donki.Kind, start, end string) error {
	sc, err := c.newSpace()
	if err != nil {
		return err
	}
	defer sc.Close()

	events, err := fetch(ctx, c, fmt.Sprintf("Fetching %s events...", kind), func(ctx context.Context) ([]donki.Event, error) {
		return sc.DONKI.Events(ctx, kind, start, end)
	})
	if err != nil {
		return err
	}
	return c.emit(events, func() { renderEvents(kind, events) })
}

func renderEvents(kind donki.Kind, events []donki.Event) {
	printTitle(kind.Description(), string(kind))
	if len(events) == 0 {
		printInfo("No events in that window")
		return
	}
	rows := make([][]string, len(events))
	for i, e := range events {
		when := "-"
		if !e.Time.IsZero() {
			when = e.Time.UTC().Format("2006-01-02 15:04")
		}
		rows[i] = []string{when, e.ID, truncate(strings.Join(e.Instruments, ", "), 40)}
	}
	printTable([]string{"Time (UTC)", "ID", "Instruments"}, rows)
	printCount(len(events), "events")
}
