package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/catalog"
	"github.com/matzehuels/setlist/pkg/i18n"
)

// listCommand creates the list command, a printable view of one page.
func (c *CLI) listCommand() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "list [user-id]",
		Short: "Print one page of a collection as a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current := currentSession(ctx).CurrentUserID()
			owner := current
			if len(args) == 1 {
				owner = strings.TrimSpace(args[0])
			}
			if owner == "" {
				return fmt.Errorf("no user id given and nobody is signed in (run setlist login)")
			}

			src, cleanup, err := c.newSource(ctx, c.Logger)
			if err != nil {
				return err
			}
			defer cleanup()

			logger := loggerFromContext(ctx)
			prog := newProgress(logger)
			view := catalog.LoadView(ctx, src, logger, owner, page, c.config().PageSize)
			prog.done("collection loaded", "user", owner, "page", page, "items", len(view.Items))

			l := c.labels()
			fmt.Println(StyleTitle.Render(i18n.CollectionTitle(l, current, owner, view.OwnerName)))
			if view.Err != nil {
				printWarning("%s", l.T(i18n.KeyLoadFailed))
				return nil
			}
			if len(view.Items) == 0 {
				printInfo("%s", l.T(i18n.KeyCollectionEmpty))
				return nil
			}
			fmt.Println(renderItemTable(l, view.Items))
			printStats(len(view.Items), view.Page.TotalElements, l.T(i18n.KeyPage, view.Page.Number+1, max(view.Page.TotalPages, 1)))
			if !view.Page.Last {
				printNextStep("Next page", fmt.Sprintf("%s list %s --page %d", appName, owner, view.Page.Number+1))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", catalog.DefaultPage, "zero-based page number")
	return cmd
}

// renderItemTable lays out items as a rounded table.
func renderItemTable(l *i18n.Labels, items []catalog.Item) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.ID(),
			it.Name,
			it.ArtistName,
			it.ConcertDate,
			timeRange(it.StartTime, it.EndTime),
			it.TicketPrice,
			it.PeopleScale,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "", l.T(i18n.KeyArtist), l.T(i18n.KeyDate), l.T(i18n.KeyTime), l.T(i18n.KeyPrice), l.T(i18n.KeyScale)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}
