package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/catalog"
	serrors "github.com/matzehuels/setlist/pkg/errors"
	"github.com/matzehuels/setlist/pkg/i18n"
)

// editCommand creates the edit command with subcommands.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit your concerts and songs",
		Long: `Edit concerts owned by the signed-in user.

Uploads and the concert update are separate backend calls. When a later
step fails, earlier uploads are not rolled back; the error names the
orphaned file.`,
	}

	cmd.AddCommand(c.editConcertCommand())
	cmd.AddCommand(c.editSongsCommand())
	return cmd
}

// concertEdits are the changes requested on the command line.
type concertEdits struct {
	name, date, start, end, price, scale string

	image      string
	songTitle  string
	songFile   string
	removeSong []int64
}

// apply copies the changed fields into form.
func (e concertEdits) apply(cmd *cobra.Command, form catalog.ConcertUpdate) catalog.ConcertUpdate {
	f := cmd.Flags()
	set := func(flag string, dst *string, v string) {
		if f.Changed(flag) {
			*dst = v
		}
	}
	set("name", &form.Name, e.name)
	set("date", &form.ConcertDate, e.date)
	set("start", &form.StartTime, e.start)
	set("end", &form.EndTime, e.end)
	set("price", &form.TicketPrice, e.price)
	set("scale", &form.PeopleScale, e.scale)
	return form
}

// editConcertCommand creates the "edit concert" subcommand.
func (c *CLI) editConcertCommand() *cobra.Command {
	var e concertEdits

	cmd := &cobra.Command{
		Use:   "concert <concert-id>",
		Short: "Update a concert, its image and its songs",
		Example: `  setlist edit concert 101 --price "55,000 KRW"
  setlist edit concert 101 --song-title "Encore" --song-file encore.mp3
  setlist edit concert 101 --image poster.png --remove-song 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return serrors.New(serrors.ErrCodeInvalidID, "invalid concert id %q", args[0])
			}
			if (e.songTitle == "") != (e.songFile == "") {
				return serrors.New(serrors.ErrCodeInvalidInput, "--song-title and --song-file must be given together")
			}
			return c.runEditConcert(cmd, id, e)
		},
	}

	f := cmd.Flags()
	f.StringVar(&e.name, "name", "", "concert name")
	f.StringVar(&e.date, "date", "", "concert date")
	f.StringVar(&e.start, "start", "", "start time")
	f.StringVar(&e.end, "end", "", "end time")
	f.StringVar(&e.price, "price", "", "ticket price")
	f.StringVar(&e.scale, "scale", "", "audience size")
	f.StringVar(&e.image, "image", "", "upload this file as the concert image")
	f.StringVar(&e.songTitle, "song-title", "", "title of the song to add")
	f.StringVar(&e.songFile, "song-file", "", "audio file of the song to add")
	f.Int64SliceVar(&e.removeSong, "remove-song", nil, "song id to remove (repeatable)")
	return cmd
}

func (c *CLI) runEditConcert(cmd *cobra.Command, id int64, e concertEdits) error {
	ctx := cmd.Context()
	editor, cleanup, err := c.newEditor(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	l := c.labels()
	fmt.Println(StyleTitle.Render(l.T(i18n.KeyEditTitle)))

	concert, err := editor.Concert(ctx, id)
	if err != nil {
		return err
	}
	printKeyValue("Concert", concert.Name)

	n := newSpinnerNotifier(ctx, l)
	form := e.apply(cmd, catalog.UpdateFrom(concert))

	if e.image != "" {
		if form, err = editor.SetImage(ctx, form, e.image, n); err != nil {
			return err
		}
	}
	for _, songID := range e.removeSong {
		if form, err = editor.RemoveSong(ctx, form, concert.Songs, songID); err != nil {
			return err
		}
		printDetail("Removed song %d", songID)
	}
	if e.songFile != "" {
		var song *catalog.Song
		if form, song, err = editor.AddSong(ctx, form, e.songTitle, e.songFile, n); err != nil {
			return err
		}
		printDetail("Added song %d %q", song.ID, song.Title)
	}

	if err := editor.Save(ctx, id, form, n); err != nil {
		return err
	}
	printKeyValue("Songs", fmt.Sprint(form.SongIDs))
	return nil
}

// editSongsCommand creates the "edit songs" subcommand.
func (c *CLI) editSongsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "songs",
		Short: "List the songs you uploaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			editor, cleanup, err := c.newEditor(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			songs, err := editor.MySongs(ctx)
			if err != nil {
				return err
			}
			if len(songs) == 0 {
				printInfo("No songs uploaded yet")
				return nil
			}
			rows := make([][]string, 0, len(songs))
			for _, s := range songs {
				rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Title, s.URL})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("ID", "Title", "File").
				Rows(rows...)
			fmt.Println(t.Render())
			return nil
		},
	}
}

// newEditor returns an editor acting as the signed-in user.
func (c *CLI) newEditor(ctx context.Context) (*catalog.Editor, func(), error) {
	sess := currentSession(ctx)
	if sess == nil {
		return nil, nil, errors.New("not signed in (run 'setlist login <user-id>' first)")
	}
	client, cleanup, err := c.newClient(ctx, c.Logger)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewEditor(client, sess.UserID), cleanup, nil
}
