package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/setlist/pkg/catalog"
	"github.com/matzehuels/setlist/pkg/i18n"
	"github.com/matzehuels/setlist/pkg/layering"
	"github.com/matzehuels/setlist/pkg/selection"
	"github.com/matzehuels/setlist/pkg/tilt"
)

type fakeSource struct {
	items []catalog.Item
	user  *catalog.User
	err   error
	pages []int
}

func (f *fakeSource) Collection(_ context.Context, _ string, page, size int) (*catalog.Page, error) {
	f.pages = append(f.pages, page)
	if f.err != nil {
		return nil, f.err
	}
	start := min(page*size, len(f.items))
	end := min(start+size, len(f.items))
	return catalog.NewPage(f.items[start:end], page, size, int64(len(f.items))), nil
}

func (f *fakeSource) User(context.Context, string) (*catalog.User, error) {
	if f.user == nil {
		return nil, catalog.ErrNotFound
	}
	return f.user, nil
}

func testItems(n int) []catalog.Item {
	items := make([]catalog.Item, n)
	for i := range items {
		id := int64(i + 1)
		items[i] = catalog.Item{
			ConcertID:   id,
			Name:        "Concert " + strconv.FormatInt(id, 10),
			ArtistName:  "Artist",
			ConcertDate: "2026-05-0" + strconv.FormatInt(id%10, 10),
			StartTime:   "19:00",
			EndTime:     "21:00",
			TicketPrice: "50,000 KRW",
			PeopleScale: "300",
		}
	}
	return items
}

// newTestBrowser returns a loaded 80x40 viewer over src and a settable clock.
func newTestBrowser(t *testing.T, src catalog.Source, size int) (browseModel, *time.Time) {
	t.Helper()
	labels := i18n.Default().Labels(i18n.BaseLocale)
	m := newBrowseModel(context.Background(), src, log.New(io.Discard), labels, "7", "", size)
	clock := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return clock }

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 40})
	m = update(t, m, m.Init()())
	return m, &clock
}

func update(t *testing.T, m browseModel, msg tea.Msg) browseModel {
	t.Helper()
	next, _ := m.Update(msg)
	bm, ok := next.(browseModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return bm
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func move(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}
}

// plain returns the runes of each canvas row.
func plain(cv *canvas) []string {
	rows := make([]string, cv.h)
	for y := range rows {
		var b strings.Builder
		for _, c := range cv.cells[y*cv.w : (y+1)*cv.w] {
			if c.ch != 0 {
				b.WriteRune(c.ch)
			}
		}
		rows[y] = b.String()
	}
	return rows
}

func TestBrowseLoad(t *testing.T) {
	src := &fakeSource{items: testItems(4), user: &catalog.User{UserID: 7, UserName: "alice"}}
	m, _ := newTestBrowser(t, src, 10)

	if m.loading {
		t.Error("still loading after viewLoadedMsg")
	}
	if m.grid.Len() != 4 {
		t.Fatalf("grid has %d items, want 4", m.grid.Len())
	}
	if m.columns() != 3 {
		t.Errorf("columns() = %d, want 3 at width 80", m.columns())
	}

	rows := plain(m.render())
	if !strings.Contains(rows[0], "alice's collection") {
		t.Errorf("title row = %q", rows[0])
	}
	if !strings.Contains(rows[1], "Page 1 of 1") {
		t.Errorf("status row = %q", rows[1])
	}
	if !strings.Contains(strings.Join(rows, "\n"), "Concert 4") {
		t.Error("card text missing from frame")
	}
}

func TestBrowseLoadFailureDegradesToEmpty(t *testing.T) {
	src := &fakeSource{err: catalog.ErrNetwork}
	m, _ := newTestBrowser(t, src, 10)

	if m.grid.Len() != 0 {
		t.Errorf("grid has %d items after failure, want 0", m.grid.Len())
	}
	rows := plain(m.render())
	if !strings.Contains(rows[0], "Collection") {
		t.Errorf("title row = %q, want generic title", rows[0])
	}
	if !strings.Contains(rows[1], "could not be loaded") {
		t.Errorf("status row = %q", rows[1])
	}
	if len(src.pages) != 1 {
		t.Errorf("collection requested %d times, want 1", len(src.pages))
	}
}

func TestBrowseClickCycle(t *testing.T) {
	m, _ := newTestBrowser(t, &fakeSource{items: testItems(4)}, 10)

	// Card 0 spans x 0..23, y 3..11; card 1 starts at x 26.
	m = update(t, m, click(12, 7))
	if got := m.grid.State(); got != selection.Active("1") {
		t.Fatalf("after first click state = %v, want Active(1)", got)
	}
	if z := m.grid.Layers()["1"].Z; z != layering.ElevatedZ {
		t.Errorf("active card z = %d, want %d", z, layering.ElevatedZ)
	}

	m = update(t, m, click(12, 7))
	if got := m.grid.State(); got != selection.ActiveFlipped("1") {
		t.Fatalf("after second click state = %v, want ActiveFlipped(1)", got)
	}
	if !strings.Contains(strings.Join(plain(m.render()), "\n"), "Ticket price") {
		t.Error("flipped card should show its back face")
	}

	m = update(t, m, click(12, 7))
	if got := m.grid.State(); got != selection.Active("1") {
		t.Fatalf("after third click state = %v, want Active(1)", got)
	}
}

func TestBrowseOverlayCatchesOtherClicks(t *testing.T) {
	m, _ := newTestBrowser(t, &fakeSource{items: testItems(4)}, 10)

	m = update(t, m, click(12, 7))
	if tg := m.hitTest(30, 7); tg.kind != targetOverlay || tg.z != layering.OverlayZ {
		t.Fatalf("hitTest over another card while active = %+v, want overlay", tg)
	}
	if tg := m.hitTest(12, 7); tg.kind != targetCard || tg.id != "1" {
		t.Fatalf("hitTest over active card = %+v, want card 1", tg)
	}

	m = update(t, m, click(30, 7))
	if got := m.grid.State(); !got.IsIdle() {
		t.Fatalf("click outside the active card: state = %v, want Idle", got)
	}
	if m.grid.OverlayVisible() {
		t.Error("overlay still visible after dismiss")
	}

	// Idle: the same position now hits card 2 directly.
	m = update(t, m, click(30, 7))
	if got := m.grid.State(); got != selection.Active("2") {
		t.Errorf("state = %v, want Active(2)", got)
	}
}

func TestBrowseClickOnEmptySpaceWhileIdle(t *testing.T) {
	m, _ := newTestBrowser(t, &fakeSource{items: testItems(2)}, 10)

	m = update(t, m, click(78, 30))
	if got := m.grid.State(); !got.IsIdle() {
		t.Errorf("state = %v, want Idle", got)
	}
}

func TestBrowseHoverTiltsAndSettles(t *testing.T) {
	m, clock := newTestBrowser(t, &fakeSource{items: testItems(3)}, 10)

	m = update(t, m, move(23, 7))
	if m.hover != "1" {
		t.Fatalf("hover = %q, want 1", m.hover)
	}
	hovered := m.grid.Style("1")
	if hovered.Transition != tilt.Snappy || hovered.RotateY <= 0 {
		t.Errorf("hover style = %+v, want snappy with positive rotateY", hovered)
	}
	if !m.ticking {
		t.Error("hover should start the animation clock")
	}

	// Halfway through the snappy transition the card is between poses.
	*clock = clock.Add(50 * time.Millisecond)
	mid := m.displayed("1", m.now())
	if mid.RotateY <= 0 || mid.RotateY >= hovered.RotateY {
		t.Errorf("mid-transition rotateY = %v, want in (0, %v)", mid.RotateY, hovered.RotateY)
	}

	*clock = clock.Add(time.Second)
	m = update(t, m, frameMsg(*clock))
	if len(m.anims) != 0 || m.ticking {
		t.Errorf("animations still running: %d, ticking=%v", len(m.anims), m.ticking)
	}

	// Right edge hovered: the left side of the card is lit brighter.
	cv := m.render()
	left, right := cv.at(1, 7), cv.at(22, 7)
	if left.bg.r <= right.bg.r {
		t.Errorf("left bg %v should be brighter than right bg %v", left.bg, right.bg)
	}

	m = update(t, m, move(78, 30))
	if m.hover != "" {
		t.Errorf("hover = %q after leaving, want none", m.hover)
	}
	if got := m.grid.Style("1"); got != tilt.Neutral() {
		t.Errorf("style after leave = %+v, want neutral", got)
	}
}

func TestBrowseHoverBlockedByOverlay(t *testing.T) {
	m, _ := newTestBrowser(t, &fakeSource{items: testItems(3)}, 10)

	m = update(t, m, click(12, 7))
	m = update(t, m, move(30, 7))
	if m.hover != "" {
		t.Errorf("hover = %q, cards below the overlay should not tilt", m.hover)
	}
	if got := m.grid.Style("2"); got != tilt.Neutral() {
		t.Errorf("card 2 style = %+v, want neutral", got)
	}
}

func TestBrowsePaging(t *testing.T) {
	src := &fakeSource{items: testItems(5)}
	m, _ := newTestBrowser(t, src, 2)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(browseModel)
	if cmd == nil || m.page != 1 || !m.loading {
		t.Fatalf("next page: page=%d loading=%v cmd=%v", m.page, m.loading, cmd != nil)
	}
	m = update(t, m, cmd())
	if got := m.grid.Items()[0].ConcertID; got != 3 {
		t.Errorf("first item on page 2 = %d, want 3", got)
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(browseModel)
	if m.page != 0 {
		t.Fatalf("prev page: page = %d, want 0", m.page)
	}
	m = update(t, m, cmd())

	// Stay on the first page.
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if cmd != nil || next.(browseModel).page != 0 {
		t.Error("prev on the first page should do nothing")
	}
}

func TestBrowsePageChangeDismissesSelection(t *testing.T) {
	m, _ := newTestBrowser(t, &fakeSource{items: testItems(4)}, 2)

	m = update(t, m, click(12, 7))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, next.(browseModel), cmd())
	if got := m.grid.State(); !got.IsIdle() {
		t.Errorf("state after page change = %v, want Idle", got)
	}
}

func TestBrowseIgnoresStaleLoads(t *testing.T) {
	m, _ := newTestBrowser(t, &fakeSource{items: testItems(3)}, 10)

	stale := viewLoadedMsg{seq: m.seq - 1, view: catalog.View{Items: testItems(1)}}
	m = update(t, m, stale)
	if m.grid.Len() != 3 {
		t.Errorf("stale load replaced items: %d, want 3", m.grid.Len())
	}
}

func TestBrowseQuit(t *testing.T) {
	m, _ := newTestBrowser(t, &fakeSource{}, 10)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestBrowseTitleForSignedInOwner(t *testing.T) {
	labels := i18n.Default().Labels(i18n.BaseLocale)
	src := &fakeSource{items: testItems(1), user: &catalog.User{UserName: "alice"}}
	m := newBrowseModel(context.Background(), src, log.New(io.Discard), labels, "7", "7", 10)
	m = update(t, m, m.Init()())

	if rows := plain(m.render()); !strings.Contains(rows[0], "My collection") {
		t.Errorf("title row = %q, want My collection", rows[0])
	}
}

func TestTUILogger(t *testing.T) {
	l, closeFn, err := tuiLogger("", log.InfoLevel)
	if err != nil || l == nil {
		t.Fatalf("tuiLogger(\"\") = %v, %v", l, err)
	}
	closeFn()

	_, _, err = tuiLogger(t.TempDir()+"/missing/dir/log", log.InfoLevel)
	if err == nil {
		t.Error("tuiLogger should fail for an unwritable path")
	}
	if errors.Unwrap(err) == nil {
		t.Error("tuiLogger error should wrap the cause")
	}
}

func TestBrowseShowsLoadingStatus(t *testing.T) {
	labels := i18n.Default().Labels(i18n.BaseLocale)
	m := newBrowseModel(context.Background(), &fakeSource{}, log.New(io.Discard), labels, "7", "", 10)

	rows := plain(m.render())
	if !strings.Contains(rows[1], "Loading…") {
		t.Errorf("status row = %q, want the loading label", rows[1])
	}

	m = update(t, m, m.Init()())
	if rows := plain(m.render()); strings.Contains(rows[1], "Loading") {
		t.Errorf("status row = %q after the load finished", rows[1])
	}
}
