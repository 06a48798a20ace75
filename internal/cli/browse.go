package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/catalog"
	"github.com/matzehuels/setlist/pkg/grid"
	"github.com/matzehuels/setlist/pkg/i18n"
	"github.com/matzehuels/setlist/pkg/layering"
	"github.com/matzehuels/setlist/pkg/observability"
	"github.com/matzehuels/setlist/pkg/selection"
	"github.com/matzehuels/setlist/pkg/tilt"
)

// browseCommand creates the interactive collection viewer.
func (c *CLI) browseCommand() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "browse [user-id]",
		Short: "Browse a concert collection as interactive cards",
		Long: `Browse a user's concert collection in a card grid.

Move the mouse over a card to tilt it. Click a card to select it, click it
again to flip it over, and click anywhere outside it to close it.
Without a user id the signed-in user's collection is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current := currentSession(ctx).CurrentUserID()
			owner := current
			if len(args) == 1 {
				owner = strings.TrimSpace(args[0])
			}
			if owner == "" {
				return errors.New("no user id given and nobody is signed in (run setlist login)")
			}

			logger, closeLog, err := tuiLogger(logFile, c.Logger.GetLevel())
			if err != nil {
				return err
			}
			defer closeLog()
			installHooks(logger)

			src, cleanup, err := c.newSource(ctx, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			m := newBrowseModel(ctx, src, logger, c.labels(), owner, current, c.config().PageSize)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("run viewer: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the viewer runs")
	return cmd
}

// tuiLogger returns the logger used while the viewer owns the terminal.
func tuiLogger(path string, level log.Level) (*log.Logger, func(), error) {
	if path == "" {
		return newLogger(io.Discard, level), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, level), func() { f.Close() }, nil
}

// =============================================================================
// Layout
// =============================================================================

// Card geometry in terminal cells.
const (
	cardWidth  = 24
	cardHeight = 9
	cardGapX   = 2
	rowStride  = cardHeight + 2 // card, shadow row, gap
	gridTop    = 3

	frameInterval = 30 * time.Millisecond
	overlayDim    = 0.4
)

var (
	faceFront  = rgb{36, 52, 71}
	faceBack   = rgb{30, 41, 59}
	inkBright  = rgb{241, 245, 249}
	inkMuted   = rgb{148, 163, 184}
	inkAccent  = rgb{6, 182, 212}
	inkWarning = rgb{250, 204, 21}
	inkShadow  = rgb{64, 64, 64}
	inkOverlay = rgb{88, 88, 88}
)

// rect is a card's area on screen.
type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type targetKind int

const (
	targetNone targetKind = iota
	targetCard
	targetOverlay
)

// target is the topmost thing under the pointer.
type target struct {
	kind targetKind
	id   string
	z    int
	rect rect
}

// =============================================================================
// Model
// =============================================================================

// viewLoadedMsg delivers a loaded page; seq discards stale loads.
type viewLoadedMsg struct {
	seq  int
	view catalog.View
}

// frameMsg advances card animations.
type frameMsg time.Time

type browseKeys struct {
	Quit    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Refresh key.Binding
}

func newBrowseKeys(l *i18n.Labels) browseKeys {
	return browseKeys{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", l.T(i18n.KeyHelpQuit))),
		Next:    key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("←/→", l.T(i18n.KeyHelpPage))),
		Prev:    key.NewBinding(key.WithKeys("p", "left")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", l.T(i18n.KeyHelpRefresh))),
	}
}

// anim moves one card from one style to another over its transition time.
type anim struct {
	from, to tilt.Style
	start    time.Time
	dur      time.Duration
}

func (a anim) at(t time.Time) tilt.Style {
	if a.dur <= 0 {
		return a.to
	}
	return tilt.Lerp(a.from, a.to, float64(t.Sub(a.start))/float64(a.dur))
}

func (a anim) done(t time.Time) bool {
	return t.Sub(a.start) >= a.dur
}

// browseModel is the card grid viewer.
type browseModel struct {
	ctx       context.Context
	src       catalog.Source
	logger    *log.Logger
	labels    *i18n.Labels
	keys      browseKeys
	ownerID   string
	currentID string
	size      int

	page    int
	seq     int
	loading bool
	view    catalog.View

	grid    *grid.Grid
	anims   map[string]anim
	hover   string
	scroll  int
	ticking bool
	width   int
	height  int
	now     func() time.Time
}

func newBrowseModel(ctx context.Context, src catalog.Source, logger *log.Logger, labels *i18n.Labels, ownerID, currentID string, size int) browseModel {
	g := grid.New(nil)
	g.OnTransition(func(from, to selection.State, e selection.Event) {
		observability.View().OnTransition(ctx, from.String(), fmt.Sprint(e), to.String())
	})
	return browseModel{
		ctx:       ctx,
		src:       src,
		logger:    logger,
		labels:    labels,
		keys:      newBrowseKeys(labels),
		ownerID:   ownerID,
		currentID: currentID,
		size:      size,
		page:      catalog.DefaultPage,
		seq:       1,
		loading:   true,
		grid:      g,
		anims:     make(map[string]anim),
		width:     80,
		height:    24,
		now:       time.Now,
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.load()
}

// load fetches the current page in the background.
func (m browseModel) load() tea.Cmd {
	ctx, src, logger := m.ctx, m.src, m.logger
	seq, owner, page, size := m.seq, m.ownerID, m.page, m.size
	return func() tea.Msg {
		return viewLoadedMsg{seq: seq, view: catalog.LoadView(ctx, src, logger, owner, page, size)}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clampScroll()

	case viewLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.view = msg.view
		m.grid.SetItems(msg.view.Items)
		m.clampScroll()
		if id := m.hover; id != "" {
			m.retarget(id, func() tilt.Style { return m.grid.PointerLeave(id) })
			m.hover = ""
			cmd := m.tick()
			return m, cmd
		}

	case frameMsg:
		cmd := m.advance(time.Time(msg))
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if m.view.Page != nil && !m.view.Page.Last {
				cmd := m.goTo(m.page + 1)
				return m, cmd
			}
		case key.Matches(msg, m.keys.Prev):
			if m.page > 0 {
				cmd := m.goTo(m.page - 1)
				return m, cmd
			}
		case key.Matches(msg, m.keys.Refresh):
			cmd := m.goTo(m.page)
			return m, cmd
		}

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd
	}
	return m, nil
}

// goTo starts loading page p.
func (m *browseModel) goTo(p int) tea.Cmd {
	m.page = p
	m.seq++
	m.loading = true
	m.scroll = 0
	return m.load()
}

// handleMouse routes pointer input to the grid. Clicks and hover go to the
// topmost layer under the pointer, so while a card is selected the overlay
// catches every click outside it.
func (m *browseModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll = max(m.scroll-1, 0)
		return m.pointer(msg.X, msg.Y)
	case tea.MouseButtonWheelDown:
		m.scroll++
		m.clampScroll()
		return m.pointer(msg.X, msg.Y)
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		return m.pointer(msg.X, msg.Y)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		t := m.hitTest(msg.X, msg.Y)
		switch t.kind {
		case targetCard:
			m.grid.Click(t.id)
		case targetOverlay:
			m.grid.Dismiss()
		}
		// Layers changed; what is under the pointer may have too.
		return m.pointer(msg.X, msg.Y)
	}
	return nil
}

// pointer moves the pointer to (x, y), updating the hovered card.
func (m *browseModel) pointer(x, y int) tea.Cmd {
	t := m.hitTest(x, y)
	id := ""
	if t.kind == targetCard {
		id = t.id
	}
	if prev := m.hover; prev != "" && prev != id {
		m.retarget(prev, func() tilt.Style { return m.grid.PointerLeave(prev) })
	}
	m.hover = id
	if id != "" {
		s := tilt.Sample{
			X:   float64(x-t.rect.x) + 0.5,
			Y:   float64(y-t.rect.y) + 0.5,
			Box: tilt.Box{Width: float64(t.rect.w), Height: float64(t.rect.h)},
		}
		m.retarget(id, func() tilt.Style { return m.grid.PointerMove(id, s) })
	}
	return m.tick()
}

// retarget applies a grid update to id and animates the card from the
// style it is drawn with now toward the new one.
func (m *browseModel) retarget(id string, apply func() tilt.Style) {
	now := m.now()
	from := m.displayed(id, now)
	to := apply()
	m.anims[id] = anim{from: from, to: to, start: now, dur: to.Transition.Duration()}
}

// displayed is the style id is drawn with at t.
func (m browseModel) displayed(id string, t time.Time) tilt.Style {
	if a, ok := m.anims[id]; ok {
		return a.at(t)
	}
	return m.grid.Style(id)
}

// tick schedules the next animation frame unless one is pending.
func (m *browseModel) tick() tea.Cmd {
	if m.ticking || len(m.anims) == 0 {
		return nil
	}
	m.ticking = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// advance drops finished animations and keeps ticking while any run.
func (m *browseModel) advance(t time.Time) tea.Cmd {
	m.ticking = false
	for id, a := range m.anims {
		if a.done(t) {
			delete(m.anims, id)
		}
	}
	return m.tick()
}

// =============================================================================
// Geometry
// =============================================================================

func (m browseModel) columns() int {
	return max(1, (m.width+cardGapX)/(cardWidth+cardGapX))
}

func (m browseModel) rows() int {
	cols := m.columns()
	return (m.grid.Len() + cols - 1) / cols
}

func (m *browseModel) clampScroll() {
	visible := max(1, (m.height-gridTop)/rowStride)
	m.scroll = min(m.scroll, max(m.rows()-visible, 0))
	m.scroll = max(m.scroll, 0)
}

// cardRect returns the screen area of the i-th card. Elevated cards are
// lifted one row.
func (m browseModel) cardRect(i int, l layering.Layer) rect {
	cols := m.columns()
	r := rect{
		x: (i % cols) * (cardWidth + cardGapX),
		y: gridTop + (i/cols-m.scroll)*rowStride,
		w: cardWidth,
		h: cardHeight,
	}
	if l.Positioning == layering.Elevated {
		r.y--
	}
	return r
}

// hitTest returns the topmost target at (x, y).
func (m browseModel) hitTest(x, y int) target {
	best := target{kind: targetNone, z: -1}
	if m.grid.OverlayVisible() && y >= 0 && y < m.height {
		best = target{kind: targetOverlay, z: layering.OverlayZ}
	}
	for i, c := range m.grid.Cards() {
		r := m.cardRect(i, c.Layer)
		if r.contains(x, y) && c.Layer.Z > best.z {
			best = target{kind: targetCard, id: c.Item.ID(), z: c.Layer.Z, rect: r}
		}
	}
	return best
}

// =============================================================================
// Rendering
// =============================================================================

func (m browseModel) View() string {
	return m.render().String()
}

// render composites the frame: normal cards, then the overlay dimming
// them, then the elevated card on top.
func (m browseModel) render() *canvas {
	cv := newCanvas(m.width, m.height)
	now := m.now()
	cards := m.grid.Cards()

	m.drawHeader(cv)

	var elevated []int
	for i, c := range cards {
		if c.Layer.Positioning == layering.Elevated {
			elevated = append(elevated, i)
			continue
		}
		m.drawCard(cv, i, c, m.displayed(c.Item.ID(), now))
	}
	if m.grid.OverlayVisible() {
		cv.dim(overlayDim, inkOverlay)
		cv.text(0, m.height-1, m.width, m.labels.T(i18n.KeyOverlayHint), cell{fg: inkMuted, hasFg: true})
	}
	for _, i := range elevated {
		c := cards[i]
		m.drawCard(cv, i, c, m.displayed(c.Item.ID(), now))
	}
	return cv
}

func (m browseModel) drawHeader(cv *canvas) {
	title := i18n.CollectionTitle(m.labels, m.currentID, m.ownerID, m.view.OwnerName)
	cv.text(0, 0, m.width, title, cell{fg: inkAccent, hasFg: true, bold: true})

	status, ink := "", inkMuted
	switch {
	case m.loading:
		status = m.labels.T(i18n.KeyLoading)
	case m.view.Err != nil:
		status, ink = m.labels.T(i18n.KeyLoadFailed), inkWarning
	case m.grid.Len() == 0:
		status = m.labels.T(i18n.KeyCollectionEmpty)
	case m.view.Page != nil:
		status = m.labels.T(i18n.KeyPage, m.view.Page.Number+1, max(m.view.Page.TotalPages, 1))
	}
	var help []string
	for _, b := range []key.Binding{m.keys.Quit, m.keys.Next, m.keys.Refresh} {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	line := status + "   " + strings.Join(help, " · ")
	cv.text(0, 1, m.width, line, cell{fg: ink, hasFg: true})
}

// drawCard paints one card with per-cell lighting from its tilt, its face
// text and its drop shadow.
func (m browseModel) drawCard(cv *canvas, i int, c grid.Card, s tilt.Style) {
	r := m.cardRect(i, c.Layer)
	elevated := c.Layer.Positioning == layering.Elevated

	face := faceFront
	if c.Flipped {
		face = faceBack
	}

	// Shadow: shifted right with the offset, darker with opacity.
	shift := int(s.Shadow.OffsetY/5 + 0.5)
	glyph := '░'
	if s.Shadow.Opacity >= 0.25 {
		glyph = '▒'
	}
	depth := 1
	if elevated {
		depth = 2
	}
	for dy := 0; dy < depth; dy++ {
		for x := r.x + shift; x < r.x+r.w+shift-1; x++ {
			cv.set(x, r.y+r.h+dy, cell{ch: glyph, fg: inkShadow, hasFg: true})
		}
	}

	border := borderRounded
	ink := inkMuted
	if elevated {
		border, ink = borderThick, inkAccent
	}
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			u := (float64(x)+0.5)/float64(r.w) - 0.5
			v := (float64(y)+0.5)/float64(r.h) - 0.5
			f := s.Brightness * (1 + 2*s.Depth(u, v))
			cv.set(r.x+x, r.y+y, cell{
				ch:    border.at(x, y, r.w, r.h),
				fg:    ink.scale(f),
				hasFg: true,
				bg:    face.scale(f),
				hasBg: true,
			})
		}
	}

	lines := m.faceLines(c)
	inner := r.w - 4
	for j, ln := range lines {
		if j >= r.h-2 {
			break
		}
		cv.text(r.x+2, r.y+1+j, inner, ln.text, cell{fg: ln.ink.scale(s.Brightness), hasFg: true, bold: ln.bold})
	}
}

type faceLine struct {
	text string
	ink  rgb
	bold bool
}

// faceLines returns the text of the visible side of a card.
func (m browseModel) faceLines(c grid.Card) []faceLine {
	it := c.Item
	l := m.labels
	field := func(k, v string) faceLine {
		return faceLine{text: l.T(k) + ": " + v, ink: inkBright}
	}

	hint := l.T(i18n.KeyHintSelect)
	switch {
	case c.Flipped:
		hint = l.T(i18n.KeyHintUnflip)
	case c.Layer.Positioning == layering.Elevated:
		hint = l.T(i18n.KeyHintFlip)
	}

	if c.Flipped {
		return []faceLine{
			{text: it.Name, ink: inkAccent, bold: true},
			field(i18n.KeyDate, it.ConcertDate),
			field(i18n.KeyTime, timeRange(it.StartTime, it.EndTime)),
			field(i18n.KeyPrice, it.TicketPrice),
			field(i18n.KeyScale, it.PeopleScale),
			field(i18n.KeyArtist, it.ArtistName),
			{text: hint, ink: inkMuted},
		}
	}
	return []faceLine{
		{text: it.Name, ink: inkAccent, bold: true},
		{text: it.ArtistName, ink: inkMuted},
		{},
		field(i18n.KeyDate, it.ConcertDate),
		{},
		{},
		{text: hint, ink: inkMuted},
	}
}

func timeRange(start, end string) string {
	switch {
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + " - " + end
	}
}

// border is a box-drawing glyph set.
type border struct {
	tl, tr, bl, br, h, v rune
}

var (
	borderRounded = border{'╭', '╮', '╰', '╯', '─', '│'}
	borderThick   = border{'┏', '┓', '┗', '┛', '━', '┃'}
)

// at returns the glyph at (x, y) of a w×h box.
func (b border) at(x, y, w, h int) rune {
	top, bottom := y == 0, y == h-1
	left, right := x == 0, x == w-1
	switch {
	case top && left:
		return b.tl
	case top && right:
		return b.tr
	case bottom && left:
		return b.bl
	case bottom && right:
		return b.br
	case top || bottom:
		return b.h
	case left || right:
		return b.v
	}
	return ' '
}
