// Package vtcore emulates a VT220-class terminal with no display attached.
//
// It exists for programs that need to understand what a terminal screen
// would look like after a stream of bytes ran through it, without
// actually drawing anything:
//   - driving CLI tools under test and asserting on the resulting screen
//   - terminal multiplexers, session recorders, and web-based terminals
//   - scraping output from long-running interactive processes
//
// # Quick Start
//
//	term := vtcore.New()
//	term.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!")
//	fmt.Println(term.String()) // "Hello World!"
//
// # Shape of the package
//
//   - [Terminal]: owns parser, buffers, cursor and mode state; the type
//     most callers touch
//   - [Buffer]: the 2D cell grid backing one of the two screens, with
//     optional scrollback
//   - [Cell]: one grid position's glyph, colors and attribute flags
//   - [Cursor]: position, visibility and rendering style
//
// # Feeding bytes in
//
// Terminal implements [io.Writer], so anything that writes bytes — a PTY,
// a recorded session, a test fixture — can be plugged in directly:
//
//	term := vtcore.New(
//	    vtcore.WithSize(24, 80),
//	    vtcore.WithScrollback(storage),
//	    vtcore.WithResponse(ptyWriter), // where DSR/DA replies go
//	)
//
//	cmd := exec.Command("ls", "-la", "--color")
//	cmd.Stdout = term
//	cmd.Run()
//
//	for row := 0; row < term.Rows(); row++ {
//	    fmt.Println(term.LineContent(row))
//	}
//
// # Two screens, one cursor
//
// A Terminal holds a primary buffer (scrollback-capable) and an alternate
// buffer (what full-screen apps like vim or htop draw into; no
// scrollback). CSI ?1049h/l switches between them:
//
//	if term.IsAlternateScreen() {
//	    // a full-screen app currently owns the display
//	}
//
// # Cells
//
//	cell := term.Cell(row, col)
//	if cell != nil {
//	    fmt.Printf("%c bold=%v fg=%v bg=%v\n",
//	        cell.Char, cell.HasFlag(vtcore.CellFlagBold), cell.Fg, cell.Bg)
//	}
//
// Flags cover Bold, Dim, Italic, five underline styles, two blink speeds,
// Reverse, Hidden and Strike.
//
// # Colors
//
// [Color] is a closed value — default, a 256-entry palette index, or a
// direct RGB triple — rather than an interface, so it stays comparable
// and every case can be switched on exhaustively:
//
//	rgba := vtcore.Resolve(cell.Fg, &vtcore.DefaultPalette, true)
//
// # Scrollback
//
// Lines scrolled off the top of the primary buffer go to a
// [ScrollbackProvider]; the package ships an in-memory ring:
//
//	storage := vtcore.NewRingScrollback(10000)
//	term := vtcore.New(vtcore.WithScrollback(storage))
//
//	for i := 0; i < term.ScrollbackLen(); i++ {
//	    line := term.ScrollbackLine(i) // []Cell
//	}
//
// # Responses
//
// [WithResponse] gives the terminal somewhere to write device replies
// (cursor position reports, clipboard/notification query answers):
//
//	term := vtcore.New(vtcore.WithResponse(os.Stdout))
//
// # Providers
//
// A provider is how the terminal hands an event or query off to the
// embedding application; every one defaults to a no-op so none are
// required:
//
//   - [BellProvider]: BEL (0x07)
//   - [TitleProvider]: window title changes (OSC 0/1/2)
//   - [ClipboardProvider]: clipboard read/write (OSC 52)
//   - [ScrollbackProvider]: storage for lines leaving the viewport
//   - [RecordingProvider]: raw input capture for replay/debugging
//   - [SizeProvider]: pixel dimensions for TIOCGWINSZ-style queries
//   - [DCSProvider]: Device Control String payloads this package does
//     not interpret (Sixel, DECRQSS, termcap queries)
//   - [NotificationProvider]: desktop notification requests (OSC 99)
//   - [SemanticPromptHandler]: semantic prompt marks (OSC 133)
//
//	term := vtcore.New(
//	    vtcore.WithResponse(os.Stdout),
//	    vtcore.WithBell(&myBellHandler{}),
//	    vtcore.WithTitle(&myTitleHandler{}),
//	)
//
// # Middleware
//
// Every dispatch a Terminal makes — Bell, Goto, SetColor, and the rest —
// can be intercepted before it reaches the terminal's own handling:
//
//	mw := &vtcore.Middleware{
//	    Input: func(r rune, next func(rune)) {
//	        log.Printf("input %q", r)
//	        next(r)
//	    },
//	    Bell: func(next func()) {
//	        log.Println("bell suppressed")
//	        // next() not called: the default Bell handling never runs
//	    },
//	}
//	term := vtcore.New(vtcore.WithMiddleware(mw))
//
// Hooks set via [WithMiddleware] merge into the terminal's existing set
// rather than replace it wholesale: setting Bell doesn't clear a
// previously set Input hook. [Terminal.SetMiddleware] replaces the whole
// set.
//
// # Modes
//
//	term.HasMode(vtcore.ModeLineWrap)
//	term.HasMode(vtcore.ModeShowCursor)
//	term.HasMode(vtcore.ModeBracketedPaste)
//
// See [TerminalMode] for the full set.
//
// # Dirty tracking and damage
//
// For a renderer that wants to redraw only what changed, two
// granularities are available. Cell-level:
//
//	if term.HasDirty() {
//	    for _, pos := range term.DirtyCells() {
//	        // redraw pos.Row, pos.Col
//	    }
//	    term.ClearDirty()
//	}
//
// and region-level, which coalesces adjacent dirty columns on a row into
// a single run — the shape a renderer wants for a damage-rect blit:
//
//	for _, region := range term.TakeDamage() {
//	    // redraw region.Row, columns [region.StartCol, region.EndCol)
//	}
//
// # Selection and search
//
//	term.SetSelection(vtcore.Position{Row: 0, Col: 0}, vtcore.Position{Row: 2, Col: 10})
//	text := term.GetSelectedText()
//	term.ClearSelection()
//
//	matches := term.Search("error")
//	scrollbackMatches := term.SearchScrollback("error") // negative rows
//
// # Snapshots
//
// [Terminal.Snapshot] produces a read-only capture suitable for handing
// to a renderer or serializing, at one of three detail levels:
//
//	snap := term.Snapshot(vtcore.SnapshotDetailText)   // text only
//	snap := term.Snapshot(vtcore.SnapshotDetailStyled) // + style runs
//	snap := term.Snapshot(vtcore.SnapshotDetailFull)   // + per-cell data
//
//	data, _ := json.Marshal(snap)
//
// Alongside the grid, a Snapshot always carries the window title and the
// mode flags a frontend needs to honor (bracketed paste, active mouse
// reporting mode).
//
// # Shell integration
//
// OSC 133 prompt marks let a host navigate between commands. Rows are
// absolute (scrollback included), so a mark stays addressable after it
// scrolls off the viewport:
//
//	term := vtcore.New(vtcore.WithShellIntegration(&myHandler{}))
//
//	current := term.PromptMarks()[len(term.PromptMarks())-1].Row
//	next := term.NextPromptRow(current, CommandStart)
//	prev := term.PrevPromptRow(current, CommandStart)
//
//	output := term.GetLastCommandOutput()
//
// # Auto-resize mode
//
// With [WithAutoResize], the buffer grows instead of scrolling or
// wrapping — useful for capturing a command's complete output:
//
//	term := vtcore.New(vtcore.WithAutoResize())
//	cmd.Stdout = term
//	cmd.Run()
//	fmt.Printf("total rows: %d\n", term.Rows())
//
// # Thread safety
//
// Terminal methods that read or change state take a call-level lock, but
// [Terminal.Write] and [Terminal.WriteString] run the escape-sequence
// parser without it, so concurrent Write calls are not safe. Composing
// several calls into one atomic operation is the caller's responsibility.
//
// # Sequence coverage
//
//   - Cursor movement and save/restore (CUU/CUD/CUF/CUB/CUP/HVP, DECSC/DECRC)
//   - Erase and insert/delete (ED, EL, ECH, ICH/DCH, IL/DL)
//   - Scrolling and scroll regions (SU, SD, DECSTBM)
//   - SGR character attributes with full color support
//   - DECSET/DECRST modes, device status reports, alternate screen
//   - Bracketed paste and mouse reporting
//   - Window title, clipboard, hyperlinks (OSC 0/1/2, 52, 8)
//   - Shell integration and desktop notifications (OSC 133, 99)
//   - DCS payloads (Sixel and similar) routed to an optional passthrough sink
//
// Byte-level scanning (recognizing C0/C1, CSI, OSC, DCS, SS2/SS3) lives in
// the internal ansiparser package; this package's [Terminal] is the event
// sink that turns those events into state changes.
package vtcore
