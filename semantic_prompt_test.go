package vtcore

import "testing"

func TestShellIntegrationMark_OSC133TypesAndExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		wantType ShellIntegrationMark
		wantCode int
	}{
		{"A prompt start has no exit code", "\x1b]133;A\x07", PromptStart, -1},
		{"B command start has no exit code", "\x1b]133;B\x07", CommandStart, -1},
		{"C command executed has no exit code", "\x1b]133;C\x07", CommandExecuted, -1},
		{"D command finished without code defaults to -1", "\x1b]133;D\x07", CommandFinished, -1},
		{"D with exit code 0", "\x1b]133;D;0\x07", CommandFinished, 0},
		{"D with exit code 1", "\x1b]133;D;1\x07", CommandFinished, 1},
		{"D with exit code 127", "\x1b]133;D;127\x07", CommandFinished, 127},
		{"ST terminator works the same as BEL", "\x1b]133;A\x1b\\", PromptStart, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := New(WithSize(24, 80))
			term.WriteString(tt.sequence)

			marks := term.PromptMarks()
			if len(marks) != 1 {
				t.Fatalf("PromptMarks() has %d entries, want 1", len(marks))
			}
			if marks[0].Type != tt.wantType {
				t.Errorf("Type = %v, want %v", marks[0].Type, tt.wantType)
			}
			if marks[0].ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", marks[0].ExitCode, tt.wantCode)
			}
		})
	}
}

func TestShellIntegrationMark_FullPromptCycleRecordsRowsInOrder(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]133;A\x07")     // prompt start, row 0
	term.WriteString("$ ")
	term.WriteString("\x1b]133;B\x07")     // command start, row 0
	term.WriteString("ls -la\r\n")         // row advances to 1
	term.WriteString("\x1b]133;C\x07")     // command executed, row 1
	term.WriteString("file1\r\nfile2\r\n") // rows advance to 3
	term.WriteString("\x1b]133;D;0\x07")   // command finished, row 3

	marks := term.PromptMarks()
	wantTypes := []ShellIntegrationMark{PromptStart, CommandStart, CommandExecuted, CommandFinished}
	if len(marks) != len(wantTypes) {
		t.Fatalf("PromptMarks() has %d entries, want %d", len(marks), len(wantTypes))
	}
	for i, want := range wantTypes {
		if marks[i].Type != want {
			t.Errorf("mark[%d].Type = %v, want %v", i, marks[i].Type, want)
		}
	}
	wantRows := []int{0, 0, 1, 3}
	for i, want := range wantRows {
		if marks[i].Row != want {
			t.Errorf("mark[%d].Row = %d, want %d", i, marks[i].Row, want)
		}
	}
	if marks[3].ExitCode != 0 {
		t.Errorf("final mark ExitCode = %d, want 0", marks[3].ExitCode)
	}
}

func threePromptsAtRows012(t *testing.T) *Terminal {
	t.Helper()
	term := New(WithSize(24, 80))
	term.WriteString("\x1b]133;A\x07")
	term.WriteString("prompt1\r\n")
	term.WriteString("\x1b]133;A\x07")
	term.WriteString("prompt2\r\n")
	term.WriteString("\x1b]133;A\x07")
	return term
}

func TestShellIntegrationMark_NextAndPrevPromptRowWalkBothDirections(t *testing.T) {
	term := threePromptsAtRows012(t)

	nextCases := []struct{ from, want int }{
		{-1, 0}, {0, 1}, {1, 2}, {2, -1},
	}
	for _, c := range nextCases {
		if got := term.NextPromptRow(c.from, -1); got != c.want {
			t.Errorf("NextPromptRow(%d, -1) = %d, want %d", c.from, got, c.want)
		}
	}

	prevCases := []struct{ from, want int }{
		{3, 2}, {2, 1}, {1, 0}, {0, -1},
	}
	for _, c := range prevCases {
		if got := term.PrevPromptRow(c.from, -1); got != c.want {
			t.Errorf("PrevPromptRow(%d, -1) = %d, want %d", c.from, got, c.want)
		}
	}
}

func TestShellIntegrationMark_FilteringByTypeSkipsOtherMarkTypes(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("\x1b]133;A\x07") // PromptStart, row 0
	term.WriteString("prompt\r\n")
	term.WriteString("\x1b]133;B\x07") // CommandStart, row 1
	term.WriteString("cmd\r\n")
	term.WriteString("\x1b]133;C\x07") // CommandExecuted, row 2
	term.WriteString("output\r\n")
	term.WriteString("\x1b]133;A\x07") // PromptStart, row 3

	if got := term.NextPromptRow(-1, PromptStart); got != 0 {
		t.Errorf("NextPromptRow(-1, PromptStart) = %d, want 0", got)
	}
	if got := term.NextPromptRow(0, PromptStart); got != 3 {
		t.Errorf("NextPromptRow(0, PromptStart) = %d, want 3 (skipping B and C)", got)
	}
}

func TestShellIntegrationMark_ClearAndLookupByRow(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("\x1b]133;A\x07")
	term.WriteString("\x1b]133;B\x07")

	if term.PromptMarkCount() != 2 {
		t.Fatalf("PromptMarkCount() = %d, want 2", term.PromptMarkCount())
	}

	mark := term.GetPromptMarkAt(0)
	if mark == nil || mark.Type != PromptStart {
		t.Errorf("GetPromptMarkAt(0) = %v, want a PromptStart mark", mark)
	}
	if term.GetPromptMarkAt(5) != nil {
		t.Error("GetPromptMarkAt(5) should be nil, no mark was recorded there")
	}

	term.ClearPromptMarks()
	if term.PromptMarkCount() != 0 {
		t.Errorf("PromptMarkCount() after Clear = %d, want 0", term.PromptMarkCount())
	}
}

type recordingSemanticPromptHandler struct {
	marks []ShellIntegrationMark
	codes []int
}

func (h *recordingSemanticPromptHandler) OnMark(mark ShellIntegrationMark, exitCode int) {
	h.marks = append(h.marks, mark)
	h.codes = append(h.codes, exitCode)
}

func TestShellIntegrationMark_HandlerReceivesEveryMark(t *testing.T) {
	handler := &recordingSemanticPromptHandler{}
	term := New(WithSize(24, 80), WithShellIntegration(handler))

	term.WriteString("\x1b]133;A\x07")
	term.WriteString("\x1b]133;D;42\x07")

	if len(handler.marks) != 2 {
		t.Fatalf("handler recorded %d marks, want 2", len(handler.marks))
	}
	if handler.marks[0] != PromptStart || handler.marks[1] != CommandFinished {
		t.Errorf("handler.marks = %v, want [PromptStart CommandFinished]", handler.marks)
	}
	if handler.codes[1] != 42 {
		t.Errorf("handler.codes[1] = %d, want 42", handler.codes[1])
	}
}

func TestShellIntegrationMark_MiddlewareObservesButDoesNotReplaceStoredMark(t *testing.T) {
	var seenMark ShellIntegrationMark
	var seenCode int

	mw := &Middleware{
		SemanticPromptMark: func(mark ShellIntegrationMark, exitCode int, next func(ShellIntegrationMark, int)) {
			seenMark, seenCode = mark, exitCode
			next(mark, exitCode)
		},
	}
	term := New(WithSize(24, 80), WithMiddleware(mw))

	term.WriteString("\x1b]133;D;123\x07")

	if seenMark != CommandFinished || seenCode != 123 {
		t.Errorf("middleware saw (%v, %d), want (CommandFinished, 123)", seenMark, seenCode)
	}
	if term.PromptMarkCount() != 1 {
		t.Errorf("PromptMarkCount() = %d, want 1", term.PromptMarkCount())
	}
}

func TestGetLastCommandOutput_ExtractsTextBetweenExecutedAndFinished(t *testing.T) {
	tests := []struct {
		name   string
		script func(term *Terminal)
		want   string
	}{
		{
			name: "single line output",
			script: func(term *Terminal) {
				term.WriteString("\x1b]133;A\x07$ \x1b]133;B\x07echo hello\r\n")
				term.WriteString("\x1b]133;C\x07hello\r\n\x1b]133;D;0\x07")
			},
			want: "hello",
		},
		{
			name: "multi-line output joined with newlines",
			script: func(term *Terminal) {
				term.WriteString("\x1b]133;C\x07line1\r\nline2\r\nline3\r\n\x1b]133;D;0\x07")
			},
			want: "line1\nline2\nline3",
		},
		{
			name: "no output between marks is empty",
			script: func(term *Terminal) {
				term.WriteString("\x1b]133;C\x07\x1b]133;D;0\x07")
			},
			want: "",
		},
		{
			name:   "no marks at all",
			script: func(term *Terminal) {},
			want:   "",
		},
		{
			name: "executed without a matching finished yields nothing",
			script: func(term *Terminal) {
				term.WriteString("\x1b]133;C\x07output\r\n")
			},
			want: "",
		},
		{
			name: "non-zero exit code does not affect extraction",
			script: func(term *Terminal) {
				term.WriteString("\x1b]133;C\x07error message\r\n\x1b]133;D;1\x07")
			},
			want: "error message",
		},
		{
			name: "trailing blank lines are trimmed",
			script: func(term *Terminal) {
				term.WriteString("\x1b]133;C\x07content\r\n\r\n\r\n\x1b]133;D;0\x07")
			},
			want: "content",
		},
		{
			name: "only the most recent command's output is returned",
			script: func(term *Terminal) {
				term.WriteString("\x1b]133;C\x07first output\r\n\x1b]133;D;0\x07")
				term.WriteString("\x1b]133;A\x07$ \x1b]133;B\x07cmd2\r\n")
				term.WriteString("\x1b]133;C\x07second output\r\n\x1b]133;D;0\x07")
			},
			want: "second output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := New(WithSize(24, 80))
			tt.script(term)

			if got := term.GetLastCommandOutput(); got != tt.want {
				t.Errorf("GetLastCommandOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ringScrollback is a minimal ScrollbackProvider used to force prompt rows
// off the visible viewport and into scrollback.
type ringScrollback struct {
	lines    [][]Cell
	maxLines int
}

func (s *ringScrollback) Push(line []Cell) {
	cp := make([]Cell, len(line))
	copy(cp, line)
	s.lines = append(s.lines, cp)
	if s.maxLines > 0 && len(s.lines) > s.maxLines {
		s.lines = s.lines[len(s.lines)-s.maxLines:]
	}
}
func (s *ringScrollback) Len() int { return len(s.lines) }
func (s *ringScrollback) Line(i int) []Cell {
	if i < 0 || i >= len(s.lines) {
		return nil
	}
	return s.lines[i]
}
func (s *ringScrollback) SetMaxLines(n int) { s.maxLines = n }
func (s *ringScrollback) Clear()            { s.lines = nil }
func (s *ringScrollback) MaxLines() int     { return s.maxLines }

func TestShellIntegrationMark_RowsStayAbsoluteAcrossScrollback(t *testing.T) {
	storage := &ringScrollback{maxLines: 100}
	term := New(WithSize(5, 80), WithScrollback(storage))

	term.WriteString("\x1b]133;A\x07") // absolute row 0
	term.WriteString("prompt1\r\n")
	for i := 0; i < 10; i++ {
		term.WriteString("line\r\n")
	}
	term.WriteString("\x1b]133;A\x07") // absolute row 11, now scrolled well past the viewport
	term.WriteString("prompt2\r\n")

	marks := term.PromptMarks()
	if len(marks) != 2 {
		t.Fatalf("PromptMarks() has %d entries, want 2", len(marks))
	}
	if marks[0].Row != 0 || marks[1].Row != 11 {
		t.Errorf("mark rows = [%d %d], want [0 11]", marks[0].Row, marks[1].Row)
	}

	if got := term.NextPromptRow(-1, -1); got != 0 {
		t.Errorf("NextPromptRow(-1, -1) = %d, want 0", got)
	}
	if got := term.NextPromptRow(0, -1); got != 11 {
		t.Errorf("NextPromptRow(0, -1) = %d, want 11", got)
	}
	if got := term.PrevPromptRow(12, -1); got != 11 {
		t.Errorf("PrevPromptRow(12, -1) = %d, want 11", got)
	}
	if got := term.PrevPromptRow(11, -1); got != 0 {
		t.Errorf("PrevPromptRow(11, -1) = %d, want 0", got)
	}

	if mark := term.GetPromptMarkAt(0); mark == nil || mark.Type != PromptStart {
		t.Errorf("GetPromptMarkAt(0) = %v, want the scrolled-off PromptStart mark", mark)
	}
	if term.ScrollbackLen() == 0 {
		t.Error("ScrollbackLen() = 0, expected the 10 written lines to have scrolled into it")
	}
}
