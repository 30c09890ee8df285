package vtcore

import "testing"

func TestWorkingDirectory_OSC7ParsesURIAndPath(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		wantURI  string
		wantPath string
	}{
		{
			name:     "BEL terminator",
			sequence: "\x1b]7;file://localhost/home/user\x07",
			wantURI:  "file://localhost/home/user",
			wantPath: "/home/user",
		},
		{
			name:     "ST terminator",
			sequence: "\x1b]7;file://myhost/var/log\x1b\\",
			wantURI:  "file://myhost/var/log",
			wantPath: "/var/log",
		},
		{
			name:     "hostname with dots",
			sequence: "\x1b]7;file://mycomputer.local/var/log/system\x07",
			wantURI:  "file://mycomputer.local/var/log/system",
			wantPath: "/var/log/system",
		},
		{
			name:     "empty hostname (file:///path form)",
			sequence: "\x1b]7;file:///home/user\x07",
			wantURI:  "file:///home/user",
			wantPath: "/home/user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := New(WithSize(24, 80))
			term.WriteString(tt.sequence)

			if got := term.WorkingDirectory(); got != tt.wantURI {
				t.Errorf("WorkingDirectory() = %q, want %q", got, tt.wantURI)
			}
			if got := term.WorkingDirectoryPath(); got != tt.wantPath {
				t.Errorf("WorkingDirectoryPath() = %q, want %q", got, tt.wantPath)
			}
		})
	}
}

func TestWorkingDirectory_UnsetIsEmpty(t *testing.T) {
	term := New(WithSize(24, 80))

	if got := term.WorkingDirectory(); got != "" {
		t.Errorf("WorkingDirectory() = %q, want empty before any OSC 7", got)
	}
	if got := term.WorkingDirectoryPath(); got != "" {
		t.Errorf("WorkingDirectoryPath() = %q, want empty before any OSC 7", got)
	}
}

func TestWorkingDirectory_LaterOSC7ReplacesEarlier(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]7;file://localhost/home/user\x07")
	term.WriteString("\x1b]7;file://localhost/tmp\x07")

	if got := term.WorkingDirectory(); got != "file://localhost/tmp" {
		t.Errorf("WorkingDirectory() = %q, want the most recent OSC 7", got)
	}
}

func TestWorkingDirectory_MiddlewareObservesURI(t *testing.T) {
	var received string
	mw := &Middleware{
		SetWorkingDirectory: func(uri string, next func(string)) {
			received = uri
			next(uri)
		},
	}
	term := New(WithSize(24, 80), WithMiddleware(mw))

	term.WriteString("\x1b]7;file://localhost/test\x07")

	if received != "file://localhost/test" {
		t.Errorf("middleware observed %q, want %q", received, "file://localhost/test")
	}
	if got := term.WorkingDirectory(); got != "file://localhost/test" {
		t.Errorf("WorkingDirectory() = %q after middleware forwarded, want %q", got, "file://localhost/test")
	}
}
