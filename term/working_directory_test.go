package term

import "testing"

func TestWorkingDirectory(t *testing.T) {
	tests := []struct {
		name string
		osc7 string
		want string
	}{
		{"BEL terminator", "\x1b]7;file://localhost/home/user\x07", "file://localhost/home/user"},
		{"ST terminator", "\x1b]7;file://myhost/var/log\x1b\\", "file://myhost/var/log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := New(WithSize(24, 80))
			term.WriteString(tt.osc7)

			if got := term.WorkingDirectory(); got != tt.want {
				t.Errorf("WorkingDirectory() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkingDirectoryNotSet(t *testing.T) {
	term := New(WithSize(24, 80))

	if got := term.WorkingDirectory(); got != "" {
		t.Errorf("WorkingDirectory() = %q, want empty", got)
	}
	if got := term.WorkingDirectoryPath(); got != "" {
		t.Errorf("WorkingDirectoryPath() = %q, want empty", got)
	}
}

func TestWorkingDirectoryOverwritesPrevious(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]7;file://localhost/home/user\x07")
	term.WriteString("\x1b]7;file://localhost/tmp\x07")

	if got := term.WorkingDirectory(); got != "file://localhost/tmp" {
		t.Errorf("WorkingDirectory() = %q, want file://localhost/tmp", got)
	}
}

func TestWorkingDirectoryPath(t *testing.T) {
	tests := []struct {
		name string
		osc7 string
		want string
	}{
		{"basic path", "\x1b]7;file://localhost/home/user\x07", "/home/user"},
		{"hostname stripped", "\x1b]7;file://mycomputer.local/var/log/system\x07", "/var/log/system"},
		{"empty hostname", "\x1b]7;file:///home/user\x07", "/home/user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := New(WithSize(24, 80))
			term.WriteString(tt.osc7)

			if got := term.WorkingDirectoryPath(); got != tt.want {
				t.Errorf("WorkingDirectoryPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkingDirectoryThroughMiddleware(t *testing.T) {
	var called bool
	var gotURI string

	mw := &Middleware{
		SetWorkingDirectory: func(uri string, next func(string)) {
			called = true
			gotURI = uri
			next(uri)
		},
	}

	term := New(WithSize(24, 80), WithMiddleware(mw))
	term.WriteString("\x1b]7;file://localhost/test\x07")

	if !called {
		t.Fatal("expected middleware to run")
	}
	if gotURI != "file://localhost/test" {
		t.Errorf("middleware saw uri = %q, want file://localhost/test", gotURI)
	}
	if term.WorkingDirectory() != "file://localhost/test" {
		t.Error("expected working directory to still be recorded")
	}
}
