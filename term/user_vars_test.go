package term

import (
	"bytes"
	"sync"
	"testing"
)

func TestSetAndGetUserVar(t *testing.T) {
	term := New()

	term.SetUserVar("SHELL_USER", "daniel")

	if val := term.GetUserVar("SHELL_USER"); val != "daniel" {
		t.Errorf("GetUserVar() = %q, want daniel", val)
	}
}

func TestGetUserVarNotSet(t *testing.T) {
	term := New()

	if val := term.GetUserVar("NONEXISTENT"); val != "" {
		t.Errorf("GetUserVar() = %q, want empty", val)
	}
}

func TestUserVarOverwrite(t *testing.T) {
	term := New()

	term.SetUserVar("VAR1", "initial")
	term.SetUserVar("VAR1", "updated")

	if val := term.GetUserVar("VAR1"); val != "updated" {
		t.Errorf("GetUserVar() = %q, want updated", val)
	}
}

func TestUserVarEmptyValueIsStillRecorded(t *testing.T) {
	term := New()

	term.SetUserVar("VAR1", "")

	vars := term.GetUserVars()
	if _, exists := vars["VAR1"]; !exists {
		t.Error("expected VAR1 to exist with an empty value")
	}
}

func TestGetUserVars(t *testing.T) {
	term := New()

	term.SetUserVar("VAR1", "value1")
	term.SetUserVar("VAR2", "value2")
	term.SetUserVar("VAR3", "value3")

	vars := term.GetUserVars()

	want := map[string]string{"VAR1": "value1", "VAR2": "value2", "VAR3": "value3"}
	if len(vars) != len(want) {
		t.Fatalf("expected %d variables, got %d", len(want), len(vars))
	}
	for name, value := range want {
		if vars[name] != value {
			t.Errorf("%s = %q, want %q", name, vars[name], value)
		}
	}
}

func TestGetUserVarsReturnsACopy(t *testing.T) {
	term := New()
	term.SetUserVar("VAR1", "value1")

	vars := term.GetUserVars()
	vars["VAR1"] = "modified"
	vars["NEW_VAR"] = "new_value"

	if val := term.GetUserVar("VAR1"); val != "value1" {
		t.Errorf("mutating the returned map changed internal state: VAR1 = %q, want value1", val)
	}
	if val := term.GetUserVar("NEW_VAR"); val != "" {
		t.Errorf("mutating the returned map leaked a new key: NEW_VAR = %q, want unset", val)
	}
}

func TestClearUserVars(t *testing.T) {
	term := New()

	term.SetUserVar("VAR1", "value1")
	term.SetUserVar("VAR2", "value2")

	term.ClearUserVars()

	if vars := term.GetUserVars(); len(vars) != 0 {
		t.Errorf("expected 0 variables after clear, got %d", len(vars))
	}
	if val := term.GetUserVar("VAR1"); val != "" {
		t.Errorf("GetUserVar() = %q after clear, want empty", val)
	}
}

func TestUserVarThroughMiddleware(t *testing.T) {
	var called bool
	var gotName, gotValue string

	mw := &Middleware{
		SetUserVar: func(name, value string, next func(string, string)) {
			called = true
			gotName, gotValue = name, value
			next("MODIFIED_"+name, "MODIFIED_"+value)
		},
	}

	term := New(WithMiddleware(mw))
	term.SetUserVar("VAR1", "value1")

	if !called {
		t.Fatal("expected middleware to run")
	}
	if gotName != "VAR1" || gotValue != "value1" {
		t.Errorf("middleware saw (%q, %q), want (VAR1, value1)", gotName, gotValue)
	}
	if val := term.GetUserVar("MODIFIED_VAR1"); val != "MODIFIED_value1" {
		t.Errorf("expected the rewritten name/value to be recorded, got %q", val)
	}
}

func TestUserVarMiddlewareCanBlock(t *testing.T) {
	mw := &Middleware{
		SetUserVar: func(name, value string, next func(string, string)) {
			// next is never called: the assignment is swallowed.
		},
	}

	term := New(WithMiddleware(mw))
	term.SetUserVar("VAR1", "value1")

	if val := term.GetUserVar("VAR1"); val != "" {
		t.Errorf("expected the assignment to be blocked, got %q", val)
	}
}

func TestMiddlewareMergeIncludesSetUserVar(t *testing.T) {
	var bellCalled, setUserVarCalled bool

	base := &Middleware{Bell: func(next func()) { bellCalled = true; next() }}
	overlay := &Middleware{
		SetUserVar: func(name, value string, next func(string, string)) {
			setUserVarCalled = true
			next(name, value)
		},
	}
	base.Merge(overlay)

	term := New(WithMiddleware(base))
	term.SetUserVar("TEST", "value")

	if bellCalled {
		t.Error("Bell hook should not have run")
	}
	if !setUserVarCalled {
		t.Error("expected the merged SetUserVar hook to run")
	}
	if val := term.GetUserVar("TEST"); val != "value" {
		t.Errorf("GetUserVar() = %q, want value", val)
	}
}

func TestUserVarThreadSafety(t *testing.T) {
	term := New()

	const goroutines = 100
	var wg sync.WaitGroup

	wg.Add(goroutines * 2)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			term.SetUserVar("VAR", "value")
		}()
		go func() {
			defer wg.Done()
			_ = term.GetUserVar("VAR")
			_ = term.GetUserVars()
		}()
	}
	wg.Wait()

	if val := term.GetUserVar("VAR"); val != "value" {
		t.Errorf("GetUserVar() = %q, want value", val)
	}
}

func TestOSC1337SetUserVar(t *testing.T) {
	tests := []struct {
		name       string
		osc        string
		varName    string
		wantValue  string
		wantExists bool
	}{
		// "test_value" base64-encodes to "dGVzdF92YWx1ZQ=="
		{"BEL terminator", "\x1b]1337;SetUserVar=TEST_VAR=dGVzdF92YWx1ZQ==\x07", "TEST_VAR", "test_value", true},
		// "hello" base64-encodes to "aGVsbG8="
		{"ST terminator", "\x1b]1337;SetUserVar=HELLO=aGVsbG8=\x1b\\", "HELLO", "hello", true},
		// "hello\nworld\ttab" base64-encodes to "aGVsbG8Kd29ybGQJdGFi"
		{"embedded control characters", "\x1b]1337;SetUserVar=SPECIAL=aGVsbG8Kd29ybGQJdGFi\x07", "SPECIAL", "hello\nworld\ttab", true},
		{"invalid base64 drops the assignment", "\x1b]1337;SetUserVar=TEST=!@#$%^\x07", "TEST", "", false},
		{"empty value is still assigned", "\x1b]1337;SetUserVar=EMPTY=\x07", "EMPTY", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := New()
			_, _ = term.Write([]byte(tt.osc))

			vars := term.GetUserVars()
			_, exists := vars[tt.varName]
			if exists != tt.wantExists {
				t.Fatalf("%s exists = %v, want %v", tt.varName, exists, tt.wantExists)
			}
			if exists && vars[tt.varName] != tt.wantValue {
				t.Errorf("%s = %q, want %q", tt.varName, vars[tt.varName], tt.wantValue)
			}
		})
	}
}

func TestOSC1337SetUserVarGeneratesNoResponse(t *testing.T) {
	var buf bytes.Buffer
	term := New(WithResponse(&buf))

	_, _ = term.Write([]byte("\x1b]1337;SetUserVar=TEST=dGVzdA==\x07"))

	if buf.Len() != 0 {
		t.Errorf("expected no response bytes, got %d", buf.Len())
	}
	if val := term.GetUserVar("TEST"); val != "test" {
		t.Errorf("GetUserVar() = %q, want test", val)
	}
}
