package term

import "github.com/danielgatis/go-ansicode"

// SemanticPromptMark records one OSC 133 shell-integration mark: where in
// the scrollback-relative grid it landed, and — for a command-finished
// mark — the exit code the shell reported.
type SemanticPromptMark struct {
	Type ansicode.ShellIntegrationMark
	// Row is absolute: it includes whatever has scrolled into scrollback,
	// so a mark's position stays meaningful as the live grid scrolls past it.
	Row      int
	ExitCode int // only meaningful for a CommandFinished mark; -1 otherwise
}

// SemanticPromptHandler is notified each time a shell-integration mark
// arrives, in addition to it being recorded for prompt navigation.
type SemanticPromptHandler interface {
	OnMark(mark ansicode.ShellIntegrationMark, exitCode int)
}

// NoopSemanticPromptHandler discards every mark.
type NoopSemanticPromptHandler struct{}

func (NoopSemanticPromptHandler) OnMark(mark ansicode.ShellIntegrationMark, exitCode int) {}

var _ SemanticPromptHandler = NoopSemanticPromptHandler{}

// ShellIntegrationMark is the ansicode.Handler entry point for OSC 133; the
// name is fixed by that interface, not chosen here.
func (t *Terminal) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	if t.middleware != nil && t.middleware.SemanticPromptMark != nil {
		t.middleware.SemanticPromptMark(mark, exitCode, t.recordSemanticPromptMark)
		return
	}
	t.recordSemanticPromptMark(mark, exitCode)
}

func (t *Terminal) recordSemanticPromptMark(mark ansicode.ShellIntegrationMark, exitCode int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	absRow := t.cursor.Row + t.primaryBuffer.ScrollbackLen()
	t.promptMarks = append(t.promptMarks, SemanticPromptMark{
		Type:     mark,
		Row:      absRow,
		ExitCode: exitCode,
	})

	if t.semanticPromptHandler != nil {
		t.semanticPromptHandler.OnMark(mark, exitCode)
	}
}

// PromptMarks returns a copy of every mark recorded so far.
func (t *Terminal) PromptMarks() []SemanticPromptMark {
	t.mu.RLock()
	defer t.mu.RUnlock()

	marks := make([]SemanticPromptMark, len(t.promptMarks))
	copy(marks, t.promptMarks)
	return marks
}

// PromptMarkCount reports how many marks are recorded.
func (t *Terminal) PromptMarkCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.promptMarks)
}

// ClearPromptMarks discards every recorded mark.
func (t *Terminal) ClearPromptMarks() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.promptMarks = nil
}

// NextPromptRow returns the absolute row of the first mark after
// currentAbsRow, optionally restricted to markType (pass -1 for any type),
// or -1 if none follows.
func (t *Terminal) NextPromptRow(currentAbsRow int, markType ansicode.ShellIntegrationMark) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, mark := range t.promptMarks {
		if mark.Row > currentAbsRow && (markType == -1 || mark.Type == markType) {
			return mark.Row
		}
	}
	return -1
}

// PrevPromptRow returns the absolute row of the last mark before
// currentAbsRow, optionally restricted to markType, or -1 if none precedes.
func (t *Terminal) PrevPromptRow(currentAbsRow int, markType ansicode.ShellIntegrationMark) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := len(t.promptMarks) - 1; i >= 0; i-- {
		mark := t.promptMarks[i]
		if mark.Row < currentAbsRow && (markType == -1 || mark.Type == markType) {
			return mark.Row
		}
	}
	return -1
}

// GetPromptMarkAt returns the mark recorded at absRow, or nil if none was.
func (t *Terminal) GetPromptMarkAt(absRow int) *SemanticPromptMark {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.promptMarks {
		if t.promptMarks[i].Row == absRow {
			mark := t.promptMarks[i]
			return &mark
		}
	}
	return nil
}

// SetSemanticPromptHandler replaces the handler at runtime.
func (t *Terminal) SetSemanticPromptHandler(h SemanticPromptHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.semanticPromptHandler = h
}

// SemanticPromptHandlerValue returns the currently installed handler.
func (t *Terminal) SemanticPromptHandlerValue() SemanticPromptHandler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.semanticPromptHandler
}

// GetLastCommandOutput returns the text between the most recent matched
// CommandExecuted/CommandFinished mark pair — what the last command
// printed, independent of whether it has since scrolled into scrollback.
// Returns "" if no complete pair is recorded.
func (t *Terminal) GetLastCommandOutput() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	executedRow, finishedRow, ok := t.lastCompleteCommandSpan()
	if !ok {
		return ""
	}
	return t.textBetweenAbsoluteRows(executedRow, finishedRow)
}

// lastCompleteCommandSpan scans marks from the newest backward for the
// most recent CommandExecuted/CommandFinished pair where the executed mark
// actually precedes the finished one — an OSC 133 stream that starts
// mid-command (attached to an already-running shell) can otherwise pair a
// finished mark with an executed mark from the wrong command.
func (t *Terminal) lastCompleteCommandSpan() (executedRow, finishedRow int, ok bool) {
	var executed, finished *SemanticPromptMark
	for i := len(t.promptMarks) - 1; i >= 0; i-- {
		mark := &t.promptMarks[i]
		if finished == nil && mark.Type == ansicode.CommandFinished {
			finished = mark
		}
		if executed == nil && mark.Type == ansicode.CommandExecuted {
			executed = mark
		}
		if executed != nil && finished != nil {
			if executed.Row < finished.Row {
				return executed.Row, finished.Row, true
			}
			executed, finished = nil, nil
		}
	}
	return 0, 0, false
}

// textBetweenAbsoluteRows joins the text of rows [start, end), resolving
// each row against scrollback or the live grid as needed, and drops
// trailing blank rows from the result.
func (t *Terminal) textBetweenAbsoluteRows(start, end int) string {
	scrollbackLen := t.primaryBuffer.ScrollbackLen()

	lines := make([]string, 0, end-start)
	for absRow := start; absRow < end; absRow++ {
		lines = append(lines, t.lineAtAbsoluteRow(absRow, scrollbackLen))
	}

	lastNonEmpty := -1
	for i, line := range lines {
		if line != "" {
			lastNonEmpty = i
		}
	}
	if lastNonEmpty < 0 {
		return ""
	}

	result := lines[0]
	for _, line := range lines[1:lastNonEmpty+1] {
		result += "\n" + line
	}
	return result
}

func (t *Terminal) lineAtAbsoluteRow(absRow, scrollbackLen int) string {
	if absRow < scrollbackLen {
		if line := t.primaryBuffer.ScrollbackLine(absRow); line != nil {
			return rowText(line)
		}
		return ""
	}
	row := absRow - scrollbackLen
	if row < 0 || row >= t.rows {
		return ""
	}
	return t.activeBuffer.LineContent(row)
}
