package console

import "testing"

func TestReportWidthFallsBackWhenNotATerminal(t *testing.T) {
	// go test's stdout is never a TTY, so this should always hit the
	// non-terminal branch rather than querying term.GetSize.
	if isTTY() {
		t.Skip("stdout is a terminal in this environment")
	}
	if got := reportWidth(); got != defaultReportWidth {
		t.Errorf("reportWidth() = %d, want %d", got, defaultReportWidth)
	}
}
