package domain

import "time"

// DefaultGateWindow is how long a repeated decode of the same text is suppressed
const DefaultGateWindow = 2 * time.Second

// Gate suppresses rapid repeats of the same decoded text.
// A camera pointed at one code keeps re-emitting it every frame; only the
// first decode within the window is admitted. Gate is not safe for
// concurrent use; the owning session serializes access.
type Gate struct {
	window   time.Duration
	lastText string
	lastTime time.Time
	hasLast  bool
}

// NewGate creates a gate with the given suppression window.
// A non-positive window falls back to DefaultGateWindow.
func NewGate(window time.Duration) *Gate {
	if window <= 0 {
		window = DefaultGateWindow
	}
	return &Gate{window: window}
}

// Admit reports whether text decoded at now should be processed.
// It returns false only if text equals the previously admitted text and
// less than the window has elapsed since it was admitted.
func (g *Gate) Admit(text string, now time.Time) bool {
	if g.hasLast && text == g.lastText && now.Sub(g.lastTime) < g.window {
		return false
	}
	g.lastText = text
	g.lastTime = now
	g.hasLast = true
	return true
}

// Reset forgets the last admitted value
func (g *Gate) Reset() {
	g.lastText = ""
	g.lastTime = time.Time{}
	g.hasLast = false
}

// Window returns the suppression window
func (g *Gate) Window() time.Duration {
	return g.window
}
