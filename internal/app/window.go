package app

// LineWindow collects sanitized lines for one push period.
type LineWindow struct {
	lines [][]byte
}

func NewLineWindow() *LineWindow {
	return &LineWindow{}
}

func (w *LineWindow) Append(line *LogLine) error {
	w.lines = append(w.lines, []byte(line.Text))
	return nil
}

func (w *LineWindow) Flush() [][]byte {
	lines := w.lines
	w.lines = nil
	return lines
}
