package ui

// SetClipboardWriter swaps the clipboard backend and returns a restore func.
func SetClipboardWriter(f func(string) error) func() {
	prev := writeClipboard
	writeClipboard = f
	return func() { writeClipboard = prev }
}
