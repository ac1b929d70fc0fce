package presenter

// windowOption is a functional option for configuring an engineWindow.
type windowOption func(w *engineWindow)

// withTitle sets the window title displayed in the title bar.
func withTitle(title string) windowOption {
	return func(w *engineWindow) { w.title = title }
}

// withWidth sets the initial window width.
func withWidth(width int) windowOption {
	return func(w *engineWindow) { w.width = width }
}

// withHeight sets the initial window height.
func withHeight(height int) windowOption {
	return func(w *engineWindow) { w.height = height }
}
