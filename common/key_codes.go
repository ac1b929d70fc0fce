package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyD     = 68  // D key (ASCII), bound to the debug overlay toggle
	KeyQ     = 81  // Q key (ASCII), bound to quit
	KeySpace = 32  // Spacebar (ASCII), bound to play/pause toggle
	KeyEsc   = 256 // Escape key (GLFW), bound to quit / closing the browser

	KeyEnter = 257 // Enter/Return (GLFW), bound to confirming a browser selection
	KeyRight = 262 // Right arrow (GLFW), bound to step forward / browser navigation
	KeyLeft  = 263 // Left arrow (GLFW), bound to step backward / browser navigation
	KeyDown  = 264 // Down arrow (GLFW), bound to browser navigation
	KeyUp    = 265 // Up arrow (GLFW), bound to browser navigation

	KeyR = 82 // R key (ASCII), bound to reload
	KeyO = 79 // O key (ASCII), bound to the folder browser
	KeyP = 80 // P key (ASCII), bound to pause
	KeyN = 78 // N key (ASCII), bound to cycling repeat mode
	KeyI = 73 // I key (ASCII), bound to cycling the pre-buffer mode
)
