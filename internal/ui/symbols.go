package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Enabled / succeeded
	SymbolFail     = "✗" // Disabled / failed
	SymbolWarning  = "⚠" // Enabled but dangerous
	SymbolBullet   = "•" // List item
	SymbolSparkle  = "✨" // Clean shutdown
	SymbolCrossBig = "✖" // Fatal error banner
)
