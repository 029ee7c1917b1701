package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Run ended cleanly
	SymbolFail     = "✗" // Task failed
	SymbolTimeUp   = "◷" // Time limit reached
	SymbolComplete = "●" // Routine listing bullet
)
