package processing

import (
	"ledger_dashboard/internal/ledger"
)

// Compile-time interface compliance checks
// These will cause compilation errors if the types don't implement the interfaces

var (
	_ LedgerClientInterface = (*ledger.Client)(nil)
	_ PlayerSourceInterface = (*ledger.Client)(nil)
	_ ledger.CallRecorder   = (*APICallTracker)(nil)
)
