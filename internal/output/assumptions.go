package output

// ModelAssumptions lists the modeling conventions shared by every projection.
// Scenario-specific assumptions are rendered alongside them.
var ModelAssumptions = []string{
	"Interest compounds monthly at the annual growth rate divided by 12",
	"Each projection year is exactly twelve months",
	"Net flow (income minus expenses) is added after interest and earns nothing that month",
	"Lump sum withdrawals are taken in the last month of their start year",
	"Real values divide by cumulative inflation, applied from year 1",
	"Balances may go negative; no floor is applied",
}
