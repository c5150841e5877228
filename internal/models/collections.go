package models

// Child collection names, as used in store paths
// (owners/{owner}/properties/{property}/{collection}/{id}) and as bus
// topic segments.
const (
	CollectionTenants      = "tenants"
	CollectionMaintenance  = "maintenance_logs"
	CollectionInspections  = "inspections"
	CollectionDocuments    = "documents"
	CollectionExpenses     = "expenses"
	CollectionRentPayments = "rent_payments"
	CollectionScreenings   = "screenings"
)

// WatchedCollections are the per-property child collections the portfolio
// aggregator subscribes to.
var WatchedCollections = []string{
	CollectionMaintenance,
	CollectionInspections,
	CollectionDocuments,
	CollectionRentPayments,
}
