package cqrs

// ---------- Customer queries ----------

// GetCustomerDashboardQuery loads card info and history for the session user.
type GetCustomerDashboardQuery struct {
	Username string
}

// ---------- Admin queries ----------

// GetAdminDashboardQuery loads every transaction; Search narrows the visible
// rows but never the statistics.
type GetAdminDashboardQuery struct {
	Search string
}
