package model

// PointBalance is the derived balance for one employee. It is computed from
// the ledger on every read; nothing stores it as a second source of truth.
type PointBalance struct {
	EmployeeID    int64  `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	TotalEarned   int    `json:"total_earned"`
	TotalSpent    int    `json:"total_spent"`
	TotalDeducted int    `json:"total_deducted"`
	Balance       int    `json:"balance"`
}
