package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:sale", Name: "Record Product Sale"},
	// Capital ledger
	{Code: "capital:view", Name: "View Capital Ledger"},
	{Code: "capital:deposit", Name: "Deposit Capital"},
	{Code: "capital:withdraw", Name: "Withdraw Capital"},
	// Offline bookkeeping
	{Code: "offline:view", Name: "View Offline Ledger"},
	{Code: "offline:manage", Name: "Manage Offline Suppliers/Products"},
	{Code: "offline:payment", Name: "Pay Offline Supplier"},
	// Warehouse
	{Code: "material:view", Name: "View Material"},
	{Code: "material:create", Name: "Create Material"},
	{Code: "material:movement", Name: "Record Material Movement"},
	{Code: "fabric:manage", Name: "Manage Fabrics"},
	{Code: "production:view", Name: "View Production"},
	{Code: "production:create", Name: "Create Production Order"},
	// Dashboard & reports
	{Code: "dashboard:view", Name: "View Dashboard"},
	{Code: "report:export", Name: "Export Reports"},
	// Integrations (admin only)
	{Code: "facebook:manage", Name: "Manage Facebook Ads"},
}
