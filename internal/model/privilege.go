package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "register:open"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Open Register"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Register (cash drawer)
	{Code: "register:open", Name: "Open Register"},
	{Code: "register:close", Name: "Close Register"},
	{Code: "register:movement", Name: "Record Cash Movement"},
	// Point of sale
	{Code: "order:manage", Name: "Manage Orders"},
	{Code: "sale:create", Name: "Commit Sale"},
	// Read surfaces
	{Code: "catalog:view", Name: "View Catalog"},
	{Code: "inventory:view", Name: "View Inventory"},
	{Code: "history:view", Name: "View Register History"},
	// User management (MASTER_ADMIN only)
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
}
