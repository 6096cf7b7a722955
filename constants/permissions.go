package constants

// Organization permissions
const (
	// Admin permissions
	PermSuperAdminFull = "freight-booking.super-admin.full-permit"
	PermManagerFull    = "freight-booking.manager.full-permit"
	PermOperatorFull   = "freight-booking.operator.full-permit"
	PermWarehouseFull  = "freight-booking.warehouse.full-permit"
	PermDriverFull     = "freight-booking.driver.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	LifecyclePermissions = []string{
		PermSuperAdminFull,
		PermManagerFull,
		PermOperatorFull,
	}

	WarehousePermissions = []string{
		PermSuperAdminFull,
		PermManagerFull,
		PermWarehouseFull,
	}
)
