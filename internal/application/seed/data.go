package seed

import "github.com/shopspring/decimal"

type categorySeed struct{ name, description string }

type unitSeed struct{ code, name, description string }

type warehouseSeed struct{ code, name string }

type productSeed struct {
	sku, name, category, unit string
	reorderLevel, reorderQty  int64
}

type stockSeed struct {
	sku, warehouse string
	qty, reserved  int64
}

type supplierSeed struct{ code, name, email string }

var categories = []categorySeed{
	{"Electronics", "Electronic finished goods"},
	{"Raw Materials", "Raw materials"},
	{"Spare Parts", "Maintenance and critical spare parts"},
	{"Packaging Supplies", "Cartons, mailers, and inserts"},
}

var units = []unitSeed{
	{"PCS", "Pieces", "Individual units"},
	{"KG", "Kilograms", "Weight in kilograms"},
	{"BOX", "Boxes", "Standard carton"},
	{"KIT", "Kits", "Pre-packaged maintenance kits"},
	{"PACK", "Packs", "Bundled mailers"},
}

// Códigos de bodega usados por los documentos demo.
const (
	whMain      = "WH-001"
	whSecondary = "WH-002"
	whHub       = "WH-003"
)

var warehouses = []warehouseSeed{
	{whMain, "Main Warehouse"},
	{whSecondary, "Secondary Warehouse"},
	{whHub, "Micro Fulfillment Hub"},
}

var products = []productSeed{
	{"LAP-001", "Laptop 15-inch", "Electronics", "PCS", 5, 20},
	{"STL-001", "Steel Rods", "Raw Materials", "KG", 50, 200},
	{"BOX-001", "Cardboard Box", "Raw Materials", "BOX", 30, 100},
	{"TAB-201", "Tablet 11-inch Pro", "Electronics", "PCS", 8, 30},
	{"DRV-050", "Precision Servo Drive", "Electronics", "PCS", 3, 12},
	{"BAT-500", "Lithium Battery Pack", "Spare Parts", "PCS", 15, 40},
	{"FIL-120", "Nylon Filament 12kg", "Raw Materials", "KG", 25, 75},
	{"KIT-900", "Maintenance Kit Deluxe", "Spare Parts", "KIT", 6, 18},
	{"PKG-250", "Eco Mailer Pack", "Packaging Supplies", "PACK", 40, 120},
	{"SEN-330", "Temperature Sensor Module", "Electronics", "PCS", 20, 60},
}

var stockMatrix = []stockSeed{
	{"LAP-001", whMain, 40, 5},
	{"STL-001", whMain, 500, 0},
	{"BOX-001", whSecondary, 150, 10},
	{"TAB-201", whMain, 28, 4},
	{"DRV-050", whMain, 12, 2},
	{"BAT-500", whSecondary, 60, 5},
	{"FIL-120", whMain, 210, 15},
	{"KIT-900", whHub, 18, 1},
	{"PKG-250", whHub, 240, 20},
	{"SEN-330", whSecondary, 95, 8},
}

var suppliers = []supplierSeed{
	{"SUP-001", "Global Electronics", "sales@globalelec.test"},
	{"SUP-002", "Steel Corp", "contact@steelcorp.test"},
	{"SUP-003", "Northern Components", "hello@northerncomponents.test"},
	{"SUP-004", "EcoPack Solutions", "sales@ecopack.test"},
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
