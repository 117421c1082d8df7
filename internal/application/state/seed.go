package state

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-inventory/internal/domain/entity"
)

// IDs estables del dataset inicial.
const (
	SeedSupplierOffice = "sup-1"
	SeedSupplierCosco  = "sup-2"
	SeedSupplierTech   = "sup-3"
	SeedItemBondPaper  = "item-1"
	SeedItemPrinter    = "item-2"
	SeedItemDesk       = "item-3"
	SeedItemBallpen    = "item-4"
	SeedItemStand      = "item-5"
)

// Empty dataset vacío (tests y despliegues sin datos de ejemplo).
func Empty(time.Time) Collections { return Collections{} }

// Seed dataset de ejemplo que se carga cuando el store no tiene una colección.
func Seed(now time.Time) Collections {
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }
	ptr := func(s string) *string { return &s }

	suppliers := []entity.Supplier{
		{ID: SeedSupplierOffice, Name: "Office Warehouse", ContactPerson: "Juan Dela Cruz",
			Email: "orders@officewarehouse.example", Phone: "+63 912 345 6789",
			Address: "123 Rizal Ave, Manila", IsActive: true, DateAdded: day(-60)},
		{ID: SeedSupplierCosco, Name: "COSCO SHIPPING", ContactPerson: "Maria Santos",
			Email: "logistics@cosco.example", Phone: "+63 917 555 0101",
			Address: "Pier 4, North Harbor, Manila", IsActive: true, DateAdded: day(-45)},
		{ID: SeedSupplierTech, Name: "Tech Supplies Inc.", ContactPerson: "Pedro Reyes",
			Email: "sales@techsupplies.example", Phone: "+63 918 222 3344",
			Address: "45 Ayala Ave, Makati", IsActive: true, DateAdded: day(-30)},
	}

	categories := []entity.Category{
		{ID: "cat-1", Name: "Office Supplies", Description: "Paper, pens and desk consumables", DateAdded: day(-60)},
		{ID: "cat-2", Name: "Equipment", Description: "Printers and machines", DateAdded: day(-60)},
		{ID: "cat-3", Name: "Furniture", Description: "Desks, chairs and shelving", DateAdded: day(-60)},
		{ID: "cat-4", Name: "Electronics", Description: "Devices and accessories", DateAdded: day(-60)},
		{ID: "cat-5", Name: "Other", Description: "Uncategorized items", DateAdded: day(-60)},
	}

	items := []entity.Item{
		{ID: SeedItemBondPaper, Name: "A4 Bond Paper", Category: "Office Supplies", Quantity: 100,
			Location: "Shelf A1", ReorderLevel: 20, Price: decimal.NewFromInt(250),
			SupplierID: ptr(SeedSupplierOffice), SupplierName: ptr("Office Warehouse"),
			DamagedStatus: entity.DamagedStatusGood, DateAdded: day(-50)},
		{ID: SeedItemPrinter, Name: "HP Printer", Category: "Equipment", Quantity: 40,
			Location: "Shelf B2", ReorderLevel: 10, Price: decimal.NewFromInt(15000),
			SupplierID: ptr(SeedSupplierTech), SupplierName: ptr("Tech Supplies Inc."),
			DamagedStatus: entity.DamagedStatusGood, DateAdded: day(-40)},
		{ID: SeedItemDesk, Name: "Office Desk", Category: "Furniture", Quantity: 50,
			Location: "Zone C", ReorderLevel: 5, Price: decimal.NewFromInt(8500),
			DamagedStatus: entity.DamagedStatusGood, DateAdded: day(-35)},
		{ID: SeedItemBallpen, Name: "Ballpen (Black)", Category: "Office Supplies", Quantity: 200,
			Location: "Shelf A2", ReorderLevel: 50, Price: decimal.NewFromInt(10),
			SupplierID: ptr(SeedSupplierOffice), SupplierName: ptr("Office Warehouse"),
			DamagedStatus: entity.DamagedStatusGood, DateAdded: day(-30)},
		{ID: SeedItemStand, Name: "Laptop Stand", Category: "Electronics", Quantity: 100,
			Location: "Shelf D1", ReorderLevel: 20, Price: decimal.NewFromInt(1200),
			DamagedStatus: entity.DamagedStatusGood, DateAdded: day(-20)},
	}

	appointments := []entity.Appointment{
		{ID: "appt-1", SupplierID: SeedSupplierOffice, SupplierName: "Office Warehouse",
			Date: day(5).Format(entity.AppointmentDateLayout), Time: "10:00",
			Status: entity.AppointmentPending,
			Items: []entity.RestockLine{
				{ItemID: SeedItemBondPaper, ItemName: "A4 Bond Paper", Quantity: 100},
				{ItemID: SeedItemBallpen, ItemName: "Ballpen (Black)", Quantity: 500},
			},
			Notes: "Monthly office supplies restock", ScheduledBy: "Administrator",
			ScheduledDate: day(-1), LastUpdated: day(-1)},
	}

	logs := []entity.ActivityLog{
		{ID: "log-1", ItemName: "A4 Bond Paper", Action: entity.ActionAdded, User: "Administrator",
			UserRole: entity.RoleAdmin, Timestamp: day(-50), Details: "Added 100 units to inventory"},
	}

	return Collections{
		Suppliers:    suppliers,
		Categories:   categories,
		Items:        items,
		Appointments: appointments,
		ActivityLogs: logs,
	}
}
