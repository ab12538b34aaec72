// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models hold the table mappings
// 3. ToDomain / FromDomain convert between the two
// 4. Repositories only read and write persistence models
//
// Structure:
// - base.go: BaseModel shared by aggregate tables
// - ledger.go: clients, invoices, invoice_details
package models
