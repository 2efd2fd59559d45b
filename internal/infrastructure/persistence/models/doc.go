// Package models contains the GORM persistence models for every aggregate.
// Domain entities never cross the repository boundary directly; repositories
// convert between domain types and these models so schema concerns stay out
// of the domain layer.
package models
