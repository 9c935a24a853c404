// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (student.go, answer.go, insights.go, errors.go) hold
// shared types and the interfaces that adapters implement. No implementation
// code, just contracts.
package domain
