// Package app provides the application service layer.
//
// Orchestrates use cases: answering questions, student analysis and profiles,
// dataset summaries, language model score insights and dataset reloads.
// Sits between HTTP handlers and the dataset, the router and optional adapters.
// Depends on domain interfaces, not concrete implementations.
package app
