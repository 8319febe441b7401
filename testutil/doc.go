// Package testutil provides deterministic random data generation for matrix
// tests: seeded coordinate mappings and dense vectors with magnitudes safely
// above the default zero tolerance.
package testutil
