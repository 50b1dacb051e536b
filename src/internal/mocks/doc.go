// Package mocks provides mock implementations for testing.
//
// This package should ONLY be imported in test files (_test.go).
// The Go toolchain will automatically exclude this package from production builds
// since it's not imported in any production code.
//
// Every mock is safe for concurrent use, so it can back interfaces that are
// registered in parallel.
package mocks
