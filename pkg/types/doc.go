// Package types defines the small public value types shared by the cluster
// store engine, its subpackages and the command line tool.
//
// This package has no dependencies beyond the standard library.
package types
