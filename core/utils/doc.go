// Package utils provides loose type conversion helpers for values decoded from
// third-party JSON, where the same field may arrive as a string, a number or a
// boolean depending on the record.
package utils
