// Package integration contains the end-to-end smoke tests for the
// 3mf-looper CLI. Tests in this package build the real binary and run it
// against fabricated project archives.
//
// Run with: go test ./integration/... -v -timeout 120s
package integration
