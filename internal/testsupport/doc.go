// Package testsupport holds helpers shared by package tests: temp-directory
// configs, stub binaries, and transcript fixtures.
package testsupport
