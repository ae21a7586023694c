// Package testhelpers holds shared fixtures for package and integration tests.
package testhelpers

import (
	"os"

	infralogger "github.com/yujin9907/cloud-naitive/infrastructure/logger"
)

// NewTestLogger returns a logger for tests. Output is discarded unless
// BOARD_TEST_LOG is set, in which case debug output goes to stderr.
func NewTestLogger() infralogger.Logger {
	if os.Getenv("BOARD_TEST_LOG") == "" {
		return infralogger.NewNop()
	}
	return infralogger.Must(infralogger.Config{
		Level:       "debug",
		Format:      infralogger.FormatConsole,
		OutputPaths: []string{"stderr"},
	})
}
