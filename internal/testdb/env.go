//go:build integration

package testdb

import (
	"net/url"
	"os"
)

// Environment variables checked, in order, for the test database URL.
var databaseURLEnvVars = []string{"TASKAPI_TEST_DATABASE_URL", "TASKAPI_DATABASE_URL", "DATABASE_URL"}

// GetTestDatabaseURL returns the first configured database URL, or "".
func GetTestDatabaseURL() string {
	for _, name := range databaseURLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// isCIEnvironment returns true if running under a common CI system.
func isCIEnvironment() bool {
	for _, name := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// maskDatabaseURL hides the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}
	u, err := url.Parse(dbURL)
	if err != nil {
		return "[unparseable database URL]"
	}
	if u.User == nil {
		return u.String()
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
