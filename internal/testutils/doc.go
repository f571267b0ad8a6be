// Package testutils provides in-memory store fakes and fixture helpers
// for service and handler tests. The fakes honor the store contracts
// (sentinel errors, ordering, uniqueness) so services can be exercised
// without a database; WithTx on a fake returns the fake itself.
package testutils
