// Package testutil holds helpers shared by package tests.
package testutil

import "testing"

// Given, When and Then nest subtests so a scenario reads top-down in test
// output, e.g. "Given_a_full_drive/When_a_donor_registers/Then_...".
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
