package classify_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestRuleTables runs the BDD suite over the built-in rule tables.
func TestRuleTables(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "rule tables suite")
}
