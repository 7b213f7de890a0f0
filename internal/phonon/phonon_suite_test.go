package phonon

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPhonon(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Phonon Suite")
}
