package versioncmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	versioncmder "github.com/planora/planora/cmd/version"
	"github.com/planora/planora/pkg/utils"
)

var _ = Describe("version", func() {
	It("prints the version, sha, and build time", func() {
		out := &bytes.Buffer{}
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Version: " + utils.Version))
		Expect(out.String()).To(ContainSubstring("Sha: " + utils.Sha))
	})

	It("prints only the version with --short", func() {
		out := &bytes.Buffer{}
		cmd := versioncmder.NewVersionCmd()
		cmd.SetOut(out)
		cmd.SetArgs([]string{"--short"})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(Equal(utils.Version + "\n"))
	})
})
