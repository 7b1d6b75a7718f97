package servecmder_test

import (
	"bytes"
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	servecmder "github.com/planora/planora/cmd/planora/serve"
	"github.com/planora/planora/cmd/planora/settings"
	"github.com/planora/planora/pkg/config"
)

var _ = Describe("serve command", func() {
	var configDir string

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		orig, had := os.LookupEnv(config.EnvStoreURL)
		Expect(os.Unsetenv(config.EnvStoreURL)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(config.EnvStoreURL, orig)
			}
		})
	})

	run := func(args ...string) error {
		root := &cobra.Command{Use: "planora", SilenceUsage: true, SilenceErrors: true}
		settings.AddPersistentFlags(root)
		root.AddCommand(servecmder.NewServeCmd())
		buf := &bytes.Buffer{}
		root.SetOut(buf)
		root.SetErr(buf)
		root.SetArgs(append(args, "--config-dir", configDir, "--env-file", ""))
		return root.ExecuteContext(context.Background())
	}

	It("has relay and api subcommands", func() {
		cmd := servecmder.NewServeCmd()
		names := []string{}
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ConsistOf("relay", "api"))
	})

	It("registers the shared flags from the registry", func() {
		cmd := servecmder.NewServeCmd()
		for _, key := range []string{
			config.FlagRelayListen,
			config.FlagAPIListen,
			config.FlagUpstream,
			config.FlagModel,
			config.FlagStore,
			config.FlagBrokers,
		} {
			Expect(cmd.Flags().Lookup(config.Registry[key].Name)).NotTo(BeNil(), key)
		}
	})

	It("defaults the listen flags to the configured ports", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Flags().Lookup("relay-listen").DefValue).To(Equal(":8080"))
		Expect(cmd.Flags().Lookup("api-listen").DefValue).To(Equal(":8081"))
	})

	It("fails before listening on an unsupported store URL", func() {
		Expect(run("serve", "--store", "ftp://events")).To(MatchError(ContainSubstring("unsupported store URL")))
	})

	It("fails before listening on an unparseable header timeout", func() {
		Expect(run("serve", "--header-timeout", "later")).To(MatchError(ContainSubstring("relay.header_timeout")))
	})

	It("fails when brokers are set without a topic", func() {
		Expect(run("serve", "relay", "--brokers", "localhost:9092", "--topic", "")).
			To(MatchError(ContainSubstring("topic is required")))
	})

	Describe("relay subcommand", func() {
		It("uses --listen for the relay address", func() {
			cmd := servecmder.NewServeCmd()
			relay, _, err := cmd.Find([]string{"relay"})
			Expect(err).NotTo(HaveOccurred())
			Expect(relay.Flags().Lookup("listen").DefValue).To(Equal(":8080"))
		})
	})

	Describe("api subcommand", func() {
		It("uses --listen for the API address", func() {
			cmd := servecmder.NewServeCmd()
			api, _, err := cmd.Find([]string{"api"})
			Expect(err).NotTo(HaveOccurred())
			Expect(api.Flags().Lookup("listen").DefValue).To(Equal(":8081"))
		})

		It("fails before listening on an unsupported store URL", func() {
			Expect(run("serve", "api", "--store", "ftp://events")).To(MatchError(ContainSubstring("unsupported store URL")))
		})
	})
})
