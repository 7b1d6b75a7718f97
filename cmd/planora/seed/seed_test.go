package seedcmder

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/planora/planora/cmd/planora/settings"
	"github.com/planora/planora/pkg/catalog"
	"github.com/planora/planora/pkg/catalog/sqlite"
	"github.com/planora/planora/pkg/config"
)

func newRoot() *cobra.Command {
	root := &cobra.Command{Use: "planora", SilenceUsage: true, SilenceErrors: true}
	settings.AddPersistentFlags(root)
	root.AddCommand(NewSeedCmd())
	return root
}

var _ = Describe("seed command", func() {
	var (
		ctx       context.Context
		configDir string
		out       *bytes.Buffer
	)

	BeforeEach(func() {
		ctx = context.Background()
		configDir = GinkgoT().TempDir()
		out = &bytes.Buffer{}

		orig, had := os.LookupEnv(config.EnvStoreURL)
		Expect(os.Unsetenv(config.EnvStoreURL)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(config.EnvStoreURL, orig)
			}
		})
	})

	run := func(args ...string) error {
		root := newRoot()
		root.SetOut(out)
		root.SetErr(out)
		root.SetArgs(append([]string{"seed", "--config-dir", configDir, "--env-file", ""}, args...))
		return root.ExecuteContext(ctx)
	}

	It("seeds the demo catalog into a sqlite store", func() {
		dbPath := filepath.Join(configDir, "planora.db")

		Expect(run("--store", "sqlite://"+dbPath)).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Seeded"))

		store, err := sqlite.NewStore(ctx, dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		events, err := store.ListEventsWithCategory(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(len(catalog.DemoEvents(time.Now()))))
		Expect(events[0].CategoryName).NotTo(BeEmpty())
	})

	It("is idempotent", func() {
		dbPath := filepath.Join(configDir, "planora.db")

		Expect(run("--store", "sqlite://"+dbPath)).To(Succeed())
		Expect(run("--store", "sqlite://"+dbPath)).To(Succeed())

		store, err := sqlite.NewStore(ctx, dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		events, err := store.ListEventsWithCategory(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(len(catalog.DemoEvents(time.Now()))))
	})

	It("refuses the in-memory store", func() {
		err := run("--store", "memory://")
		Expect(err).To(MatchError(ContainSubstring("in-memory store")))
	})
})
