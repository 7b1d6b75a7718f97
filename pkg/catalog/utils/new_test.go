package catalogutils_test

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	catalogutils "github.com/planora/planora/pkg/catalog/utils"
)

var _ = Describe("NewStore", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("opens a seeded in-memory demo catalog for memory://", func() {
		now := func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }
		s, err := catalogutils.NewStore(ctx, &catalogutils.NewStoreOpts{URL: "memory://", Now: now})
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		Expect(s.Seeder).NotTo(BeNil())
		events, err := s.ListEventsWithCategory(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).NotTo(BeEmpty())
		Expect(events[0].Date >= "2026-10-19").To(BeTrue())
	})

	It("opens SQLite for sqlite:// URLs and bare paths", func() {
		dir := GinkgoT().TempDir()

		s, err := catalogutils.NewStore(ctx, &catalogutils.NewStoreOpts{URL: "sqlite://" + filepath.Join(dir, "a.db")})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Seeder).NotTo(BeNil())
		Expect(s.Close()).To(Succeed())

		s, err = catalogutils.NewStore(ctx, &catalogutils.NewStoreOpts{URL: filepath.Join(dir, "b.db")})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Close()).To(Succeed())
	})

	It("opens a read-only REST store for https URLs", func() {
		s, err := catalogutils.NewStore(ctx, &catalogutils.NewStoreOpts{URL: "https://example.invalid", ServiceKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Seeder).To(BeNil())
	})

	It("rejects unknown schemes", func() {
		_, err := catalogutils.NewStore(ctx, &catalogutils.NewStoreOpts{URL: "mongodb://localhost"})
		Expect(err).To(MatchError(ContainSubstring("unsupported store URL")))
	})
})
