package relay

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("observer", func() {
	It("collects ids split across chunks without keeping the answer", func() {
		stream := deltaLine("Café night [EVENT_") +
			deltaLine("ID:ab12-cd34] and [EVENT_ID:ab12-cd34]") +
			deltaLine(" plus [EVENT_ID:ef56]") +
			"data: [DONE]\n\n"

		obs := newObserver()
		for i := 0; i < len(stream); i += 7 {
			obs.observe([]byte(stream[i:min(i+7, len(stream))]))
		}
		obs.finish()

		Expect(obs.done()).To(BeTrue())
		Expect(obs.deltas).To(Equal(3))
		Expect(obs.bytes).To(Equal(int64(len(stream))))
		Expect(obs.referencedIDs()).To(Equal([]string{"ab12-cd34", "ef56"}))
		Expect(obs.characters()).To(Equal(len([]rune(
			"Café night [EVENT_ID:ab12-cd34] and [EVENT_ID:ab12-cd34] plus [EVENT_ID:ef56]",
		))))
	})
})
