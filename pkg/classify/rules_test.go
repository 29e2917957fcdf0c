package classify_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/caraudioevents/subdesigner/pkg/classify"
)

// requestFor builds a request whose metric equals v for the category,
// driving the input weighted 1 when there is one.
func requestFor(org *classify.Organization, cat *classify.Category, fam *classify.Family, v float64) classify.Request {
	req := classify.Request{Organization: org.ID, Category: cat.ID, Flags: fam.Requires}
	name, weight := "", 0.0
	for n, w := range cat.Metric {
		if w == 1 || (weight != 1 && w > weight) {
			name, weight = n, w
		}
	}
	switch name {
	case classify.InputConeArea:
		req.ConeAreaIn2 = v / weight
	case classify.InputPortArea:
		req.PortAreaIn2 = v / weight
	case classify.InputFuseAmps:
		req.FuseAmps = v / weight
	case classify.InputPowerWatts:
		req.PowerWatts = v / weight
	}
	return req
}

func classIn(res *classify.Result, family string) string {
	for _, m := range res.Matches {
		if m.Family == family {
			return m.Class
		}
	}
	return ""
}

var _ = Describe("Built-in rule tables", func() {
	engine := classify.Default()

	for _, org := range engine.Organizations() {
		for ci := range org.Categories {
			cat := &org.Categories[ci]
			for fi := range cat.Families {
				fam := &cat.Families[fi]

				Context(fmt.Sprintf("%s/%s/%s", org.ID, cat.ID, fam.ID), func() {
					It("starts at zero", func() {
						Expect(float64(fam.Brackets[0].Min)).To(BeZero())
					})

					It("is open at the top", func() {
						last := fam.Brackets[len(fam.Brackets)-1]
						Expect(last.Max).To(Equal(classify.Unbounded))
						res, err := engine.Classify(requestFor(org, cat, fam, 1e9))
						Expect(err).NotTo(HaveOccurred())
						Expect(classIn(res, fam.ID)).To(Equal(last.Class))
					})

					for bi, b := range fam.Brackets {
						It(fmt.Sprintf("includes the lower edge of %s", b.Class), func() {
							res, err := engine.Classify(requestFor(org, cat, fam, float64(b.Min)))
							Expect(err).NotTo(HaveOccurred())
							Expect(classIn(res, fam.ID)).To(Equal(b.Class))
						})

						if bi == 0 {
							continue
						}
						prev := fam.Brackets[bi-1]
						It(fmt.Sprintf("excludes the lower edge of %s from %s", b.Class, prev.Class), func() {
							res, err := engine.Classify(requestFor(org, cat, fam, float64(b.Min)-0.01))
							Expect(err).NotTo(HaveOccurred())
							Expect(classIn(res, fam.ID)).To(Equal(prev.Class))
						})
					}
				})
			}
		}
	}
})

var _ = Describe("Capped brackets", func() {
	engine := classify.Default()

	DescribeTable("usaci pro wattage ceilings",
		func(cone, watts float64, class string, violations int) {
			res, err := engine.Classify(classify.Request{Organization: "usaci", Category: "pro", ConeAreaIn2: cone, PowerWatts: watts})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Class()).To(Equal(class))
			Expect(res.Violations).To(HaveLen(violations))
		},
		Entry("Pro 1 at ceiling", 150.0, 3000.0, "Pro 1", 0),
		Entry("Pro 1 over ceiling", 150.0, 3001.0, "", 1),
		Entry("Pro 2 at ceiling", 200.0, 6000.0, "Pro 2", 0),
		Entry("Pro 3 at ceiling", 500.0, 10000.0, "Pro 3", 0),
		Entry("Pro 3 over ceiling", 500.0, 10001.0, "", 1),
		Entry("Pro 4 unlimited", 900.0, 50000.0, "Pro 4", 0),
	)
})
