package fiscal_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal/fiscal"
)

func TestFiscal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fiscal Suite")
}

var _ = Describe("Calendar", func() {
	var cal fiscal.Calendar

	BeforeEach(func() {
		cal = fiscal.Default()
	})

	Describe("Window", func() {
		It("should run from April 1 to March 31 of the next year", func() {
			start, end := cal.Window(2025)

			Expect(start).To(Equal(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
			Expect(end).To(Equal(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)))
		})

		It("should return identical bounds when called twice", func() {
			s1, e1 := cal.Window(2025)
			s2, e2 := cal.Window(2025)

			Expect(s1).To(Equal(s2))
			Expect(e1).To(Equal(e2))
		})

		It("should produce adjacent windows for consecutive years", func() {
			_, endPrev := cal.Window(2024)
			startNext, _ := cal.Window(2025)

			Expect(startNext.AddDate(0, 0, -1)).To(Equal(endPrev))
		})
	})

	Describe("WindowForMonth", func() {
		It("should shift back a year for months before the boundary", func() {
			start, end := cal.WindowForMonth(2025, time.February)

			Expect(start).To(Equal(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)))
			Expect(end).To(Equal(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)))
		})

		It("should keep the same year from the boundary month onward", func() {
			start, _ := cal.WindowForMonth(2025, time.April)
			Expect(start.Year()).To(Equal(2025))

			start, _ = cal.WindowForMonth(2025, time.December)
			Expect(start.Year()).To(Equal(2025))
		})

		It("should make the last and first accounting months adjacent", func() {
			_, endOfPrior := cal.WindowForMonth(2025, time.March)
			startOfNext, _ := cal.WindowForMonth(2025, time.April)

			Expect(startOfNext.AddDate(0, 0, -1)).To(Equal(endOfPrior))
		})
	})

	Describe("YearFor", func() {
		It("should map January into the prior accounting year", func() {
			Expect(cal.YearFor(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC))).To(Equal(2025))
		})

		It("should map April into the same accounting year", func() {
			Expect(cal.YearFor(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))).To(Equal(2025))
		})

		It("should map March 31 into the prior accounting year", func() {
			Expect(cal.YearFor(time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC))).To(Equal(2025))
		})
	})

	Describe("Contains", func() {
		It("should include both window bounds", func() {
			Expect(cal.Contains(2025, time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC))).To(BeTrue())
			Expect(cal.Contains(2025, time.Date(2026, time.March, 31, 10, 0, 0, 0, time.UTC))).To(BeTrue())
			Expect(cal.Contains(2025, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))).To(BeFalse())
		})
	})

	Describe("WeekKey", func() {
		It("should give the same key for days in one ISO week", func() {
			mon := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
			fri := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

			Expect(fiscal.WeekKey(mon)).To(Equal(fiscal.WeekKey(fri)))
		})

		It("should change across a week boundary", func() {
			sun := time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)
			mon := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)

			Expect(fiscal.WeekKey(sun)).NotTo(Equal(fiscal.WeekKey(mon)))
		})
	})

	Describe("DaysBetween", func() {
		It("should count whole days by date", func() {
			a := time.Date(2025, time.June, 1, 23, 0, 0, 0, time.UTC)
			b := time.Date(2025, time.June, 8, 1, 0, 0, 0, time.UTC)

			Expect(fiscal.DaysBetween(a, b)).To(Equal(7))
			Expect(fiscal.DaysBetween(b, a)).To(Equal(-7))
		})
	})

	Context("with a non-default boundary month", func() {
		It("should honor the configured month", func() {
			jan := fiscal.New(time.January)
			start, end := jan.Window(2025)

			Expect(start).To(Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
			Expect(end).To(Equal(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
		})
	})
})
