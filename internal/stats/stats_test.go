package stats_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/glatard/fuzzy/internal/stats"
)

var _ = Describe("Summarize", func() {
	It("returns zero standard error for a single-column table", func() {
		table := stats.Table{{2.0}, {-4.0}, {18.5}}

		bands, err := stats.Summarize(table)
		Expect(err).NotTo(HaveOccurred())
		Expect(bands).To(HaveLen(3))
		for i, b := range bands {
			Expect(b.StdErr).To(BeZero())
			Expect(b.Mean).To(Equal(table[i][0]))
			Expect(b.Upper).To(Equal(b.Mean))
			Expect(b.Lower).To(Equal(b.Mean))
		}
	})

	It("averages a two-run table per index", func() {
		table := stats.Table{
			{1.0, 3.0},
			{-2.0, 2.0},
			{10.0, 20.0},
		}

		bands, err := stats.Summarize(table)
		Expect(err).NotTo(HaveOccurred())
		Expect(bands[0].Mean).To(Equal(2.0))
		Expect(bands[1].Mean).To(Equal(0.0))
		Expect(bands[2].Mean).To(Equal(15.0))
	})

	It("computes the band from the population standard deviation", func() {
		// values 1,2,3: population sigma = sqrt(2/3), stderr = sigma/sqrt(3)
		table := stats.Table{{1.0, 2.0, 3.0}}

		bands, err := stats.Summarize(table)
		Expect(err).NotTo(HaveOccurred())

		want := math.Sqrt(2.0/3.0) / math.Sqrt(3.0)
		Expect(bands[0].Mean).To(BeNumerically("~", 2.0, 1e-12))
		Expect(bands[0].StdErr).To(BeNumerically("~", want, 1e-12))
		Expect(bands[0].Upper).To(BeNumerically("~", 2.0+want, 1e-12))
		Expect(bands[0].Lower).To(BeNumerically("~", 2.0-want, 1e-12))
	})

	It("preserves row order", func() {
		table := stats.Table{{5.0, 5.0}, {1.0, 1.0}, {9.0, 9.0}}

		bands, err := stats.Summarize(table)
		Expect(err).NotTo(HaveOccurred())
		Expect(bands[0].Mean).To(Equal(5.0))
		Expect(bands[1].Mean).To(Equal(1.0))
		Expect(bands[2].Mean).To(Equal(9.0))
	})

	It("rejects tables with mismatched row lengths", func() {
		table := stats.Table{
			{1.0, 2.0},
			{3.0},
		}

		_, err := stats.Summarize(table)
		Expect(err).To(MatchError(stats.ErrShapeMismatch))
	})

	It("rejects empty tables", func() {
		_, err := stats.Summarize(stats.Table{})
		Expect(err).To(MatchError(stats.ErrEmptyTable))

		_, err = stats.Summarize(stats.Table{{}})
		Expect(err).To(MatchError(stats.ErrEmptyTable))
	})
})

var _ = Describe("SignificantDigits", func() {
	It("reports full precision when runs agree exactly", func() {
		table := stats.Table{{7.0, 7.0, 7.0}}

		digits, err := stats.SignificantDigits(table)
		Expect(err).NotTo(HaveOccurred())
		Expect(digits[0]).To(Equal(stats.MaxDigits))
	})

	It("reports no precision for a zero mean with spread", func() {
		table := stats.Table{{-1.0, 1.0}}

		digits, err := stats.SignificantDigits(table)
		Expect(err).NotTo(HaveOccurred())
		Expect(digits[0]).To(BeZero())
	})

	It("decreases as the relative spread grows", func() {
		tight := stats.Table{{100.0, 100.0 + 1e-10}}
		loose := stats.Table{{100.0, 110.0}}

		tightDigits, err := stats.SignificantDigits(tight)
		Expect(err).NotTo(HaveOccurred())
		looseDigits, err := stats.SignificantDigits(loose)
		Expect(err).NotTo(HaveOccurred())

		Expect(tightDigits[0]).To(BeNumerically(">", looseDigits[0]))
	})

	It("rejects irregular tables", func() {
		_, err := stats.SignificantDigits(stats.Table{{1.0}, {1.0, 2.0}})
		Expect(err).To(MatchError(stats.ErrShapeMismatch))
	})
})

var _ = Describe("Table", func() {
	It("reports its dimensions", func() {
		table := stats.Table{{1, 2, 3}, {4, 5, 6}}
		Expect(table.Steps()).To(Equal(2))
		Expect(table.Runs()).To(Equal(3))
	})

	It("reports zero dimensions when empty", func() {
		Expect(stats.Table{}.Steps()).To(BeZero())
		Expect(stats.Table{}.Runs()).To(BeZero())
	})
})
