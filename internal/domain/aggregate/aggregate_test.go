package aggregate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/unirank/internal/domain/aggregate"
	"github.com/okian/unirank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(uni string, year int, teaching, research float64) model.Record {
	return model.Record{
		University:  uni,
		Country:     "US",
		Year:        year,
		Teaching:    teaching,
		Research:    research,
		NumStudents: math.NaN(),
	}
}

func TestAggregate(t *testing.T) {
	Convey("Given records spanning several years", t, func() {
		rows := []model.Record{
			rec("B", 2013, 60, 10),
			rec("A", 2011, 90, 20),
			rec("B", 2011, 70, 40),
			rec("A", 2012, 80, 30),
		}

		Convey("When averaging by year", func() {
			res, err := aggregate.Aggregate(rows, aggregate.Request{
				GroupBy:   []model.Dimension{model.DimYear},
				Fields:    []model.Field{model.Teaching},
				Reduction: aggregate.Mean,
			})

			Convey("Then one row per year is produced in ascending order", func() {
				So(err, ShouldBeNil)
				So(res.Len(), ShouldEqual, 3)
				So(res.Rows[0].Keys[0].Year, ShouldEqual, 2011)
				So(res.Rows[1].Keys[0].Year, ShouldEqual, 2012)
				So(res.Rows[2].Keys[0].Year, ShouldEqual, 2013)
			})

			Convey("And two records in the same year yield their arithmetic mean", func() {
				v, ok := res.Rows[0].Value(model.Teaching)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 80)
				So(res.Rows[0].Counts[model.Teaching], ShouldEqual, 2)
			})
		})

		Convey("When summing by university and year", func() {
			res, err := aggregate.Aggregate(rows, aggregate.Request{
				GroupBy:   []model.Dimension{model.DimUniversity, model.DimYear},
				Fields:    []model.Field{model.Research},
				Reduction: aggregate.Sum,
			})

			Convey("Then keys are ordered tuple-wise", func() {
				So(err, ShouldBeNil)
				So(res.Len(), ShouldEqual, 4)
				got := make([]string, 0, res.Len())
				for _, r := range res.Rows {
					got = append(got, r.Keys[0].String()+"/"+r.Keys[1].String())
				}
				So(got, ShouldResemble, []string{"A/2011", "A/2012", "B/2011", "B/2013"})
				k, ok := res.Rows[0].Key(model.DimYear)
				So(ok, ShouldBeTrue)
				So(k.Year, ShouldEqual, 2011)
			})
		})

		Convey("When grouping by nothing", func() {
			res, err := aggregate.Aggregate(rows, aggregate.Request{
				Fields:    model.Criteria,
				Reduction: aggregate.Mean,
			})

			Convey("Then a single population row is returned", func() {
				So(err, ShouldBeNil)
				So(res.Len(), ShouldEqual, 1)
				v, _ := res.Rows[0].Value(model.Teaching)
				So(v, ShouldEqual, 75)
				So(res.Rows[0].Keys, ShouldBeEmpty)
			})
		})

		Convey("When the only requested field is missing everywhere", func() {
			res, err := aggregate.Aggregate(rows, aggregate.Request{
				GroupBy:   []model.Dimension{model.DimYear},
				Fields:    []model.Field{model.NumStudents},
				Reduction: aggregate.Mean,
			})

			Convey("Then no rows are produced rather than zero-filled ones", func() {
				So(err, ShouldBeNil)
				So(res.Len(), ShouldEqual, 0)
			})
		})

		Convey("When some values of a group are missing", func() {
			withMissing := append([]model.Record{}, rows...)
			r := rec("C", 2011, 0, 0)
			r.NumStudents = 1000
			withMissing = append(withMissing, r)

			res, err := aggregate.Aggregate(withMissing, aggregate.Request{
				GroupBy:   []model.Dimension{model.DimYear},
				Fields:    []model.Field{model.NumStudents, model.Teaching},
				Reduction: aggregate.Mean,
			})

			Convey("Then missing values are excluded from the mean", func() {
				So(err, ShouldBeNil)
				v, ok := res.Rows[0].Value(model.NumStudents)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 1000)
				_, ok = res.Rows[1].Value(model.NumStudents)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the request is invalid", func() {
			_, err := aggregate.Aggregate(rows, aggregate.Request{Fields: model.Criteria, Reduction: "median"})
			So(errors.Is(err, aggregate.ErrUnknownReduction), ShouldBeTrue)

			_, err = aggregate.Aggregate(rows, aggregate.Request{Reduction: aggregate.Mean})
			So(errors.Is(err, aggregate.ErrNoFields), ShouldBeTrue)

			_, err = aggregate.Aggregate(rows, aggregate.Request{
				GroupBy:   []model.Dimension{"region"},
				Fields:    model.Criteria,
				Reduction: aggregate.Mean,
			})
			So(errors.Is(err, aggregate.ErrUnknownDimension), ShouldBeTrue)

			_, err = aggregate.Aggregate(rows, aggregate.Request{
				Fields:    []model.Field{"total_score"},
				Reduction: aggregate.Mean,
			})
			So(errors.Is(err, aggregate.ErrUnknownField), ShouldBeTrue)
		})
	})

	Convey("Given values near the float64 limit", t, func() {
		rows := []model.Record{
			rec("A", 2011, math.MaxFloat64, 1),
			rec("B", 2011, math.MaxFloat64, 1),
		}

		Convey("When averaging them", func() {
			res, err := aggregate.Aggregate(rows, aggregate.Request{
				GroupBy:   []model.Dimension{model.DimYear},
				Fields:    []model.Field{model.Teaching},
				Reduction: aggregate.Mean,
			})

			Convey("Then the mean stays finite", func() {
				So(err, ShouldBeNil)
				So(res.Len(), ShouldEqual, 1)
				v, ok := res.Rows[0].Value(model.Teaching)
				So(ok, ShouldBeTrue)
				So(math.IsInf(v, 0), ShouldBeFalse)
				So(v, ShouldEqual, math.MaxFloat64)
			})
		})

		Convey("When summing them", func() {
			_, err := aggregate.Aggregate(rows, aggregate.Request{
				Fields:    []model.Field{model.Teaching},
				Reduction: aggregate.Sum,
			})

			Convey("Then the overflow is reported instead of an infinite value", func() {
				So(errors.Is(err, aggregate.ErrNonFinite), ShouldBeTrue)
			})
		})
	})

	Convey("Given no records", t, func() {
		res, err := aggregate.Aggregate(nil, aggregate.Request{Fields: model.Criteria, Reduction: aggregate.Mean})

		Convey("Then the result is empty", func() {
			So(err, ShouldBeNil)
			So(res.Len(), ShouldEqual, 0)
		})
	})
}

func TestHistogramOf(t *testing.T) {
	Convey("Given teaching scores", t, func() {
		rows := []model.Record{
			rec("A", 2011, 10, 0),
			rec("B", 2011, 20, 0),
			rec("C", 2011, 20, 0),
			rec("D", 2011, 30, 0),
		}

		Convey("When binning into two buckets", func() {
			h, err := aggregate.HistogramOf(rows, model.Teaching, 2)

			Convey("Then counts cover every value including the maximum", func() {
				So(err, ShouldBeNil)
				So(h.Total, ShouldEqual, 4)
				So(len(h.Bins), ShouldEqual, 2)
				So(h.Bins[0].Lo, ShouldEqual, 10)
				So(h.Bins[0].Count, ShouldEqual, 1)
				So(h.Bins[1].Count, ShouldEqual, 3)
				So(h.Bins[0].Center(), ShouldEqual, 15)
			})
		})

		Convey("When all values are equal", func() {
			same := []model.Record{rec("A", 2011, 5, 0), rec("B", 2011, 5, 0)}
			h, err := aggregate.HistogramOf(same, model.Teaching, 30)

			Convey("Then every value lands in the first bin", func() {
				So(err, ShouldBeNil)
				So(h.Bins[0].Count, ShouldEqual, 2)
				total := 0
				for _, b := range h.Bins {
					total += b.Count
				}
				So(total, ShouldEqual, 2)
			})
		})

		Convey("When the field has no valid values", func() {
			h, err := aggregate.HistogramOf(rows, model.NumStudents, 30)

			Convey("Then no bins are produced", func() {
				So(err, ShouldBeNil)
				So(h.Total, ShouldEqual, 0)
				So(h.Bins, ShouldBeEmpty)
			})
		})

		Convey("When the bin count is invalid", func() {
			_, err := aggregate.HistogramOf(rows, model.Teaching, 0)
			So(errors.Is(err, aggregate.ErrInvalidBins), ShouldBeTrue)
		})
	})
}
