package model_test

import (
	"math"
	"testing"

	"github.com/okian/unirank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordValue(t *testing.T) {
	Convey("Given a record with one missing field", t, func() {
		r := model.Record{
			University:  "Alpha",
			Year:        2012,
			Teaching:    90,
			NumStudents: math.NaN(),
		}

		Convey("When reading a present field", func() {
			v, ok := r.Value(model.Teaching)

			Convey("Then the value is returned", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 90)
			})
		})

		Convey("When reading the missing field", func() {
			_, ok := r.Value(model.NumStudents)

			Convey("Then it reports absence", func() {
				So(ok, ShouldBeFalse)
				So(r.Complete(model.Teaching, model.NumStudents), ShouldBeFalse)
				So(r.Complete(model.Teaching), ShouldBeTrue)
			})
		})

		Convey("When reading an unknown field", func() {
			_, ok := r.Value(model.Field("total_score"))

			Convey("Then it reports absence", func() {
				So(ok, ShouldBeFalse)
				So(model.Field("total_score").Valid(), ShouldBeFalse)
			})
		})

		Convey("When setting a field", func() {
			updated := r.Set(model.Research, 71.5)

			Convey("Then only the copy changes", func() {
				v, _ := updated.Value(model.Research)
				So(v, ShouldEqual, 71.5)
				So(r.Research, ShouldEqual, 0)
			})
		})
	})
}

func TestTable(t *testing.T) {
	Convey("Given a table built from records", t, func() {
		records := []model.Record{
			{University: "Beta", Country: "UK", Year: 2013},
			{University: "Alpha", Country: "US", Year: 2011},
			{University: "Beta", Country: "UK", Year: 2011},
		}
		tbl := model.NewTable("memory", records)

		Convey("Then indexes keep load order", func() {
			So(tbl.Len(), ShouldEqual, 3)
			So(tbl.Universities(), ShouldResemble, []string{"Beta", "Alpha"})
			So(tbl.Countries(), ShouldResemble, []string{"UK", "US"})
			So(tbl.Years(), ShouldResemble, []int{2013, 2011})
			So(tbl.SortedYears(), ShouldResemble, []int{2011, 2013})
			So(tbl.HasUniversity("Alpha"), ShouldBeTrue)
			So(tbl.HasUniversity("Gamma"), ShouldBeFalse)
		})

		Convey("When the caller mutates returned slices", func() {
			rows := tbl.Records()
			rows[0].University = "Mutated"
			records[1].University = "Mutated"
			names := tbl.Universities()
			names[0] = "Mutated"

			Convey("Then the table is unaffected", func() {
				So(tbl.Records()[0].University, ShouldEqual, "Beta")
				So(tbl.Records()[1].University, ShouldEqual, "Alpha")
				So(tbl.Universities()[0], ShouldEqual, "Beta")
			})
		})

		Convey("When filtering", func() {
			rows := tbl.Filter(func(r model.Record) bool { return r.University == "Beta" })

			Convey("Then matching rows are returned in load order", func() {
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Year, ShouldEqual, 2013)
				So(rows[1].Year, ShouldEqual, 2011)
			})
		})
	})

	Convey("Given a nil table", t, func() {
		var tbl *model.Table

		Convey("Then accessors are safe", func() {
			So(tbl.Len(), ShouldEqual, 0)
			So(tbl.Records(), ShouldBeNil)
			So(tbl.Universities(), ShouldBeNil)
			So(tbl.HasUniversity("Alpha"), ShouldBeFalse)
			So(tbl.Source(), ShouldEqual, "")
			So(tbl.LoadedAt().IsZero(), ShouldBeTrue)
		})
	})
}
