package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okian/unirank/internal/adapters/dataset"
	"github.com/okian/unirank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var header = []string{
	"world_rank", "university_name", "country", "teaching", "international", "research", "citations",
	"income", "total_score", "num_students", "student_staff_ratio", "international_students",
	"female_male_ratio", "year",
}

var rows = [][]string{
	{"1", "Harvard University", "United States of America", "99.7", "72.4", "98.7", "98.8", "34.5", "96.1", "20,152", "8.9", "25%", "", "2011"},
	{"2", "California Institute of Technology", "United States of America", "97.7", "54.6", "98.0", "99.9", "83.7", "96.0", "2,243", "6.9", "27%", "33 : 67", "2011"},
	{"=3", "Massachusetts Institute of Technology", "United States of America", "97.8", "82.3", "91.4", "99.9", "-", "95.6", "11,074", "9.0", "33%", "37 : 63", "2011"},
	{"1", "Harvard University", "United States of America", "98.2", "71.0", "98.0", "99.0", "40.0", "96.0", "20,000", "8.8", "26%", "", "2012"},
	{"4", "Harvard University", "United States of America", "10.0", "10.0", "10.0", "10.0", "10.0", "10.0", "1", "1", "1%", "", "2011"},
	{"5", " ", "Nowhere", "1", "1", "1", "1", "1", "1", "1", "1", "1%", "", "2011"},
	{"6", "Bad Year University", "Nowhere", "1", "1", "1", "1", "1", "1", "1", "1", "1%", "", "unknown"},
}

func csvText(hdr []string, data [][]string) string {
	var b strings.Builder
	write := func(cells []string) {
		quoted := make([]string, len(cells))
		for i, c := range cells {
			if strings.ContainsAny(c, ",\"") {
				c = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
			}
			quoted[i] = c
		}
		b.WriteString(strings.Join(quoted, ","))
		b.WriteString("\n")
	}
	write(hdr)
	for _, r := range data {
		write(r)
	}
	return b.String()
}

func writeCSV(dir string, hdr []string, data [][]string) string {
	path := filepath.Join(dir, "rankings.csv")
	So(os.WriteFile(path, []byte(csvText(hdr, data)), 0o600), ShouldBeNil)
	return path
}

func writeXLSX(dir string) string {
	path := filepath.Join(dir, "rankings.xlsx")
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	all := append([][]string{header}, rows...)
	for i, r := range all {
		cells := make([]interface{}, len(r))
		for j, c := range r {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		So(err, ShouldBeNil)
		So(f.SetSheetRow("Sheet1", cell, &cells), ShouldBeNil)
	}
	So(f.SaveAs(path), ShouldBeNil)
	return path
}

func TestLoader(t *testing.T) {
	ctx := context.Background()

	Convey("Given a CSV export with formatting artifacts", t, func() {
		path := writeCSV(t.TempDir(), header, rows)

		Convey("When it is loaded", func() {
			tbl, rep, err := dataset.NewLoader(path).Load(ctx)
			So(err, ShouldBeNil)

			Convey("Then bad rows are rejected and duplicates dropped", func() {
				So(rep.Rows, ShouldEqual, 7)
				So(rep.Rejected, ShouldEqual, 2)
				So(rep.Duplicates, ShouldEqual, 1)
				So(rep.Records, ShouldEqual, 4)
				So(tbl.Len(), ShouldEqual, 4)
				So(tbl.Universities(), ShouldResemble, []string{
					"Harvard University", "California Institute of Technology", "Massachusetts Institute of Technology",
				})
				So(tbl.Years(), ShouldResemble, []int{2011, 2012})
			})

			Convey("And values are normalized", func() {
				first := tbl.Records()[0]
				So(first.Teaching, ShouldEqual, 99.7)
				So(first.NumStudents, ShouldEqual, 20152)
				So(first.InternationalStudents, ShouldEqual, 25)
				mit := tbl.Records()[2]
				So(mit.WorldRank, ShouldEqual, 0)
				So(mit.Income, ShouldEqual, 0)
				So(rep.Fallbacks[model.WorldRank], ShouldEqual, 1)
				So(rep.Fallbacks[model.Income], ShouldEqual, 1)
			})
		})

		Convey("When the same rows are loaded from a workbook", func() {
			xlsx := writeXLSX(t.TempDir())
			fromCSV, _, err := dataset.NewLoader(path).Load(ctx)
			So(err, ShouldBeNil)
			fromXLSX, _, err := dataset.NewLoader(xlsx).Load(ctx)
			So(err, ShouldBeNil)

			Convey("Then both tables hold the same records", func() {
				So(fromXLSX.Records(), ShouldResemble, fromCSV.Records())
			})
		})

		Convey("When a missing sheet is requested", func() {
			xlsx := writeXLSX(t.TempDir())
			_, _, err := dataset.NewLoader(xlsx, dataset.WithSheet("Nope")).Load(ctx)
			So(errors.Is(err, dataset.ErrSheetNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a file without an income column", t, func() {
		hdr := append([]string(nil), header...)
		hdr[7] = "industry"
		path := writeCSV(t.TempDir(), hdr, rows)

		Convey("When it is loaded", func() {
			_, _, err := dataset.NewLoader(path).Load(ctx)

			Convey("Then the missing column is reported", func() {
				So(errors.Is(err, dataset.ErrMissingColumns), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "income")
			})
		})
	})

	Convey("Given files that cannot be loaded", t, func() {
		dir := t.TempDir()

		Convey("Then unknown extensions are rejected", func() {
			_, err := dataset.FormatOf(filepath.Join(dir, "rankings.txt"))
			So(errors.Is(err, dataset.ErrUnsupportedFormat), ShouldBeTrue)
		})

		Convey("Then a missing file is an error", func() {
			_, _, err := dataset.NewLoader(filepath.Join(dir, "absent.csv")).Load(ctx)
			So(err, ShouldNotBeNil)
		})

		Convey("Then a file with only unusable rows is empty", func() {
			path := writeCSV(dir, header, rows[5:])
			_, _, err := dataset.NewLoader(path).Load(ctx)
			So(errors.Is(err, dataset.ErrEmpty), ShouldBeTrue)
		})
	})
}
