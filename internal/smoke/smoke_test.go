package smoke_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/unirank/internal/adapters/http/api"
	service "github.com/okian/unirank/internal/app"
	"github.com/okian/unirank/internal/smoke"
	"github.com/okian/unirank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

const seed = "world_rank,university_name,country,teaching,international,research,citations,income," +
	"total_score,num_students,student_staff_ratio,international_students,female_male_ratio,year\n" +
	"1,Seed University,Atlantis,50,50,50,50,50,50,\"1,000\",10,10%,50 : 50,2011\n"

func TestGenerate(t *testing.T) {
	Convey("Given a generator config", t, func() {
		cfg := &smoke.Config{Universities: 7, Years: []int{2011, 2012}}
		stats := &smoke.Stats{}

		Convey("When a dataset is generated", func() {
			ds, err := smoke.Generate(context.Background(), cfg, stats)
			So(err, ShouldBeNil)

			Convey("Then it has a header and one row per university and year", func() {
				So(ds.Records, ShouldHaveLength, 1+7*2)
				So(ds.Records[0][1], ShouldEqual, "university_name")
				So(stats.RowsGenerated, ShouldEqual, 14)
				So(ds.Records[1][1], ShouldContainSubstring, ds.RunID)
			})

			Convey("Then every indicator has a mean per year", func() {
				So(ds.Expected, ShouldHaveLength, 5*2)
				for _, e := range ds.Expected {
					if e.Indicator == "world_rank" {
						So(e.Mean, ShouldAlmostEqual, 4.0)
					} else {
						So(e.Mean, ShouldBeBetweenOrEqual, 0, 100)
					}
				}
			})

			Convey("Then it can be written as CSV", func() {
				path := filepath.Join(t.TempDir(), "smoke.csv")
				So(ds.WriteCSV(path), ShouldBeNil)
				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
				So(lines, ShouldHaveLength, 15)
				So(lines[0], ShouldStartWith, "world_rank,university_name")
			})
		})

		Convey("When ten universities are generated", func() {
			cfg.Universities = 10
			ds, err := smoke.Generate(context.Background(), cfg, stats)
			So(err, ShouldBeNil)

			Convey("Then the tenth one has an income gap marker", func() {
				So(ds.Records[10][7], ShouldEqual, "-")
				So(ds.Records[9][7], ShouldNotEqual, "-")
			})
		})

		Convey("When no universities are requested", func() {
			cfg.Universities = 0
			_, err := smoke.Generate(context.Background(), cfg, stats)

			Convey("Then the config is rejected", func() {
				So(errors.Is(err, smoke.ErrConfig), ShouldBeTrue)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running dashboard service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		path := filepath.Join(t.TempDir(), "rankings.csv")
		So(os.WriteFile(path, []byte(seed), 0o600), ShouldBeNil)
		svc := service.New(service.WithDatasetPath(path), service.WithLogger(logger.Discard()))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When the smoke run targets it", func() {
			stats, err := smoke.Run(ctx, &smoke.Config{
				BaseURL:      srv.URL,
				DatasetPath:  path,
				Universities: 12,
				Years:        []int{2014, 2015},
				Workers:      3,
				Timeout:      5 * time.Second,
			})

			Convey("Then the means match and every page answers", func() {
				So(err, ShouldBeNil)
				So(stats.Verified, ShouldEqual, 5*2)
				So(stats.PagesRequested, ShouldBeGreaterThan, 0)
				So(stats.PagesFailed, ShouldEqual, 0)
				So(stats.ChartsReceived, ShouldBeGreaterThan, stats.PagesRequested)
			})

			Convey("Then the service serves the generated dataset", func() {
				So(svc.GetStats()["records"], ShouldEqual, 24)
			})
		})

		Convey("When the dataset path is missing", func() {
			_, err := smoke.Run(ctx, &smoke.Config{BaseURL: srv.URL})

			Convey("Then the run is rejected", func() {
				So(errors.Is(err, smoke.ErrConfig), ShouldBeTrue)
			})
		})
	})
}
