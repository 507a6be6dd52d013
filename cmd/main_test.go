package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/unirank/internal/config"
	"github.com/okian/unirank/internal/domain/query"
	"github.com/okian/unirank/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const dataset = "world_rank,university_name,country,teaching,international,research,citations,income," +
	"total_score,num_students,student_staff_ratio,international_students,female_male_ratio,year\n" +
	"1,Alpha University,Atlantis,80,50,70,90,40,75,\"10,000\",10,20%,50 : 50,2011\n" +
	"2,Beta College,Lemuria,60,30,50,70,20,55,\"5,000\",12,10%,40 : 60,2012\n"

func TestMainApplication(t *testing.T) {
	convey.Convey("Given a configuration pointing at a dataset", t, func() {
		path := filepath.Join(t.TempDir(), "rankings.csv")
		convey.So(os.WriteFile(path, []byte(dataset), 0o600), convey.ShouldBeNil)

		_ = os.Setenv("UNIRANK_DATASET_PATH", path)
		_ = os.Setenv("UNIRANK_LOCALE", "ru")
		defer func() {
			_ = os.Unsetenv("UNIRANK_DATASET_PATH")
			_ = os.Unsetenv("UNIRANK_LOCALE")
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the service and mux are built", func() {
			svc := newService(cfg, logger.Discard())
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()
			mux := newMux(ctx, svc)

			convey.Convey("Then a page is served with localized titles", func() {
				req := httptest.NewRequest(http.MethodGet, "/api/pages/global-trends", http.NoBody)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var res query.PageResult
				convey.So(json.Unmarshal(w.Body.Bytes(), &res), convey.ShouldBeNil)
				convey.So(res.Charts, convey.ShouldHaveLength, 2)
				convey.So(res.Charts[1].Title, convey.ShouldEqual, "Средние баллы по критериям по годам")
			})

			convey.Convey("Then the dashboard and the API reference are mounted", func() {
				for _, target := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz", "/stats"} {
					req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, req)
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})

		convey.Convey("When run is cancelled", func() {
			cfg.Addr = "127.0.0.1:0"
			runCtx, stop := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() { done <- run(runCtx, cfg, logger.Discard()) }()
			time.Sleep(100 * time.Millisecond)
			stop()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(3 * time.Second):
					t.Fatal("run did not return")
				}
			})
		})
	})

	convey.Convey("Given a configuration pointing at a missing dataset", t, func() {
		cfg := config.New()
		cfg.DatasetPath = filepath.Join(t.TempDir(), "absent.csv")

		convey.Convey("Then run fails before serving", func() {
			convey.So(run(context.Background(), cfg, logger.Discard()), convey.ShouldNotBeNil)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop stops with its context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
