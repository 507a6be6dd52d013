package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	ctx := context.Background()

	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("json"), WithWriter(&buf)), ShouldBeNil)

		Convey("When a named logger writes fields", func() {
			Named("loader").Info(ctx, "dataset loaded",
				String("path", "rankings.csv"), Int("records", 3), Bool("watch", true),
				Duration("took", time.Second), Strings("sheets", []string{"a"}), Error(errors.New("boom")))

			Convey("Then the line is JSON with the group and source", func() {
				var line map[string]interface{}
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "dataset loaded")
				group, ok := line["loader"].(map[string]interface{})
				So(ok, ShouldBeTrue)
				So(group["records"], ShouldEqual, 3.0)
				So(group["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Debug(ctx, "hidden")
			Get().Warn(ctx, "hidden")
			Get().Error(ctx, "shown")

			Convey("Then lower levels are dropped", func() {
				So(strings.Count(buf.String(), "\n"), ShouldEqual, 1)
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When an unknown level is set", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})
	})

	Convey("Given the discard logger", t, func() {
		So(func() { Discard().Named("x").Info(ctx, "nothing") }, ShouldNotPanic)
	})
}
