package types_test

import (
	"testing"

	types "github.com/okian/unirank/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOptions(t *testing.T) {
	Convey("Given a list of options", t, func() {
		opts := []types.Option{
			{Value: "world_rank", Label: "World rank"},
			{Value: "teaching", Label: "Teaching"},
		}

		Convey("When extracting values", func() {
			Convey("Then they keep their order", func() {
				So(types.Values(opts), ShouldResemble, []string{"world_rank", "teaching"})
			})
		})

		Convey("When extracting labels", func() {
			Convey("Then they keep their order", func() {
				So(types.Labels(opts), ShouldResemble, []string{"World rank", "Teaching"})
			})
		})

		Convey("When the list is empty", func() {
			Convey("Then both helpers return empty slices", func() {
				So(types.Values(nil), ShouldBeEmpty)
				So(types.Labels(nil), ShouldBeEmpty)
			})
		})
	})
}
