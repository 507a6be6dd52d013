package i18n_test

import (
	"testing"

	"github.com/okian/unirank/internal/domain/i18n"
	"github.com/okian/unirank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTranslator(t *testing.T) {
	Convey("Given an English translator", t, func() {
		tr := i18n.New("en")

		Convey("Then keys render as themselves with interpolation", func() {
			So(tr.Locale(), ShouldEqual, i18n.English)
			So(tr.T(i18n.MsgRadarUniversity, "Alpha"), ShouldEqual, "Criteria scores for university Alpha")
			So(tr.T(i18n.MsgCompareCriteria, "2013"), ShouldContainSubstring, "(2013)")
			So(tr.Field(model.Income), ShouldEqual, "Industry income")
		})

		Convey("And unknown fields are title-cased", func() {
			So(tr.Field(model.Field("female_male_ratio")), ShouldEqual, "Female Male Ratio")
		})
	})

	Convey("Given a Russian translator", t, func() {
		tr := i18n.New(" RU ")

		Convey("Then catalog texts are used", func() {
			So(tr.Locale(), ShouldEqual, i18n.Russian)
			So(tr.Field(model.Teaching), ShouldEqual, "Преподавание")
			So(tr.T(i18n.MsgRadarCountry, "Japan"), ShouldEqual, "Оценки по критериям для страны Japan")
		})
	})

	Convey("Given an unsupported locale", t, func() {
		tr := i18n.New("de")

		Convey("Then English is used", func() {
			So(tr.Locale(), ShouldEqual, i18n.English)
			So(i18n.Supported("de"), ShouldBeFalse)
			So(i18n.Supported("ru"), ShouldBeTrue)
			So(tr.T(i18n.MsgHistogram), ShouldEqual, "Distribution of criteria scores")
		})
	})
}
