package rally_test

import (
	"errors"
	"testing"

	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/okian/rallyscore/internal/domain/rally"
	. "github.com/smartystreets/goconvey/convey"
)

func section(id string, winner model.Side) model.Section {
	return model.Section{ID: id, Summary: &model.Summary{PointWinner: winner, RallySize: 4, ValidRally: true}}
}

func TestExtract(t *testing.T) {
	Convey("Given a sequence of sections", t, func() {
		sections := []model.Section{
			section("a", model.SideTop),
			section("b", model.SideBottom),
			section("c", model.SideUnknown),
			section("d", model.Side(42)),
		}

		Convey("When extracting with a bottom tie-break", func() {
			events, err := rally.Extract(sections, rally.Config{DefaultWinner: model.SideBottom})

			Convey("Then every section yields one event in order", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 4)
				So(events[0], ShouldResemble, model.PointEvent{SectionID: "a", Winner: model.SideTop})
				So(events[1], ShouldResemble, model.PointEvent{SectionID: "b", Winner: model.SideBottom})
			})

			Convey("And ambiguous winners go to the default side", func() {
				So(events[2], ShouldResemble, model.PointEvent{SectionID: "c", Winner: model.SideBottom, Defaulted: true})
				So(events[3], ShouldResemble, model.PointEvent{SectionID: "d", Winner: model.SideBottom, Defaulted: true})
				So(rally.CountDefaulted(events), ShouldEqual, 2)
			})
		})

		Convey("When extracting repeatedly", func() {
			cfg := rally.Config{DefaultWinner: model.SideBottom}

			Convey("Then the tie-break is deterministic", func() {
				for i := 0; i < 10; i++ {
					events, err := rally.Extract(sections, cfg)
					So(err, ShouldBeNil)
					So(events[2].Winner, ShouldEqual, model.SideBottom)
				}
			})
		})

		Convey("When a rally is marked invalid but names a winner", func() {
			s := section("e", model.SideTop)
			s.Summary.ValidRally = false
			events, err := rally.Extract([]model.Section{s}, rally.Config{DefaultWinner: model.SideBottom})

			Convey("Then the recorded winner is still used", func() {
				So(err, ShouldBeNil)
				So(events[0].Winner, ShouldEqual, model.SideTop)
				So(events[0].Defaulted, ShouldBeFalse)
			})
		})
	})
}

func TestExtractErrors(t *testing.T) {
	Convey("Given an extractor", t, func() {
		Convey("When a section has no summary", func() {
			sections := []model.Section{section("a", model.SideTop), {ID: "broken"}}
			events, err := rally.Extract(sections, rally.Config{DefaultWinner: model.SideTop})

			Convey("Then it reports a malformed section", func() {
				So(events, ShouldBeNil)
				So(errors.Is(err, rally.ErrMalformedSection), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "broken")
			})
		})

		Convey("When the policy has no default winner", func() {
			_, err := rally.Extract([]model.Section{section("a", model.SideTop)}, rally.Config{})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, rally.ErrInvalidDefaultWinner), ShouldBeTrue)
			})
		})

		Convey("When there are no sections", func() {
			events, err := rally.Extract(nil, rally.Config{DefaultWinner: model.SideTop})

			Convey("Then the result is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(events, ShouldBeEmpty)
			})
		})
	})
}
