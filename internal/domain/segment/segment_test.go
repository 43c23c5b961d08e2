package segment_test

import (
	"fmt"
	"testing"

	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/okian/rallyscore/internal/domain/segment"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	T = model.SideTop
	B = model.SideBottom
)

func points(winners ...model.Side) []model.PointEvent {
	out := make([]model.PointEvent, len(winners))
	for i, w := range winners {
		out[i] = model.PointEvent{SectionID: fmt.Sprintf("p%d", i+1), Winner: w}
	}
	return out
}

func TestWins(t *testing.T) {
	Convey("Given the game win rule", t, func() {
		So(segment.Wins(4, 0), ShouldBeTrue)
		So(segment.Wins(4, 2), ShouldBeTrue)
		So(segment.Wins(4, 3), ShouldBeFalse)
		So(segment.Wins(3, 0), ShouldBeFalse)
		So(segment.Wins(5, 3), ShouldBeTrue)
		So(segment.Wins(9, 8), ShouldBeFalse)
		So(segment.Wins(10, 8), ShouldBeTrue)
	})
}

func TestSegment(t *testing.T) {
	Convey("Given a love game followed by another point", t, func() {
		res := segment.Segment(points(T, T, T, T, B))

		Convey("Then the first game closes on the fourth point", func() {
			So(res.Games, ShouldHaveLength, 2)
			So(res.Games[0].Events, ShouldHaveLength, 4)
			So(res.Games[0].Winner, ShouldEqual, model.SideTop)
			So(res.Games[0].Complete, ShouldBeTrue)
		})

		Convey("And the successor of the winning point starts a new game", func() {
			So(res.IsNewGameStart("p5"), ShouldBeTrue)
			So(res.NewGameStarts, ShouldHaveLength, 1)
		})

		Convey("And the trailing game is in progress", func() {
			So(res.Games[1].Complete, ShouldBeFalse)
			So(res.Games[1].Winner, ShouldEqual, model.SideUnknown)
			So(res.Games[1].Start(), ShouldEqual, "p5")
		})
	})

	Convey("Given a love game with nothing after it", t, func() {
		res := segment.Segment(points(T, T, T, T))

		Convey("Then no new game start is recorded", func() {
			So(res.Games, ShouldHaveLength, 1)
			So(res.NewGameStarts, ShouldBeEmpty)
		})
	})

	Convey("Given a long deuce sequence", t, func() {
		// 3-3, then AD top, deuce, AD bottom, deuce, top twice.
		res := segment.Segment(points(T, T, T, B, B, B, T, B, B, T, T, T, B))

		Convey("Then no win is signalled before the final point of the game", func() {
			So(res.Games[0].Events, ShouldHaveLength, 12)
			So(res.Games[0].Winner, ShouldEqual, model.SideTop)
			So(res.IsNewGameStart("p13"), ShouldBeTrue)
		})
	})

	Convey("Given the first point of the stream", t, func() {
		res := segment.Segment(points(B, B, B, B, T, T, T, T))

		Convey("Then it is never a new game start", func() {
			So(res.IsNewGameStart("p1"), ShouldBeFalse)
			So(res.IsNewGameStart("p5"), ShouldBeTrue)
			So(res.Games, ShouldHaveLength, 2)
			So(res.Games[1].Winner, ShouldEqual, model.SideTop)
		})
	})

	Convey("Given no points", t, func() {
		res := segment.Segment(nil)

		Convey("Then there are no games", func() {
			So(res.Games, ShouldBeEmpty)
			So(res.NewGameStarts, ShouldBeEmpty)
		})
	})

	Convey("Given a stream segmented twice", t, func() {
		events := points(T, B, T, B, T, T, B, B, B, B)
		first := segment.Segment(events)
		second := segment.Segment(events)

		Convey("Then the results are identical", func() {
			So(second, ShouldResemble, first)
		})
	})

	Convey("Given a game lookup", t, func() {
		res := segment.Segment(points(T, T, T, T, B, T))

		Convey("Then the containing game and offset are returned", func() {
			g, pos, ok := res.GameOf("p6")
			So(ok, ShouldBeTrue)
			So(g.Index, ShouldEqual, 1)
			So(pos, ShouldEqual, 1)

			_, _, ok = res.GameOf("missing")
			So(ok, ShouldBeFalse)
		})
	})
}
