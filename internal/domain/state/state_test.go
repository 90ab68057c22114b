package state_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/resumatch/internal/domain/model"
	"github.com/okian/resumatch/internal/domain/state"
	"github.com/smartystreets/goconvey/convey"
)

func TestState_Variants(t *testing.T) {
	convey.Convey("Given the submission state constructors", t, func() {
		convey.Convey("When using the zero value", func() {
			var s state.State

			convey.Convey("Then it is Idle", func() {
				convey.So(s.Phase(), convey.ShouldEqual, state.PhaseIdle)
				convey.So(s, convey.ShouldResemble, state.Idle())
				convey.So(s.Busy(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When Loading", func() {
			s := state.Loading()

			convey.Convey("Then it carries neither error nor result", func() {
				convey.So(s.Busy(), convey.ShouldBeTrue)
				_, hasMsg := s.Message()
				_, hasRes := s.Result()
				convey.So(hasMsg, convey.ShouldBeFalse)
				convey.So(hasRes, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When Failed", func() {
			s := state.Failed("unsupported file type")

			convey.Convey("Then only the message is available", func() {
				msg, ok := s.Message()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(msg, convey.ShouldEqual, "unsupported file type")
				_, hasRes := s.Result()
				convey.So(hasRes, convey.ShouldBeFalse)
				convey.So(s.Busy(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When Succeeded", func() {
			res := model.AnalysisResult{MatchScore: 78, MatchedKeywords: []string{"python"}}
			s := state.Succeeded(res)

			convey.Convey("Then only the result is available", func() {
				got, ok := s.Result()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(got, convey.ShouldResemble, res)
				_, hasMsg := s.Message()
				convey.So(hasMsg, convey.ShouldBeFalse)
			})
		})
	})
}

func TestState_MarshalJSON(t *testing.T) {
	convey.Convey("Given states encoded as JSON", t, func() {
		convey.Convey("Then idle has only a phase", func() {
			b, err := json.Marshal(state.Idle())
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `{"phase":"idle"}`)
		})

		convey.Convey("Then failed carries the error", func() {
			b, err := json.Marshal(state.Failed("boom"))
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual, `{"phase":"failed","error":"boom"}`)
		})

		convey.Convey("Then succeeded carries the result", func() {
			b, err := json.Marshal(state.Succeeded(model.AnalysisResult{
				MatchScore:      50,
				MatchedKeywords: []string{"go"},
				MissingKeywords: []string{},
			}))
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual,
				`{"phase":"succeeded","result":{"match_score":50,"matched_keywords":["go"],"missing_keywords":[]}}`)
		})
	})

	convey.Convey("Given a phase outside the known set", t, func() {
		convey.So(state.Phase(42).String(), convey.ShouldEqual, "unknown")
	})
}
