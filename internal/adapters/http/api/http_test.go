package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/cpcoach/internal/adapters/http/api"
	"github.com/okian/cpcoach/internal/adapters/platform"
	"github.com/okian/cpcoach/internal/adapters/session"
	"github.com/okian/cpcoach/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// stubService is a programmable Dependencies implementation.
type stubService struct {
	registerErr  error
	roastErr     error
	contestsErr  error
	lastConvID   string
	lastGoal     model.Goal
	lastPlatform string
	lastHandle   string
}

func (s *stubService) RegisterHandle(_ context.Context, convID, platformName, handleID string) (api.RegisteredHandle, error) {
	s.lastConvID, s.lastPlatform, s.lastHandle = convID, platformName, handleID
	if s.registerErr != nil {
		return api.RegisteredHandle{}, s.registerErr
	}
	h, err := model.NewHandle(platformName, handleID)
	if err != nil {
		return api.RegisteredHandle{}, err
	}
	return api.RegisteredHandle{Handle: h, New: true, Rating: 1500}, nil
}

func (s *stubService) RemoveHandle(_ context.Context, convID, platformName, handleID string) error {
	s.lastConvID, s.lastPlatform, s.lastHandle = convID, platformName, handleID
	return nil
}

func (s *stubService) Handles(_ context.Context, convID string) ([]model.Handle, error) {
	s.lastConvID = convID
	return []model.Handle{{Platform: model.Codeforces, ID: "alice"}}, nil
}

func (s *stubService) Roast(_ context.Context, convID string) (api.RoastResult, error) {
	s.lastConvID = convID
	if s.roastErr != nil {
		return api.RoastResult{}, s.roastErr
	}
	return api.RoastResult{Lines: []string{"a roast line"}}, nil
}

func (s *stubService) Recommend(_ context.Context, convID string, goal model.Goal) (api.RecommendResult, error) {
	s.lastConvID, s.lastGoal = convID, goal
	if s.roastErr != nil {
		return api.RecommendResult{}, s.roastErr
	}
	return api.RecommendResult{Goal: goal, Problems: []model.ProblemRef{{Name: "Two Sum"}}}, nil
}

func (s *stubService) UpcomingContests(context.Context) ([]model.ContestEntry, error) {
	if s.contestsErr != nil {
		return nil, s.contestsErr
	}
	return []model.ContestEntry{{Platform: model.Codeforces, Name: "Round A"}}, nil
}

func newTestMux(stub *stubService, opts ...api.ServerOption) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(stub, opts...).Register(context.Background(), mux)
	return mux
}

func TestProfilesEndpoint(t *testing.T) {
	Convey("Given the profiles endpoint", t, func() {
		stub := &stubService{}
		mux := newTestMux(stub)

		Convey("A valid registration returns 201 with the stored handle", func() {
			body := strings.NewReader(`{"platform":"codeforces","handle":"alice"}`)
			req := httptest.NewRequest(http.MethodPost, "/profiles", body)
			req.Header.Set("X-Conversation-ID", "conv-42")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusCreated)
			So(stub.lastConvID, ShouldEqual, "conv-42")
			So(stub.lastPlatform, ShouldEqual, "codeforces")
			So(stub.lastHandle, ShouldEqual, "alice")

			var resp api.RegisteredHandle
			So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.New, ShouldBeTrue)
			So(resp.Rating, ShouldEqual, 1500)
		})

		Convey("A missing conversation header falls back to the default", func() {
			body := strings.NewReader(`{"platform":"codeforces","handle":"alice"}`)
			req := httptest.NewRequest(http.MethodPost, "/profiles", body)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(stub.lastConvID, ShouldEqual, "default")
		})

		Convey("Malformed JSON is a 400", func() {
			req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader("{not json"))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A missing field is a 400", func() {
			req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(`{"platform":"codeforces"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An unknown platform is a 400", func() {
			stub.registerErr = fmt.Errorf("wrap: %w", model.ErrUnknownPlatform)
			req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(`{"platform":"topcoder","handle":"x"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A handle the platform does not know is a 404", func() {
			stub.registerErr = fmt.Errorf("wrap: %w", platform.ErrHandleNotFound)
			req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(`{"platform":"codeforces","handle":"nobody"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("An unreachable platform is a 502", func() {
			stub.registerErr = fmt.Errorf("wrap: %w", platform.ErrUnavailable)
			req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader(`{"platform":"codeforces","handle":"alice"}`))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadGateway)
		})

		Convey("GET lists the registered handles", func() {
			req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "alice")
		})

		Convey("DELETE removes a handle", func() {
			body := strings.NewReader(`{"platform":"codeforces","handle":"alice"}`)
			req := httptest.NewRequest(http.MethodDelete, "/profiles", body)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusNoContent)
		})

		Convey("Other methods are rejected", func() {
			req := httptest.NewRequest(http.MethodPut, "/profiles", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestRoastEndpoint(t *testing.T) {
	Convey("Given the roast endpoint", t, func() {
		stub := &stubService{}
		mux := newTestMux(stub)

		Convey("A roast returns the lines", func() {
			req := httptest.NewRequest(http.MethodGet, "/roast", nil)
			req.Header.Set("X-Conversation-ID", "conv-9")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "a roast line")
			So(stub.lastConvID, ShouldEqual, "conv-9")
		})

		Convey("No registered handles is a 409", func() {
			stub.roastErr = fmt.Errorf("wrap: %w", session.ErrNoHandles)
			req := httptest.NewRequest(http.MethodGet, "/roast", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusConflict)
		})

		Convey("All platforms down is a 502", func() {
			stub.roastErr = fmt.Errorf("wrap: %w", platform.ErrUnavailable)
			req := httptest.NewRequest(http.MethodGet, "/roast", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadGateway)
		})

		Convey("POST is rejected", func() {
			req := httptest.NewRequest(http.MethodPost, "/roast", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestRecommendationsEndpoint(t *testing.T) {
	Convey("Given the recommendations endpoint", t, func() {
		stub := &stubService{}
		mux := newTestMux(stub)

		Convey("The goal parameter parses through its aliases", func() {
			req := httptest.NewRequest(http.MethodGet, "/recommendations?goal=faang", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(stub.lastGoal, ShouldEqual, model.GoalInterview)
		})

		Convey("A missing goal falls back to general", func() {
			req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(stub.lastGoal, ShouldEqual, model.GoalGeneral)
		})
	})
}

func TestContestsEndpoint(t *testing.T) {
	Convey("Given the contests endpoint", t, func() {
		stub := &stubService{}
		mux := newTestMux(stub)

		Convey("The merged feed returns", func() {
			req := httptest.NewRequest(http.MethodGet, "/contests", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "Round A")
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		mux := newTestMux(&stubService{})

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		So(rec.Code, ShouldEqual, http.StatusOK)
		So(rec.Body.String(), ShouldContainSubstring, "ok")
	})
}

func TestBearerTokenAuth(t *testing.T) {
	Convey("Given a server with a configured bearer token", t, func() {
		mux := newTestMux(&stubService{}, api.WithBearerToken("s3cret"))

		Convey("A request without the token is a 401", func() {
			req := httptest.NewRequest(http.MethodGet, "/roast", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("A request with the wrong token is a 401", func() {
			req := httptest.NewRequest(http.MethodGet, "/roast", nil)
			req.Header.Set("Authorization", "Bearer wrong")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("A request with the right token passes", func() {
			req := httptest.NewRequest(http.MethodGet, "/roast", nil)
			req.Header.Set("Authorization", "Bearer s3cret")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("The health endpoint stays open", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestRequestIDHeader(t *testing.T) {
	Convey("Given any business request", t, func() {
		mux := newTestMux(&stubService{})

		Convey("A request id is generated when absent", func() {
			req := httptest.NewRequest(http.MethodGet, "/roast", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
		})

		Convey("A caller-provided request id is kept", func() {
			req := httptest.NewRequest(http.MethodGet, "/roast", nil)
			req.Header.Set("X-Request-ID", "trace-123")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Header().Get("X-Request-ID"), ShouldEqual, "trace-123")
		})
	})
}
