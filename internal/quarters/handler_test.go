package quarters

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/courtline/courtline/internal/shared"
)

type stubPeriodService struct {
	startFn     func(ctx context.Context, matchID int64) (Descriptor, error)
	setNumberFn func(ctx context.Context, matchID int64, n int) (Descriptor, error)
	previousFn  func(ctx context.Context, matchID int64) error
}

func (s *stubPeriodService) Start(ctx context.Context, matchID int64) (Descriptor, error) {
	if s.startFn == nil {
		return Descriptor{}, errors.New("unexpected Start")
	}
	return s.startFn(ctx, matchID)
}

func (s *stubPeriodService) Restart(ctx context.Context, matchID int64) (Descriptor, error) {
	return Descriptor{}, errors.New("unexpected Restart")
}

func (s *stubPeriodService) Finish(ctx context.Context, matchID int64) (Descriptor, error) {
	return Descriptor{}, errors.New("unexpected Finish")
}

func (s *stubPeriodService) SetNumber(ctx context.Context, matchID int64, n int) (Descriptor, error) {
	if s.setNumberFn == nil {
		return Descriptor{}, errors.New("unexpected SetNumber")
	}
	return s.setNumberFn(ctx, matchID, n)
}

func (s *stubPeriodService) Next(ctx context.Context, matchID int64) (Descriptor, error) {
	return Descriptor{}, errors.New("unexpected Next")
}

func (s *stubPeriodService) Previous(ctx context.Context, matchID int64) error {
	if s.previousFn == nil {
		return errors.New("unexpected Previous")
	}
	return s.previousFn(ctx, matchID)
}

func (s *stubPeriodService) EnterOvertime(ctx context.Context, matchID int64) (Descriptor, error) {
	return Descriptor{}, errors.New("unexpected EnterOvertime")
}

func (s *stubPeriodService) Summary(ctx context.Context, matchID int64) (Descriptor, error) {
	return Descriptor{}, errors.New("unexpected Summary")
}

func newTestRouter(svc periodService) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/matches/{matchID}/periods", h.MountRoutes)
	return r
}

func TestStartReturnsDescriptor(t *testing.T) {
	svc := &stubPeriodService{
		startFn: func(ctx context.Context, matchID int64) (Descriptor, error) {
			if matchID != 7 {
				t.Fatalf("expected match 7, got %d", matchID)
			}
			return Descriptor{PeriodID: 11, Number: 1, Total: 4, Status: StatusActive, DurationSec: 600, RemainingSec: 600}, nil
		},
	}
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/matches/7/periods/start", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var desc Descriptor
	if err := json.NewDecoder(rr.Body).Decode(&desc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if desc.PeriodID != 11 || desc.Number != 1 || desc.Status != StatusActive {
		t.Fatalf("unexpected descriptor %+v", desc)
	}
}

func TestSetNumberParsesPath(t *testing.T) {
	var got int
	svc := &stubPeriodService{
		setNumberFn: func(ctx context.Context, matchID int64, n int) (Descriptor, error) {
			got = n
			return Descriptor{Number: n, Total: 4}, nil
		},
	}
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/matches/7/periods/set/3", nil))
	if rr.Code != http.StatusOK || got != 3 {
		t.Fatalf("expected 200 with number 3, got %d with %d", rr.Code, got)
	}

	rr = httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/matches/7/periods/set/third", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestPreviousIsConflict(t *testing.T) {
	svc := &stubPeriodService{
		previousFn: func(ctx context.Context, matchID int64) error {
			return shared.ErrIllegalTransition
		},
	}
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/matches/7/periods/previous", nil))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem json, got %q", ct)
	}
}

func TestInvalidMatchID(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(&stubPeriodService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/matches/abc/periods/start", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestUnknownMatchIsNotFound(t *testing.T) {
	svc := &stubPeriodService{
		startFn: func(ctx context.Context, matchID int64) (Descriptor, error) {
			return Descriptor{}, shared.ErrMatchNotFound
		},
	}
	rr := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/matches/8/periods/start", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
