package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/theirongolddev/nestegg/internal/model"
	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const thisYear = 2026

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingSaver struct {
	saved []session.State
	err   error
}

func (r *recordingSaver) SaveSession(st session.State) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, st)
	return nil
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	sess := session.New("test", model.Params{
		RetirementYear:  thisYear + 2,
		MonthlyIncome:   6000,
		MonthlyExpenses: 4000,
	}, thisYear)
	return New(Config{EventsBuffer: 10}, sess, opts...)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestNetWorth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/networth", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	nw := decode[networthJSON](t, rec)
	if !nw.NetWorth.Equal(decimal.NewFromInt(72000)) {
		t.Fatalf("net_worth = %s, want 72000", nw.NetWorth)
	}
	if nw.RetirementYear != thisYear+2 {
		t.Fatalf("retirement_year = %d", nw.RetirementYear)
	}
}

func TestAddGoal_CreatedAndPersisted(t *testing.T) {
	saver := &recordingSaver{}
	s := newTestServer(t, WithSaver(saver))

	contribution := 1000.0
	rec := do(t, s, http.MethodPost, "/v1/goals", goalRequest{
		Name:                "bike",
		TargetAmount:        12000,
		MonthlyContribution: &contribution,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	g := decode[goalJSON](t, rec)
	if g.TargetYear != thisYear+1 || g.SolvedFor != "year" {
		t.Fatalf("goal = %+v", g)
	}
	if len(saver.saved) != 1 || len(saver.saved[0].Goals) != 1 {
		t.Fatalf("saved = %+v, want one state with one goal", saver.saved)
	}

	list := decode[[]goalJSON](t, do(t, s, http.MethodGet, "/v1/goals", nil))
	if len(list) != 1 || list[0].Name != "bike" {
		t.Fatalf("goals = %+v", list)
	}
}

func TestAddGoal_ErrorStatus(t *testing.T) {
	past := thisYear
	zero := 0.0
	both := thisYear + 1
	cases := []struct {
		name string
		body any
		want int
		kind string
	}{
		{"missing name", goalRequest{TargetAmount: 10, MonthlyContribution: &zero}, http.StatusBadRequest, ""},
		{"past year", goalRequest{Name: "x", TargetAmount: 10, TargetYear: &past}, http.StatusBadRequest, "invalid timeframe"},
		{"unreachable", goalRequest{Name: "x", TargetAmount: 10, MonthlyContribution: &zero}, http.StatusUnprocessableEntity, "unreachable goal"},
		{"both halves", goalRequest{Name: "x", TargetAmount: 10, TargetYear: &both, MonthlyContribution: &zero}, http.StatusBadRequest, "invalid input"},
		{"malformed", "not an object", http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/v1/goals", tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
			if tc.kind != "" {
				body := decode[map[string]string](t, rec)
				if body["kind"] != tc.kind {
					t.Fatalf("kind = %q, want %q", body["kind"], tc.kind)
				}
			}
			if len(s.sess.Goals()) != 0 {
				t.Fatal("rejected goal was stored")
			}
		})
	}
}

func TestAddGoal_Duplicate(t *testing.T) {
	s := newTestServer(t)
	year := thisYear + 2
	body := goalRequest{Name: "car", TargetAmount: 24000, TargetYear: &year}
	if rec := do(t, s, http.MethodPost, "/v1/goals", body); rec.Code != http.StatusCreated {
		t.Fatalf("first add = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/v1/goals", body); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate add = %d, want 400", rec.Code)
	}
}

func TestRemoveGoal(t *testing.T) {
	s := newTestServer(t)
	year := thisYear + 2
	do(t, s, http.MethodPost, "/v1/goals", goalRequest{Name: "car", TargetAmount: 24000, TargetYear: &year})

	if rec := do(t, s, http.MethodDelete, "/v1/goals/car", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d, want 204", rec.Code)
	}
	rec := do(t, s, http.MethodDelete, "/v1/goals/car", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", rec.Code)
	}
}

func TestPutParams(t *testing.T) {
	s := newTestServer(t)

	year := thisYear + 4
	rec := do(t, s, http.MethodPut, "/v1/params", paramsRequest{RetirementYear: &year})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	p := decode[paramsJSON](t, rec)
	if p.RetirementYear != year || !p.MonthlyIncome.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("params = %+v", p)
	}

	bad := thisYear
	if rec := do(t, s, http.MethodPut, "/v1/params", paramsRequest{RetirementYear: &bad}); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad year = %d, want 400", rec.Code)
	}
	neg := -5.0
	if rec := do(t, s, http.MethodPut, "/v1/params", paramsRequest{MonthlyIncome: &neg}); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative income = %d, want 400", rec.Code)
	}
	if s.sess.Params().RetirementYear != year {
		t.Fatal("rejected update changed params")
	}
}

func TestPutParams_ConcurrentPartialUpdates(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	put := func(body string) {
		req := httptest.NewRequest(http.MethodPut, "/v1/params", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("PUT %s = %d, body %s", body, rec.Code, rec.Body.String())
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			put(`{"monthly_income": 7000}`)
		}()
		go func() {
			defer wg.Done()
			put(`{"monthly_expenses": 3000}`)
		}()
	}
	wg.Wait()

	p := s.sess.Params()
	if p.MonthlyIncome != 7000 || p.MonthlyExpenses != 3000 {
		t.Fatalf("params = %+v, want income 7000 and expenses 3000", p)
	}
}

func TestPersistFailure(t *testing.T) {
	s := newTestServer(t, WithSaver(&recordingSaver{err: errors.New("disk full")}))
	year := thisYear + 3
	rec := do(t, s, http.MethodPut, "/v1/params", paramsRequest{RetirementYear: &year})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestSnapshot(t *testing.T) {
	s := newTestServer(t)
	contribution := 1000.0
	do(t, s, http.MethodPost, "/v1/goals", goalRequest{Name: "bike", TargetAmount: 12000, MonthlyContribution: &contribution})

	rec := do(t, s, http.MethodGet, "/v1/snapshot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	snap := decode[snapshotJSON](t, rec)
	if snap.Year != thisYear || len(snap.Goals) != 1 || !snap.Goals[0].SavedAmount.IsZero() {
		t.Fatalf("snapshot = %+v", snap)
	}

	rec = do(t, s, http.MethodGet, "/v1/snapshot?year=2027", nil)
	snap = decode[snapshotJSON](t, rec)
	if !snap.Goals[0].Funded || snap.Goals[0].PercentSaved != 100 {
		t.Fatalf("2027 progress = %+v, want funded", snap.Goals[0])
	}

	if rec := do(t, s, http.MethodGet, "/v1/snapshot?year=1990", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("out of range = %d, want 400", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/v1/snapshot?year=soon", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric year = %d, want 400", rec.Code)
	}
}

func TestScheduleAndTimeline(t *testing.T) {
	s := newTestServer(t)

	rows := decode[[]yearJSON](t, do(t, s, http.MethodGet, "/v1/schedule", nil))
	if len(rows) != 3 {
		t.Fatalf("schedule rows = %d, want 3", len(rows))
	}
	if !rows[2].Balance.Equal(decimal.NewFromInt(72000)) {
		t.Fatalf("last balance = %s, want 72000", rows[2].Balance)
	}

	points := decode[[]timelineJSON](t, do(t, s, http.MethodGet, "/v1/timeline", nil))
	if len(points) != 2 || points[0].Kind != "today" || points[1].Kind != "retirement" {
		t.Fatalf("timeline = %+v", points)
	}
}

func TestEvents_RecordMutations(t *testing.T) {
	s := newTestServer(t)
	year := thisYear + 2
	do(t, s, http.MethodPost, "/v1/goals", goalRequest{Name: "car", TargetAmount: 24000, TargetYear: &year})
	do(t, s, http.MethodDelete, "/v1/goals/car", nil)

	events := decode[[]Event](t, do(t, s, http.MethodGet, "/v1/events", nil))
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != EventGoalAdded || events[1].Type != EventGoalRemoved {
		t.Fatalf("event types = %s, %s", events[0].Type, events[1].Type)
	}
	if !events[1].NetWorth.Equal(decimal.NewFromInt(72000)) {
		t.Fatalf("net worth after removal = %s", events[1].NetWorth)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, session.New("x", model.Params{}, thisYear))

	for range 3 {
		s.publishEvent(Event{Type: EventGoalAdded})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestEmit_ConcurrentIDsInOrder(t *testing.T) {
	s := New(Config{EventsBuffer: 500}, session.New("x", model.Params{}, thisYear))
	ch := make(chan Event, 500)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	var wg sync.WaitGroup
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.emit(EventParamsUpdated, "")
		}()
	}
	wg.Wait()

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	s.mu.RUnlock()
	if len(events) != 200 {
		t.Fatalf("events = %d, want 200", len(events))
	}
	for i, ev := range events {
		if ev.ID != int64(i+1) {
			t.Fatalf("events[%d].ID = %d, want %d", i, ev.ID, i+1)
		}
	}
	for i := range 200 {
		if ev := <-ch; ev.ID != int64(i+1) {
			t.Fatalf("stream event %d has ID %d, want %d", i, ev.ID, i+1)
		}
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("statusFor(unknown) = %d", got)
	}
}
