package sepehr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var tehran = time.FixedZone("+0330", int((3*time.Hour + 30*time.Minute).Seconds()))

func testClient(srv *httptest.Server) *Client {
	c := NewClient(StaticHeader(`OAuth oauth_consumer_key="test"`))
	c.BaseURL = srv.URL
	return c
}

func TestDayScheduleParsesList(t *testing.T) {
	var gotAuth, gotChannel, gotDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotChannel = r.URL.Query().Get("channel_id")
		gotDate = r.URL.Query().Get("date")
		w.Write([]byte(`{"list":[
			{"id":1,"start":1771362600000,"duration":30,"title":"Tafsir","descSummary":"short","descFull":"long","imageUrl":"https://img/1.jpg"},
			{"id":2,"start":1771364400000,"duration":0,"title":"Telavat","descSummary":"","descFull":"","imageUrl":""}
		]}`))
	}))
	defer srv.Close()

	day := time.Date(2026, 2, 19, 0, 0, 0, 0, tehran)
	progs, err := testClient(srv).DaySchedule(context.Background(), 46, day)
	if err != nil {
		t.Fatal(err)
	}
	if len(progs) != 2 {
		t.Fatalf("got %d programmes, want 2", len(progs))
	}
	if gotAuth != `OAuth oauth_consumer_key="test"` {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if gotChannel != "46" {
		t.Errorf("channel_id = %q, want 46", gotChannel)
	}
	if gotDate != "2026-02-19" {
		t.Errorf("date = %q, want 2026-02-19", gotDate)
	}
	if progs[0].Title != "Tafsir" || progs[0].Duration != 30 {
		t.Errorf("first programme = %+v", progs[0])
	}
}

func TestDayScheduleTreats500AsEmptyDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	progs, err := testClient(srv).DaySchedule(context.Background(), 46, time.Now())
	if err != nil {
		t.Fatalf("500 must not be an error, got %v", err)
	}
	if len(progs) != 0 {
		t.Errorf("got %d programmes, want 0", len(progs))
	}
}

func TestDayScheduleRejectsOtherStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := testClient(srv).DaySchedule(context.Background(), 46, time.Now()); err == nil {
		t.Fatal("expected an error for 401")
	}
}

func TestScheduleFetchesOneRequestPerDay(t *testing.T) {
	var dates []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dates = append(dates, r.URL.Query().Get("date"))
		w.Write([]byte(`{"list":[{"id":1,"start":1771362600000,"duration":10,"title":"X"}]}`))
	}))
	defer srv.Close()

	from := time.Date(2026, 2, 19, 8, 0, 0, 0, tehran)
	progs, err := testClient(srv).Schedule(context.Background(), 46, from, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 3 {
		t.Fatalf("made %d requests, want 3", len(dates))
	}
	want := []string{"2026-02-19", "2026-02-20", "2026-02-21"}
	for i, d := range want {
		if dates[i] != d {
			t.Errorf("request %d date = %q, want %q", i, dates[i], d)
		}
	}
	if len(progs) != 3 {
		t.Errorf("got %d programmes, want 3", len(progs))
	}
}

func TestScheduleStopsOnDayError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv).Schedule(context.Background(), 46, time.Now(), 7)
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Errorf("made %d requests after failure, want 1", calls)
	}
}

func TestProgrammeDescPrefersFull(t *testing.T) {
	cases := []struct {
		p    Programme
		want string
	}{
		{Programme{DescFull: "full", DescSummary: "short"}, "full"},
		{Programme{DescFull: "  ", DescSummary: "short"}, "short"},
		{Programme{}, ""},
	}
	for _, c := range cases {
		if got := c.p.Desc(); got != c.want {
			t.Errorf("Desc() = %q, want %q", got, c.want)
		}
	}
}

func TestEntriesSkipsMissingStart(t *testing.T) {
	progs := []Programme{
		{Start: 1771362600000, Duration: 30, Title: "Tafsir", ImageURL: "https://img/1.jpg", DescFull: "long"},
		{Start: 0, Title: "broken"},
	}
	entries := Entries(progs, tehran)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Title != "Tafsir" || e.Duration != 30 || e.Desc != "long" || e.Icon != "https://img/1.jpg" {
		t.Errorf("entry = %+v", e)
	}
	// 1771362600000 ms = 2026-02-19 00:00:00 +0330
	want := time.Date(2026, 2, 19, 0, 0, 0, 0, tehran)
	if !e.Start.Equal(want) {
		t.Errorf("start = %v, want %v", e.Start, want)
	}
}
