package fleet

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) *time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return &v
}

func TestOnTimePercentage(t *testing.T) {
	est := mustTime(t, "2024-01-01T10:00:00Z")

	tests := []struct {
		name string
		jobs []DeliveryJob
		want OnTimeStats
	}{
		{
			name: "one on time one late",
			jobs: []DeliveryJob{
				{Status: JobDelivered, EstimatedETA: est, ActualETA: mustTime(t, "2024-01-01T10:10:00Z")},
				{Status: JobDelivered, EstimatedETA: est, ActualETA: mustTime(t, "2024-01-01T10:20:00Z")},
			},
			want: OnTimeStats{Percentage: 50.00, Total: 2, OnTime: 1},
		},
		{
			name: "exactly at grace boundary is on time",
			jobs: []DeliveryJob{
				{Status: JobDelivered, EstimatedETA: est, ActualETA: mustTime(t, "2024-01-01T10:15:00Z")},
			},
			want: OnTimeStats{Percentage: 100, Total: 1, OnTime: 1},
		},
		{
			name: "missing etas are excluded",
			jobs: []DeliveryJob{
				{Status: JobDelivered, EstimatedETA: est, ActualETA: mustTime(t, "2024-01-01T09:00:00Z")},
				{Status: JobDelivered, EstimatedETA: est},
				{Status: JobDelivered, ActualETA: est},
			},
			want: OnTimeStats{Percentage: 100, Total: 1, OnTime: 1},
		},
		{
			name: "undelivered jobs ignored",
			jobs: []DeliveryJob{
				{Status: JobInTransit, EstimatedETA: est, ActualETA: est},
			},
			want: OnTimeStats{},
		},
		{
			name: "rounds to two decimals",
			jobs: []DeliveryJob{
				{Status: JobDelivered, EstimatedETA: est, ActualETA: est},
				{Status: JobDelivered, EstimatedETA: est, ActualETA: mustTime(t, "2024-01-01T11:00:00Z")},
				{Status: JobDelivered, EstimatedETA: est, ActualETA: mustTime(t, "2024-01-01T11:00:00Z")},
			},
			want: OnTimeStats{Percentage: 33.33, Total: 3, OnTime: 1},
		},
		{name: "no jobs", want: OnTimeStats{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OnTimePercentage(tt.jobs, OnTimeGrace)
			if got != tt.want {
				t.Errorf("OnTimePercentage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDailyDeliveries(t *testing.T) {
	now := *mustTime(t, "2024-01-10T12:00:00Z")

	jobs := []DeliveryJob{
		{Status: JobDelivered, CompletedAt: mustTime(t, "2024-01-10T08:00:00Z")},
		{Status: JobDelivered, CompletedAt: mustTime(t, "2024-01-10T11:59:59Z")},
		{Status: JobDelivered, CompletedAt: mustTime(t, "2024-01-09T23:30:00Z")},
		// Offset timestamps group by their UTC date
		{Status: JobDelivered, CompletedAt: mustTime(t, "2024-01-09T02:00:00+05:30")},
		// Inclusive lower bound
		{Status: JobDelivered, CompletedAt: mustTime(t, "2024-01-03T12:00:00Z")},
		// Outside the window
		{Status: JobDelivered, CompletedAt: mustTime(t, "2024-01-03T11:59:59Z")},
		{Status: JobDelivered, CompletedAt: mustTime(t, "2024-01-10T12:00:01Z")},
		// Not delivered or not completed
		{Status: JobInTransit, CompletedAt: mustTime(t, "2024-01-10T08:00:00Z")},
		{Status: JobDelivered},
	}

	got := DailyDeliveries(jobs, now)
	want := map[string]int{
		"2024-01-10": 2,
		"2024-01-09": 1,
		"2024-01-08": 1,
		"2024-01-03": 1,
	}
	if len(got) != len(want) {
		t.Fatalf("DailyDeliveries() = %v, want %v", got, want)
	}
	for day, n := range want {
		if got[day] != n {
			t.Errorf("DailyDeliveries()[%s] = %d, want %d", day, got[day], n)
		}
	}
}

func TestDailyDeliveries_Empty(t *testing.T) {
	got := DailyDeliveries(nil, time.Now())
	if got == nil || len(got) != 0 {
		t.Errorf("DailyDeliveries(nil) = %v, want empty map", got)
	}
}
