package batch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/teemow/schedule-mcp/internal/schedule"
)

func TestParseStringOrArray(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    []string
		wantErr bool
	}{
		{name: "single string", input: "evt123", want: []string{"evt123"}},
		{name: "single string trimmed", input: "  evt123 ", want: []string{"evt123"}},
		{name: "array of strings", input: []any{"id1", "id2", "id3"}, want: []string{"id1", "id2", "id3"}},
		{name: "typed string slice", input: []string{"id1", "id2"}, want: []string{"id1", "id2"}},
		{name: "nil input", input: nil, wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "blank string", input: "   ", wantErr: true},
		{name: "empty array", input: []any{}, wantErr: true},
		{name: "array with non-string", input: []any{"id1", 123, "id3"}, wantErr: true},
		{name: "array with empty string", input: []any{"id1", "", "id3"}, wantErr: true},
		{name: "invalid type", input: 123, wantErr: true},
		{name: "JSON string array", input: `["id1", "id2", "id3"]`, want: []string{"id1", "id2", "id3"}},
		{name: "JSON string single element array", input: `["evt_single"]`, want: []string{"evt_single"}},
		{name: "JSON string empty array", input: `[]`, wantErr: true},
		{name: "invalid JSON string", input: `[invalid json`, want: []string{`[invalid json`}},
		{name: "string starting with bracket", input: `[draft] evt`, want: []string{`[draft] evt`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringOrArray(tt.input, "event_id")
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseStringOrArray() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !stringSliceEqual(got, tt.want) {
				t.Errorf("ParseStringOrArray() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		{ID: "id1", Status: StatusSuccess, Result: "Event id1 deleted successfully."},
		{ID: "id2", Status: StatusSuccess, Result: "Event id2 deleted successfully."},
		{ID: "id3", Status: StatusError, Error: "Something went wrong"},
	}

	var br BatchResult
	if err := json.Unmarshal([]byte(FormatResults(results)), &br); err != nil {
		t.Fatalf("Failed to parse output JSON: %v", err)
	}

	if br.Total != 3 {
		t.Errorf("Total = %d, want 3", br.Total)
	}
	if br.Successful != 2 {
		t.Errorf("Successful = %d, want 2", br.Successful)
	}
	if br.Failed != 1 {
		t.Errorf("Failed = %d, want 1", br.Failed)
	}
	if len(br.Results) != 3 {
		t.Errorf("len(Results) = %d, want 3", len(br.Results))
	}
}

func TestProcessBatch(t *testing.T) {
	ids := []string{"id1", "id2", "id3"}

	fn := func(_ context.Context, id string) (string, error) {
		if id == "id2" {
			return "", errors.New("failed to process id2")
		}
		return "processed " + id, nil
	}

	results := ProcessBatch(context.Background(), ids, fn)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Status != StatusSuccess || results[0].Result != "processed id1" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Status != StatusError || results[1].Error != "failed to process id2" {
		t.Errorf("results[1] = %+v", results[1])
	}
	if results[2].Status != StatusSuccess || results[2].Result != "processed id3" {
		t.Errorf("results[2] = %+v", results[2])
	}
}

func TestProcessBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	fn := func(_ context.Context, id string) (string, error) {
		calls++
		cancel()
		return "ok", nil
	}

	results := ProcessBatch(ctx, []string{"a", "b", "c"}, fn)

	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
	if results[0].Status != StatusSuccess {
		t.Errorf("results[0].Status = %s, want success", results[0].Status)
	}
	for _, r := range results[1:] {
		if r.Status != StatusError {
			t.Errorf("result %s status = %s, want error", r.ID, r.Status)
		}
	}
}

func TestNewSuccessResult(t *testing.T) {
	result := NewSuccessResult("test-id", "test message")

	if result.ID != "test-id" {
		t.Errorf("ID = %s, want test-id", result.ID)
	}
	if result.Status != StatusSuccess {
		t.Errorf("Status = %s, want success", result.Status)
	}
	if result.Result != "test message" {
		t.Errorf("Result = %s, want 'test message'", result.Result)
	}
	if result.Error != "" {
		t.Errorf("Error should be empty, got %s", result.Error)
	}
}

func TestNewErrorResult(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		result := NewErrorResult("test-id", errors.New("test error"))
		if result.Status != StatusError {
			t.Errorf("Status = %s, want error", result.Status)
		}
		if result.Error != "test error" {
			t.Errorf("Error = %s, want 'test error'", result.Error)
		}
		if result.Result != "" {
			t.Errorf("Result should be empty, got %s", result.Result)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		err := &schedule.ProviderError{Provider: schedule.ProviderCalendar, Kind: schedule.KindNotFound, Status: 404}
		result := NewErrorResult("evt1", err)
		want := "Error: Calendar event not found. Check the event ID."
		if result.Error != want {
			t.Errorf("Error = %q, want %q", result.Error, want)
		}
	})
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
