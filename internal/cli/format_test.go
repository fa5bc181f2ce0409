package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/session"
	"github.com/xolan/pomidor/internal/storage"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{1, "1m"},
		{25, "25m"},
		{59, "59m"},
		{60, "1h"},
		{90, "1h 30m"},
		{120, "2h"},
		{150, "2h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			result := FormatDuration(tt.minutes)
			if result != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, result, tt.want)
			}
		})
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59, "00:59"},
		{60, "01:00"},
		{1500, "25:00"},
		{1499, "24:59"},
		{5400, "90:00"},
		{-3, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatCountdown(tt.seconds); got != tt.want {
				t.Errorf("FormatCountdown(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatStatusLine(t *testing.T) {
	tests := []struct {
		name   string
		status engine.Status
		want   string
	}{
		{"idle", engine.Status{State: engine.StateIdle}, ""},
		{"running", engine.Status{State: engine.StateRunning, RemainingSeconds: 1500, Label: "Focus"}, "25:00 Focus"},
		{"paused", engine.Status{State: engine.StatePaused, RemainingSeconds: 61, Label: "Read"}, "01:01 Read (paused)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatStatusLine(tt.status); got != tt.want {
				t.Errorf("FormatStatusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func sampleGroups() []storage.DayGroup {
	return storage.GroupedByDateDescending([]session.Session{
		{Date: "2024-01-14", Time: "09:00", Duration: 25, Label: "Old", Completed: true},
		{Date: "2024-01-15", Time: "10:00", Duration: 25, Label: "Focus", Completed: true},
		{Date: "2024-01-15", Time: "11:00", Duration: 50, Label: "Deep", Completed: false},
	})
}

func TestRenderHistoryText(t *testing.T) {
	var buf bytes.Buffer
	RenderHistoryText(&buf, sampleGroups())
	out := buf.String()

	for _, want := range []string{"2024-01-15", "2024-01-14", "Focus", "interrupted", "1 completed (25m), 1 interrupted"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "2024-01-15") > strings.Index(out, "2024-01-14") {
		t.Error("expected newest date first")
	}
}

func TestRenderHistoryText_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderHistoryText(&buf, nil)

	if !strings.Contains(buf.String(), "No sessions recorded yet") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestWriteHistory_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHistory(&buf, sampleGroups(), FormatJSON); err != nil {
		t.Fatalf("WriteHistory() returned error: %v", err)
	}

	var groups []storage.DayGroup
	if err := json.Unmarshal(buf.Bytes(), &groups); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(groups) != 2 || groups[0].Date != "2024-01-15" {
		t.Errorf("unexpected groups: %+v", groups)
	}
	if !strings.Contains(buf.String(), `"completed_minutes": 25`) {
		t.Errorf("expected snake_case summary keys, got:\n%s", buf.String())
	}
}

func TestWriteHistory_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHistory(&buf, sampleGroups(), FormatYAML); err != nil {
		t.Fatalf("WriteHistory() returned error: %v", err)
	}

	var groups []storage.DayGroup
	if err := yaml.Unmarshal(buf.Bytes(), &groups); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(groups) != 2 || len(groups[0].Sessions) != 2 {
		t.Errorf("unexpected groups: %+v", groups)
	}
	if groups[0].Sessions[1].Completed {
		t.Error("expected second session to be interrupted")
	}
}

func TestWriteHistory_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHistory(&buf, nil, "csv")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("unexpected error: %v", err)
	}
}
