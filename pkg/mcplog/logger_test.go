package mcplog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func readEntries(t *testing.T, data []byte) []LogEntry {
	t.Helper()
	var got []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("torn or invalid line %d %q: %v", len(got)+1, line, err)
		}
		got = append(got, e)
	}
	return got
}

func TestSanitizeParams(t *testing.T) {
	source := "namespace Shop { public class Book { public string Title { get; set; } } }"

	tests := []struct {
		name     string
		input    map[string]any
		wantKeys []string
		wantSkip []string
	}{
		{
			name:  "nil map returns empty",
			input: nil,
		},
		{
			name:     "short string passes through",
			input:    map[string]any{"id": "Type:Shop.Book"},
			wantKeys: []string{"id"},
		},
		{
			name:     "source replaced with length and hash",
			input:    map[string]any{"source": source},
			wantKeys: []string{"source_len", "source_hash"},
			wantSkip: []string{"source"},
		},
		{
			name:     "non-string values pass through",
			input:    map[string]any{"limit": float64(10), "include_snippet": true, "extra": nil},
			wantKeys: []string{"limit", "include_snippet", "extra"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := SanitizeParams(tc.input)
			if len(out) != len(tc.wantKeys) {
				t.Errorf("got %d keys %v, want %v", len(out), out, tc.wantKeys)
			}
			for _, k := range tc.wantKeys {
				if _, ok := out[k]; !ok {
					t.Errorf("expected key %q in output", k)
				}
			}
			for _, k := range tc.wantSkip {
				if _, ok := out[k]; ok {
					t.Errorf("unexpected key %q in output", k)
				}
			}
		})
	}
}

func TestSanitizeParamsHashIsStable(t *testing.T) {
	source := strings.Repeat("class C { }\n", 10)
	a := SanitizeParams(map[string]any{"source": source})
	b := SanitizeParams(map[string]any{"source": source})
	c := SanitizeParams(map[string]any{"source": source + " "})

	if a["source_hash"] != b["source_hash"] {
		t.Errorf("same payload hashed differently: %v vs %v", a["source_hash"], b["source_hash"])
	}
	if a["source_hash"] == c["source_hash"] {
		t.Errorf("different payloads share hash %v", a["source_hash"])
	}
	if a["source_len"] != len(source) {
		t.Errorf("source_len=%v, want %d", a["source_len"], len(source))
	}
}

func TestResponseBytes(t *testing.T) {
	if got := ResponseBytes(nil); got != 0 {
		t.Errorf("nil result: got %d, want 0", got)
	}
	if got := ResponseBytes(mcp.NewToolResultText("<Type />")); got == 0 {
		t.Errorf("text result: got 0 bytes")
	}
}

func TestNewEntry(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	restore := Now
	Now = func() time.Time { return start.Add(42 * time.Millisecond) }
	defer func() { Now = restore }()

	entry := NewEntry("get_artifact", map[string]any{"id": "Type:Shop.Book"}, start, mcp.NewToolResultError("artifact not found"), nil)
	if entry.Ts != "2026-01-02T03:04:05Z" {
		t.Errorf("ts=%q", entry.Ts)
	}
	if entry.DurationMs != 42 {
		t.Errorf("duration_ms=%d, want 42", entry.DurationMs)
	}
	if !entry.IsError || entry.Error != nil {
		t.Errorf("tool error result: is_error=%v error=%v", entry.IsError, entry.Error)
	}
	if entry.TokensEst != entry.ResponseBytes/4 {
		t.Errorf("tokens_est=%d for %d bytes", entry.TokensEst, entry.ResponseBytes)
	}

	entry = NewEntry("extract_file", nil, start, nil, errors.New("boom"))
	if !entry.IsError || entry.Error == nil || *entry.Error != "boom" {
		t.Errorf("handler error not recorded: %+v", entry)
	}
}

func TestLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	entries := []LogEntry{
		{Tool: "list_artifacts", Params: map[string]any{}, DurationMs: 5, ResponseBytes: 100, TokensEst: 25},
		{Tool: "extract_source", Params: map[string]any{"source_len": 1200}, DurationMs: 42, ResponseBytes: 800, TokensEst: 200},
		{Tool: "get_artifact", Params: map[string]any{"id": "Type:Shop.Book"}, DurationMs: 3, IsError: true},
	}
	for _, e := range entries {
		if err := logger.Write(e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := readEntries(t, data)
	if len(got) != len(entries) {
		t.Fatalf("got %d lines, want %d", len(got), len(entries))
	}
	for i, e := range entries {
		if got[i].Tool != e.Tool || got[i].DurationMs != e.DurationMs || got[i].IsError != e.IsError {
			t.Errorf("line %d: got %+v, want %+v", i, got[i], e)
		}
	}
}

func TestLoggerConcurrency(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	const goroutines = 50
	const writesEach = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(LogEntry{Tool: "outline_file"})
			}
		}()
	}
	wg.Wait()

	if err := logger.Close(); err != nil {
		t.Fatalf("Close on a non-closer: %v", err)
	}
	if got := len(readEntries(t, buf.Bytes())); got != goroutines*writesEach {
		t.Errorf("got %d lines, want %d", got, goroutines*writesEach)
	}
}

func TestNewLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "mcp.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestNilLoggerIsDisabled(t *testing.T) {
	logger, err := NewLogger("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger != nil {
		t.Fatalf("expected nil logger for empty path")
	}
	if err := logger.Write(LogEntry{Tool: "list_artifacts"}); err != nil {
		t.Errorf("Write on nil logger: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}
