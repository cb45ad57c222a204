package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadExport_MessengerShape(t *testing.T) {
	t.Parallel()

	doc := `{
	  "participants": [{"name": "Ala"}, {"name": "Ola"}],
	  "messages": [
	    {"sender_name": "Ala", "timestamp_ms": 1700000000000, "content": "hej"},
	    {"sender_name": "Ola", "timestamp_ms": "1700000060000", "content": "Ola ustawiła nick dla Ala"},
	    {"sender_name": "", "timestamp_ms": 1700000120000.0, "photos": [{"uri": "a.jpg"}, {"uri": "b.png"}]},
	    {"sender_name": "Ola", "content": "no timestamp"},
	    "not an object",
	    {"sender_name": "Ola", "timestamp_ms": 1700000180000, "audio_files": [{"uri": "v.mp4"}], "type": "Generic"}
	  ]
	}`
	msgs, skipped, err := LoadExport(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadExport: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len(msgs)=%d, want 3", len(msgs))
	}
	if skipped != 3 {
		t.Fatalf("skipped=%d, want 3", skipped)
	}
	if msgs[0].SenderName != "Ala" || msgs[0].Text() != "hej" || msgs[0].TimestampMs != 1700000000000 {
		t.Fatalf("msgs[0]=%+v", msgs[0])
	}
	if msgs[1].SenderName != UnknownSender {
		t.Fatalf("SenderName=%q, want %q", msgs[1].SenderName, UnknownSender)
	}
	if msgs[1].Content != nil {
		t.Fatalf("media-only message should have nil Content")
	}
	if msgs[1].PhotoCount != 2 {
		t.Fatalf("PhotoCount=%d, want 2", msgs[1].PhotoCount)
	}
	if msgs[2].AudioCount != 1 || msgs[2].MsgType == nil || *msgs[2].MsgType != "Generic" {
		t.Fatalf("msgs[2]=%+v", msgs[2])
	}
}

func TestLoadExport_AltSchema(t *testing.T) {
	t.Parallel()

	doc := `{
	  "Messages": [
	    {"senderName": "Kasia", "timestamp": 1700000000000, "text": "siema", "media": [
	      {"uri": "x/photo.JPG"}, {"uri": "clip.mov"}, "memo.opus", {"uri": "doc.pdf"}
	    ]}
	  ]
	}`
	msgs, skipped, err := LoadExport(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadExport: %v", err)
	}
	if skipped != 0 || len(msgs) != 1 {
		t.Fatalf("len=%d skipped=%d, want 1 0", len(msgs), skipped)
	}
	m := msgs[0]
	if m.SenderName != "Kasia" || m.Text() != "siema" {
		t.Fatalf("m=%+v", m)
	}
	if m.PhotoCount != 1 || m.VideoCount != 1 || m.AudioCount != 1 {
		t.Fatalf("media photo=%d video=%d audio=%d, want 1 1 1", m.PhotoCount, m.VideoCount, m.AudioCount)
	}
}

func TestLoadExport_FormatErrors(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{`{"participants": []}`, `{"messages": {"a": 1}}`, `[1, 2]`, `{"messages": []}`, `{"messages": [], "Messages": []}`} {
		if _, _, err := LoadExport(strings.NewReader(doc)); !errors.Is(err, ErrFormat) {
			t.Fatalf("doc=%s: err=%v, want ErrFormat", doc, err)
		}
	}
	if _, _, err := LoadExport(strings.NewReader(`{"messages": [`)); err == nil || errors.Is(err, ErrFormat) {
		t.Fatalf("truncated JSON: err=%v, want decode error", err)
	}

	msgs, skipped, err := LoadExport(strings.NewReader(`{"messages": [{"content": "no timestamp"}]}`))
	if err != nil || len(msgs) != 0 || skipped != 1 {
		t.Fatalf("all malformed: msgs=%v skipped=%d err=%v", msgs, skipped, err)
	}
	if msgs, _, err := ParseMessages([]any{}); err != nil || len(msgs) != 0 {
		t.Fatalf("ParseMessages(empty)=%v, %v", msgs, err)
	}
}

func TestParseMessages_RepairsMojibake(t *testing.T) {
	t.Parallel()

	raw := []any{
		map[string]any{"sender_name": "Å\u0081ukasz", "timestamp_ms": int64(1), "content": "czeÅ\u009bÄ\u0087"},
	}
	msgs, _, err := ParseMessages(raw)
	if err != nil {
		t.Fatalf("ParseMessages: %v", err)
	}
	if msgs[0].SenderName != "Łukasz" {
		t.Fatalf("SenderName=%q, want %q", msgs[0].SenderName, "Łukasz")
	}
	if msgs[0].Text() != "cześć" {
		t.Fatalf("Text=%q, want %q", msgs[0].Text(), "cześć")
	}

	if _, _, err := ParseMessages(map[string]any{}); !errors.Is(err, ErrFormat) {
		t.Fatalf("err=%v, want ErrFormat", err)
	}
}

func TestLoadExportFiles_MergesParts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p1 := filepath.Join(dir, "message_1.json")
	p2 := filepath.Join(dir, "message_2.json")
	if err := os.WriteFile(p1, []byte(`{"messages":[{"sender_name":"A","timestamp_ms":2,"content":"b"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(p2, []byte(`{"messages":[{"sender_name":"B","timestamp_ms":1,"content":"a"},{"content":"x"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	msgs, skipped, err := LoadExportFiles(p1, p2)
	if err != nil {
		t.Fatalf("LoadExportFiles: %v", err)
	}
	if len(msgs) != 2 || skipped != 1 {
		t.Fatalf("len=%d skipped=%d, want 2 1", len(msgs), skipped)
	}
	if _, _, err := LoadExportFiles(); err == nil {
		t.Fatalf("expected error for no paths")
	}
	if _, _, err := LoadExportFiles(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
