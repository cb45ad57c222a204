package analysis

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

const loadConcurrency = 4

// UnknownSender is used when an export entry carries no usable sender name.
const UnknownSender = "Unknown"

// ErrFormat is returned when an export does not contain a top-level list of message entries.
var ErrFormat = errors.New("input must contain a 'messages' list")

// Message is the canonical form of one exported chat line.
//
// Content is nil for pure-media messages. When present it has already been mojibake-repaired
// and is never a recognized system notice (nickname or theme changes).
type Message struct {
	SenderName  string  `json:"sender_name"`
	TimestampMs int64   `json:"timestamp_ms"`
	Content     *string `json:"content,omitempty"`
	MsgType     *string `json:"type,omitempty"`

	PhotoCount int `json:"photo_count"`
	VideoCount int `json:"video_count"`
	AudioCount int `json:"audio_count"`
	GifCount   int `json:"gif_count"`
	FileCount  int `json:"file_count"`
}

// Text returns the message content, or "" for messages without text.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

var (
	photoExts = map[string]struct{}{
		".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}, ".heic": {}, ".heif": {}, ".bmp": {}, ".tif": {}, ".tiff": {},
	}
	videoExts = map[string]struct{}{
		".mp4": {}, ".mov": {}, ".m4v": {}, ".avi": {}, ".mkv": {}, ".webm": {}, ".3gp": {},
	}
	audioExts = map[string]struct{}{
		".mp3": {}, ".m4a": {}, ".aac": {}, ".ogg": {}, ".opus": {}, ".wav": {}, ".flac": {},
	}
)

// ParseMessages converts raw export entries into canonical messages.
//
// entries must be a []any (as produced by encoding/json); anything else is ErrFormat.
// Entries that are not objects, carry no parsable timestamp, or are system notices are
// skipped and counted rather than failing the whole load.
func ParseMessages(entries any) ([]Message, int, error) {
	list, ok := entries.([]any)
	if !ok {
		return nil, 0, ErrFormat
	}

	messages := make([]Message, 0, len(list))
	skipped := 0
	for _, e := range list {
		entry, ok := e.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		msg, ok := parseEntry(entry)
		if !ok {
			skipped++
			continue
		}
		messages = append(messages, msg)
	}
	return messages, skipped, nil
}

func parseEntry(entry map[string]any) (Message, bool) {
	ts, ok := parseTimestamp(firstPresent(entry, "timestamp_ms", "timestamp"))
	if !ok {
		return Message{}, false
	}

	sender := UnknownSender
	if s, ok := firstPresent(entry, "sender_name", "senderName").(string); ok && strings.TrimSpace(s) != "" {
		sender = FixMojibake(s)
	}

	var content *string
	if s, ok := firstPresent(entry, "content", "text").(string); ok {
		s = FixMojibake(s)
		if IsIgnoredSystemMessage(s) {
			return Message{}, false
		}
		content = &s
	}

	var msgType *string
	if s, ok := entry["type"].(string); ok {
		msgType = &s
	}

	msg := Message{
		SenderName:  sender,
		TimestampMs: ts,
		Content:     content,
		MsgType:     msgType,
		PhotoCount:  listLen(entry["photos"]),
		VideoCount:  listLen(entry["videos"]),
		AudioCount:  listLen(entry["audio_files"]) + listLen(entry["audioFiles"]),
		GifCount:    listLen(entry["gifs"]),
		FileCount:   listLen(entry["files"]),
	}
	photos, videos, audio := countMediaItems(entry["media"])
	msg.PhotoCount += photos
	msg.VideoCount += videos
	msg.AudioCount += audio
	return msg, true
}

// firstPresent returns the value of the first key that is present and non-null.
func firstPresent(entry map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := entry[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func parseTimestamp(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return floatTimestamp(f)
	case float64:
		return floatTimestamp(t)
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func floatTimestamp(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func listLen(v any) int {
	if l, ok := v.([]any); ok {
		return len(l)
	}
	return 0
}

func countMediaItems(v any) (photos, videos, audio int) {
	items, ok := v.([]any)
	if !ok {
		return 0, 0, 0
	}
	for _, item := range items {
		var uri any = item
		if obj, ok := item.(map[string]any); ok {
			uri = firstPresent(obj, "uri", "URI")
		}
		s, ok := uri.(string)
		if !ok {
			continue
		}
		ext := strings.ToLower(filepath.Ext(s))
		if _, ok := photoExts[ext]; ok {
			photos++
		} else if _, ok := videoExts[ext]; ok {
			videos++
		} else if _, ok := audioExts[ext]; ok {
			audio++
		}
	}
	return photos, videos, audio
}

// LoadExport decodes one export document and parses its message list.
//
// The list is read from the "messages" field (or "Messages"). A missing or non-list field
// is ErrFormat.
func LoadExport(r io.Reader) ([]Message, int, error) {
	dec := json.NewDecoder(bufio.NewReaderSize(r, 1<<20))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, 0, fmt.Errorf("LoadExport: decode: %w", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, 0, fmt.Errorf("LoadExport: %w", ErrFormat)
	}
	list := obj["messages"]
	if l, ok := list.([]any); !ok || len(l) == 0 {
		if alt, ok := obj["Messages"]; ok {
			list = alt
		}
	}
	// An export always carries at least one entry; an empty list is not a real export.
	if l, ok := list.([]any); ok && len(l) == 0 {
		return nil, 0, fmt.Errorf("LoadExport: %w", ErrFormat)
	}
	msgs, skipped, err := ParseMessages(list)
	if err != nil {
		return nil, 0, fmt.Errorf("LoadExport: %w", err)
	}
	return msgs, skipped, nil
}

// LoadExportFile reads and parses a single export file.
func LoadExportFile(path string) ([]Message, int, error) {
	if path == "" {
		return nil, 0, errors.New("LoadExportFile: path is empty")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("LoadExportFile: open: %w", err)
	}
	defer f.Close()

	msgs, skipped, err := LoadExport(f)
	if err != nil {
		return nil, 0, fmt.Errorf("LoadExportFile %s: %w", path, err)
	}
	return msgs, skipped, nil
}

// LoadExportFiles merges the parts of a multi-file export (message_1.json, message_2.json, ...).
// Parts are decoded concurrently; the result keeps the order of paths. Ordering across parts does
// not otherwise matter since the metrics engine sorts by timestamp.
func LoadExportFiles(paths ...string) ([]Message, int, error) {
	if len(paths) == 0 {
		return nil, 0, errors.New("LoadExportFiles: no paths")
	}

	type part struct {
		msgs    []Message
		skipped int
	}
	parts := make([]part, len(paths))

	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			msgs, n, err := LoadExportFile(p)
			if err != nil {
				return err
			}
			parts[i] = part{msgs: msgs, skipped: n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var (
		all     []Message
		skipped int
	)
	for _, pt := range parts {
		all = append(all, pt.msgs...)
		skipped += pt.skipped
	}
	return all, skipped, nil
}
