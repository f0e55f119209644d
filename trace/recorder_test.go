package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func record(r *Recorder, sigs ...string) (bool, Frame) {
	for _, s := range sigs {
		r.Append(s)
	}
	return r.Close()
}

func TestCloseDeduplicatesEqualFrames(t *testing.T) {
	r := NewRecorder()

	isNew, first := record(r, "a()", "b()", "clear()")
	if !isNew {
		t.Fatal("first frame reported as not new")
	}
	isNew, second := record(r, "a()", "b()", "clear()")
	if isNew {
		t.Error("identical frame reported as new")
	}
	if r.Registry().Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Registry().Len())
	}
	if &first[0] != &second[0] {
		t.Error("duplicate frame did not return the canonical entry")
	}

	isNew, _ = record(r, "a()", "b()", "clear()", "c()")
	if !isNew {
		t.Error("longer frame reported as not new")
	}
	if r.Registry().Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Registry().Len())
	}
}

func TestCloseIsOrderSensitive(t *testing.T) {
	r := NewRecorder()
	record(r, "a()", "b()")
	isNew, _ := record(r, "b()", "a()")
	if !isNew {
		t.Error("reordered frame reported as not new")
	}
	if got := r.Registry().Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestLastFollowsMostRecentClose(t *testing.T) {
	r := NewRecorder()
	if r.Registry().Last() != nil {
		t.Fatal("Last() before any Close is not nil")
	}
	record(r, "a()")
	record(r, "b()")
	record(r, "a()")

	last := r.Registry().Last()
	if !last.Equal(Frame{"a()"}) {
		t.Errorf("Last() = %v, want [a()]", last)
	}
	if &last[0] != &r.Registry().Frames()[0][0] {
		t.Error("Last() is not the registry entry")
	}
}

func TestCloseResetsLiveFrame(t *testing.T) {
	r := NewRecorder()
	r.Append("a()")
	r.Append("b()")
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	_, closed := r.Close()
	if r.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", r.Len())
	}

	// Appending to the new live frame must not touch the closed one.
	r.Append("c()")
	if !closed.Equal(Frame{"a()", "b()"}) {
		t.Errorf("closed frame changed to %v", closed)
	}
}

func TestPrefixLast(t *testing.T) {
	r := NewRecorder()
	r.PrefixLast("ignored = ")
	if r.Len() != 0 {
		t.Fatal("PrefixLast on empty frame appended an entry")
	}
	r.Append("gl.CreateBuffer()")
	r.PrefixLast("Buffer#1 = ")
	if got := r.Live(); !got.Equal(Frame{"Buffer#1 = gl.CreateBuffer()"}) {
		t.Errorf("Live() = %v", got)
	}
}

func TestEmptyFramesAreRecorded(t *testing.T) {
	r := NewRecorder()
	isNew, f := r.Close()
	if !isNew || len(f) != 0 {
		t.Errorf("Close() on empty = (%v, %v), want (true, [])", isNew, f)
	}
	isNew, _ = r.Close()
	if isNew {
		t.Error("second empty frame reported as new")
	}
}

func TestFrameEqual(t *testing.T) {
	tests := []struct {
		a, b Frame
		want bool
	}{
		{nil, nil, true},
		{nil, Frame{}, true},
		{Frame{"a"}, Frame{"a"}, true},
		{Frame{"a"}, Frame{"a", "a"}, false},
		{Frame{"a", "b"}, Frame{"b", "a"}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestWriteSnapshotJSON(t *testing.T) {
	r := NewRecorder()
	record(r, "Buffer#1 = gl.CreateBuffer()", "gl.Clear(num)")
	record(r, "gl.Clear(num)")

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, FormatJSON, r.Snapshot()); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}
	var got Snapshot
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got.Frames) != 2 || !got.Last.Equal(Frame{"gl.Clear(num)"}) {
		t.Errorf("decoded snapshot = %+v", got)
	}
}

func TestWriteSnapshotYAML(t *testing.T) {
	r := NewRecorder()
	record(r, "gl.Clear(num)")

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, FormatYAML, r.Snapshot()); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "frames:") || !strings.Contains(out, "gl.Clear(num)") {
		t.Errorf("yaml output = %q", out)
	}
}

func TestWriteSnapshotMsgpack(t *testing.T) {
	r := NewRecorder()
	record(r, "gl.Clear(num)")

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, FormatMsgpack, r.Snapshot()); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}
	var got Snapshot
	if err := msgpack.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("msgpack decode: %v", err)
	}
	if len(got.Frames) != 1 {
		t.Errorf("decoded %d frames, want 1", len(got.Frames))
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "msgpack": FormatMsgpack}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = (%v, %v), want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(xml) error = %v, want ErrUnknownFormat", err)
	}
}
