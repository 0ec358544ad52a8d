package midi

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// buildSMF assembles a format-0 file from raw track bodies.
func buildSMF(t *testing.T, tracks ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("MThd")
	binary.Write(&buf, binary.BigEndian, uint32(6))
	binary.Write(&buf, binary.BigEndian, uint16(0))          // format
	binary.Write(&buf, binary.BigEndian, uint16(len(tracks))) // track count
	binary.Write(&buf, binary.BigEndian, uint16(480))        // division
	for _, body := range tracks {
		buf.WriteString("MTrk")
		binary.Write(&buf, binary.BigEndian, uint32(len(body)))
		buf.Write(body)
	}
	return buf.Bytes()
}

var endOfTrack = []byte{0x00, 0xFF, 0x2F, 0x00}

func TestToneRowBasic(t *testing.T) {
	body := []byte{
		0x00, 0x90, 60, 64, // note-on C4
		0x10, 0x80, 60, 0, // note-off
		0x00, 0x90, 69, 64, // note-on A4
		0x10, 69, 0, // running status: note-on velocity 0 acts as note-off
		0x00, 0x90, 65, 100, // note-on F4
	}
	body = append(body, endOfTrack...)
	smf := buildSMF(t, body)

	row, err := ToneRow(bytes.NewReader(smf))
	if err != nil {
		t.Fatalf("ToneRow: %v", err)
	}
	want := []string{"C", "A", "F"}
	if !reflect.DeepEqual(row, want) {
		t.Fatalf("tone row = %v, want %v", row, want)
	}
}

func TestToneRowSkipsMetaAndOtherMessages(t *testing.T) {
	body := []byte{
		0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20, // tempo meta
		0x00, 0xC0, 0x05, // program change
		0x00, 0x90, 61, 90, // note-on C#
		0x00, 0xB0, 0x07, 0x64, // controller
		0x05, 0x90, 66, 90, // note-on F#
	}
	body = append(body, endOfTrack...)
	smf := buildSMF(t, body)

	row, err := ToneRow(bytes.NewReader(smf))
	if err != nil {
		t.Fatalf("ToneRow: %v", err)
	}
	want := []string{"C#", "F#"}
	if !reflect.DeepEqual(row, want) {
		t.Fatalf("tone row = %v, want %v", row, want)
	}
}

func TestToneRowIgnoresChords(t *testing.T) {
	body := []byte{
		0x00, 0x90, 60, 64, // C, E and G struck together: a chord, not melody
		0x00, 64, 64, // E via running status
		0x00, 67, 64, // G via running status
		0x60, 0x90, 69, 80, // lone A at tick 96
	}
	body = append(body, endOfTrack...)
	smf := buildSMF(t, body)

	row, err := ToneRow(bytes.NewReader(smf))
	if err != nil {
		t.Fatalf("ToneRow: %v", err)
	}
	want := []string{"A"}
	if !reflect.DeepEqual(row, want) {
		t.Fatalf("tone row = %v, want %v (chord notes must be ignored)", row, want)
	}
}

func TestToneRowKeepsCrossTrackSimultaneity(t *testing.T) {
	// Two parts striking different notes at the same tick are melody notes
	// in their own tracks, not a chord.
	track1 := append([]byte{0x00, 0x90, 60, 64}, endOfTrack...) // C at tick 0
	track2 := append([]byte{0x00, 0x90, 64, 64}, endOfTrack...) // E at tick 0

	smf := buildSMF(t, track1, track2)
	row, err := ToneRow(bytes.NewReader(smf))
	if err != nil {
		t.Fatalf("ToneRow: %v", err)
	}
	want := []string{"C", "E"}
	if !reflect.DeepEqual(row, want) {
		t.Fatalf("tone row = %v, want %v", row, want)
	}
}

func TestToneRowMergesTracksByTick(t *testing.T) {
	track1 := append([]byte{
		0x00, 0x90, 60, 64, // C at tick 0
		0x81, 0x40, 0x90, 64, 64, // E at tick 192 (two-byte VLQ)
	}, endOfTrack...)
	track2 := append([]byte{
		0x60, 0x90, 62, 64, // D at tick 96
	}, endOfTrack...)

	smf := buildSMF(t, track1, track2)
	row, err := ToneRow(bytes.NewReader(smf))
	if err != nil {
		t.Fatalf("ToneRow: %v", err)
	}
	want := []string{"C", "D", "E"}
	if !reflect.DeepEqual(row, want) {
		t.Fatalf("tone row = %v, want %v", row, want)
	}
}

func TestToneRowRejectsGarbage(t *testing.T) {
	if _, err := ToneRow(bytes.NewReader([]byte("not a midi file at all"))); err == nil {
		t.Fatal("expected error for non-MIDI input")
	}
	// Header only, truncated before any track.
	if _, err := ToneRow(bytes.NewReader([]byte("MThd\x00\x00"))); err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestToneRowTruncatedTrack(t *testing.T) {
	body := []byte{0x00, 0x90, 60} // note-on missing its velocity
	smf := buildSMF(t, body)
	if _, err := ToneRow(bytes.NewReader(smf)); err == nil {
		t.Fatal("expected error for truncated channel message")
	}
}

func TestToneRowFile(t *testing.T) {
	body := append([]byte{0x00, 0x90, 67, 64}, endOfTrack...)
	smf := buildSMF(t, body)
	path := filepath.Join(t.TempDir(), "test.mid")
	if err := os.WriteFile(path, smf, 0644); err != nil {
		t.Fatal(err)
	}

	row, err := ToneRowFile(path)
	if err != nil {
		t.Fatalf("ToneRowFile: %v", err)
	}
	if len(row) != 1 || row[0] != "G" {
		t.Fatalf("tone row = %v, want [G]", row)
	}

	if _, err := ToneRowFile(filepath.Join(t.TempDir(), "missing.mid")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadVLQ(t *testing.T) {
	cases := []struct {
		data []byte
		want uint32
		next int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x40}, 0x40, 1},
		{[]byte{0x7F}, 0x7F, 1},
		{[]byte{0x81, 0x00}, 0x80, 2},
		{[]byte{0x81, 0x40}, 0xC0, 2},
		{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 0x0FFFFFFF, 4},
	}
	for _, tc := range cases {
		next, got, err := readVLQ(tc.data, 0)
		if err != nil {
			t.Errorf("readVLQ(% X): %v", tc.data, err)
			continue
		}
		if got != tc.want || next != tc.next {
			t.Errorf("readVLQ(% X) = (%d, %d), want (%d, %d)", tc.data, got, next, tc.want, tc.next)
		}
	}

	if _, _, err := readVLQ([]byte{0x80, 0x80, 0x80, 0x80, 0x00}, 0); err == nil {
		t.Error("expected error for five-byte VLQ")
	}
	if _, _, err := readVLQ([]byte{0x80}, 0); err == nil {
		t.Error("expected error for truncated VLQ")
	}
}
