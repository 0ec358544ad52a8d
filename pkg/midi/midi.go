// Package midi extracts tone rows from Standard MIDI Files. Only note-on
// events matter to the cipher; everything else in the file is skipped.
package midi

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
)

const (
	headerChunkType = "MThd"
	trackChunkType  = "MTrk"

	metaStatus  = 0xFF
	sysExStart  = 0xF0
	sysExEscape = 0xF7

	statusBit = 0x80
)

// Names for key numbers modulo 12, sharp spellings, octave dropped.
var keyNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteEvent is one sounding note with its absolute position in the file.
type noteEvent struct {
	tick  uint32
	track int
	order int
	key   byte
}

// readVLQ decodes a variable-length quantity starting at offset. MIDI caps
// VLQs at four bytes.
func readVLQ(data []byte, offset int) (next int, value uint32, err error) {
	for i := 0; i < 4; i++ {
		if offset >= len(data) {
			return offset, value, fmt.Errorf("truncated variable-length quantity")
		}
		b := data[offset]
		value = value<<7 | uint32(b&0x7F)
		offset++
		if b&statusBit == 0 {
			return offset, value, nil
		}
	}
	return offset, value, fmt.Errorf("variable-length quantity exceeds four bytes")
}

// channelDataLen returns the data-byte count for a channel message status.
func channelDataLen(status byte) (int, error) {
	switch status & 0xF0 {
	case 0x80, 0x90, 0xA0, 0xB0, 0xE0:
		return 2, nil
	case 0xC0, 0xD0:
		return 1, nil
	}
	return 0, fmt.Errorf("unknown status byte 0x%02X", status)
}

// parseTrack walks one MTrk body and collects its note-on events.
func parseTrack(data []byte, track int) ([]noteEvent, error) {
	var events []noteEvent
	var tick uint32
	var runningStatus byte
	offset := 0

	for offset < len(data) {
		var delta uint32
		var err error
		offset, delta, err = readVLQ(data, offset)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", track, err)
		}
		tick += delta

		if offset >= len(data) {
			return nil, fmt.Errorf("track %d: truncated event at tick %d", track, tick)
		}

		status := data[offset]
		if status&statusBit != 0 {
			offset++
		} else {
			// Running status: reuse the previous channel status byte.
			if runningStatus == 0 {
				return nil, fmt.Errorf("track %d: data byte 0x%02X with no running status", track, status)
			}
			status = runningStatus
		}

		switch {
		case status == metaStatus:
			if offset >= len(data) {
				return nil, fmt.Errorf("track %d: truncated meta event", track)
			}
			metaType := data[offset]
			offset++
			var length uint32
			offset, length, err = readVLQ(data, offset)
			if err != nil {
				return nil, fmt.Errorf("track %d: meta length: %w", track, err)
			}
			if offset+int(length) > len(data) {
				return nil, fmt.Errorf("track %d: meta event overruns track", track)
			}
			offset += int(length)
			if metaType == 0x2F {
				return events, nil // end of track
			}
			runningStatus = 0

		case status == sysExStart || status == sysExEscape:
			var length uint32
			offset, length, err = readVLQ(data, offset)
			if err != nil {
				return nil, fmt.Errorf("track %d: sysex length: %w", track, err)
			}
			if offset+int(length) > len(data) {
				return nil, fmt.Errorf("track %d: sysex overruns track", track)
			}
			offset += int(length)
			runningStatus = 0

		default:
			n, err := channelDataLen(status)
			if err != nil {
				return nil, fmt.Errorf("track %d at tick %d: %w", track, tick, err)
			}
			if offset+n > len(data) {
				return nil, fmt.Errorf("track %d: truncated channel message", track)
			}
			// Note-on with nonzero velocity is a sounding note; velocity
			// zero is the note-off idiom.
			if status&0xF0 == 0x90 && data[offset+1] > 0 {
				events = append(events, noteEvent{
					tick:  tick,
					track: track,
					order: len(events),
					key:   data[offset],
				})
			}
			offset += n
			runningStatus = status
		}
	}
	return events, nil
}

// dropChords removes every note-on that shares its tick with another
// note-on of the same track. A chord is not a melody note, so none of its
// members may enter the tone row.
func dropChords(events []noteEvent) []noteEvent {
	perTick := make(map[uint32]int, len(events))
	for _, ev := range events {
		perTick[ev.tick]++
	}
	kept := events[:0]
	for _, ev := range events {
		if perTick[ev.tick] == 1 {
			kept = append(kept, ev)
		}
	}
	return kept
}

// ToneRow parses an SMF stream and returns its note names in temporal order,
// octave numbers dropped. Within-track chords are ignored entirely; notes
// from different tracks may share a tick and keep track order, which matches
// flattening the parts of the source material this feeds.
func ToneRow(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < 14 || string(data[0:4]) != headerChunkType {
		return nil, fmt.Errorf("not a standard MIDI file")
	}
	headerLen := binary.BigEndian.Uint32(data[4:8])
	if headerLen < 6 {
		return nil, fmt.Errorf("malformed MThd length %d", headerLen)
	}
	trackCount := binary.BigEndian.Uint16(data[10:12])

	var all []noteEvent
	offset := 8 + int(headerLen)
	track := 0
	for offset+8 <= len(data) && track < int(trackCount) {
		chunkType := string(data[offset : offset+4])
		chunkLen := int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8
		if offset+chunkLen > len(data) {
			return nil, fmt.Errorf("chunk %q overruns file", chunkType)
		}
		if chunkType == trackChunkType {
			events, err := parseTrack(data[offset:offset+chunkLen], track)
			if err != nil {
				return nil, err
			}
			all = append(all, dropChords(events)...)
			track++
		}
		offset += chunkLen
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].tick != all[j].tick {
			return all[i].tick < all[j].tick
		}
		if all[i].track != all[j].track {
			return all[i].track < all[j].track
		}
		return all[i].order < all[j].order
	})

	row := make([]string, len(all))
	for i, ev := range all {
		row[i] = keyNames[ev.key%12]
	}
	return row, nil
}

// ToneRowFile reads path and extracts its tone row.
func ToneRowFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	row, err := ToneRow(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return row, nil
}
