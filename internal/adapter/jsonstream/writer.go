// Package jsonstream relays exploit events to a terminal or a pipe and saves
// results as JSON files.
package jsonstream

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bytemomo/harpoon/internal/domain"
)

// EventWriter prints one line per event: a JSON record when JSON is set,
// the bare message otherwise.
type EventWriter struct {
	out  io.Writer
	enc  *json.Encoder
	JSON bool
}

func NewEventWriter(out io.Writer, jsonLines bool) *EventWriter {
	return &EventWriter{out: out, enc: json.NewEncoder(out), JSON: jsonLines}
}

func (w *EventWriter) Write(ev domain.Event) error {
	if w.JSON {
		return w.enc.Encode(ev)
	}
	_, err := fmt.Fprintln(w.out, ev.Message)
	return err
}

// Relay writes every event until the channel closes and returns the number
// written. It keeps draining after a write error so the producer is never
// left blocked.
func (w *EventWriter) Relay(events <-chan domain.Event) (int, error) {
	var (
		n        int
		firstErr error
	)
	for ev := range events {
		if firstErr != nil {
			continue
		}
		if err := w.Write(ev); err != nil {
			firstErr = err
			continue
		}
		n++
	}
	return n, firstErr
}

// WriteResult prints v as indented JSON.
func WriteResult(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Writer saves results under OutDir, one file per scan or session.
type Writer struct {
	OutDir string // e.g., ./output
}

func New(out string) *Writer { return &Writer{OutDir: out} }

func (w *Writer) SaveSeek(res domain.SeekResult) (string, error) {
	return w.save("seeks", res.ScanID, res)
}

func (w *Writer) SaveEnter(res domain.EnterResult) (string, error) {
	return w.save("sessions", res.SessionID, res)
}

// LoadSeek reads a seek result written by SaveSeek.
func LoadSeek(path string) (domain.SeekResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SeekResult{}, fmt.Errorf("read seek result: %w", err)
	}
	var res domain.SeekResult
	if err := json.Unmarshal(data, &res); err != nil {
		return domain.SeekResult{}, fmt.Errorf("parse seek result %s: %w", path, err)
	}
	if res.ScanID == "" {
		return domain.SeekResult{}, fmt.Errorf("seek result %s has no scan_id", path)
	}
	return res, nil
}

func (w *Writer) save(kind, id string, v any) (string, error) {
	dir := filepath.Join(w.OutDir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, id+".json")
	return path, writeJSON(path, v)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteResult(f, v)
}
