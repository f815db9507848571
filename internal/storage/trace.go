package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pstuifzand/renderwatch/internal/model"
)

// TraceReader reads invocations from a JSON Lines stream. Blank lines and
// lines starting with '#' are skipped.
type TraceReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewTraceReader creates a reader over r
func NewTraceReader(r io.Reader) *TraceReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &TraceReader{scanner: scanner}
}

// Next returns the next invocation, or io.EOF at the end of the stream
func (r *TraceReader) Next() (model.Invocation, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var inv model.Invocation
		if err := json.Unmarshal([]byte(text), &inv); err != nil {
			return model.Invocation{}, fmt.Errorf("line %d: failed to parse invocation: %w", r.line, err)
		}
		if inv.Instance == "" {
			return model.Invocation{}, fmt.Errorf("line %d: missing instance", r.line)
		}
		inv.Observed = model.NewRecord(inv.Observed.Props, inv.Observed.State)
		return inv, nil
	}
	if err := r.scanner.Err(); err != nil {
		return model.Invocation{}, fmt.Errorf("failed to read trace: %w", err)
	}
	return model.Invocation{}, io.EOF
}

// TraceWriter writes invocations as JSON Lines
type TraceWriter struct {
	w   io.Writer
	enc *json.Encoder
}

// NewTraceWriter creates a writer over w
func NewTraceWriter(w io.Writer) *TraceWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &TraceWriter{w: w, enc: enc}
}

// Write appends one invocation
func (w *TraceWriter) Write(inv model.Invocation) error {
	if err := w.enc.Encode(inv); err != nil {
		return fmt.Errorf("failed to write invocation: %w", err)
	}
	return nil
}

// TraceFile reads and writes a whole trace on disk
type TraceFile struct {
	FilePath string
}

// NewTraceFile creates a trace file handle for the given path
func NewTraceFile(filePath string) *TraceFile {
	return &TraceFile{FilePath: filePath}
}

// Load reads every invocation in the file
func (f *TraceFile) Load() ([]model.Invocation, error) {
	file, err := os.Open(f.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer file.Close()

	var invocations []model.Invocation
	reader := NewTraceReader(file)
	for {
		inv, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return invocations, nil
		}
		if err != nil {
			return nil, err
		}
		invocations = append(invocations, inv)
	}
}

// Save writes the invocations, replacing the file
func (f *TraceFile) Save(invocations []model.Invocation) error {
	dir := filepath.Dir(f.FilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(f.FilePath)
	if err != nil {
		return fmt.Errorf("failed to create trace: %w", err)
	}

	writer := NewTraceWriter(file)
	for _, inv := range invocations {
		if err := writer.Write(inv); err != nil {
			file.Close()
			return err
		}
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	return nil
}

// FileExists checks if the trace file exists
func (f *TraceFile) FileExists() bool {
	_, err := os.Stat(f.FilePath)
	return err == nil
}
