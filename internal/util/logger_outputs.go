package util

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

const textTimestamp = "2006/01/02 15:04:05"

// renderEntry formats an entry as a single line.
func renderEntry(entry LogEntry, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %s", entry.Timestamp.Format(textTimestamp), entry.Level, entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Fields[k])
	}
	return sb.String(), nil
}

// lineOutput renders entries one per line onto a writer.
type lineOutput struct {
	mu     sync.Mutex
	w      io.Writer
	format LogFormat
	closer io.Closer
}

func (o *lineOutput) Write(entry LogEntry) error {
	line, err := renderEntry(entry, o.format)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	_, err = io.WriteString(o.w, line+"\n")
	return err
}

func (o *lineOutput) Close() error {
	if o.closer == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closer.Close()
}

// NewConsoleOutput writes to a stream such as stderr. Closing it leaves the stream open.
func NewConsoleOutput(writer io.Writer, format LogFormat) Output {
	return &lineOutput{w: writer, format: format}
}

// NewFileOutput appends to the file at path, creating it if needed.
func NewFileOutput(path string, format LogFormat) (Output, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &lineOutput{w: file, format: format, closer: file}, nil
}
