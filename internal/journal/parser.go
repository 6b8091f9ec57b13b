package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/j-veylop/journal-runstats/internal/models"
)

// TimestampLayout is the only accepted timestamp form: UTC, second precision.
const TimestampLayout = "2006-01-02T15:04:05Z"

var (
	// ErrMalformedRecord means the line is not a JSON object.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidTimestamp means the timestamp does not match TimestampLayout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrMissingTimestamp means the record has no timestamp. Callers skip
	// such lines without reporting them.
	ErrMissingTimestamp = errors.New("missing timestamp")
)

// ParseError ties a line-level failure to its source.
type ParseError struct {
	File string
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrMalformedRecord) {
		return fmt.Sprintf("failed to parse JSON in file %s: %s", e.File, e.Line)
	}
	return fmt.Sprintf("timestamp parsing failed in file %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Record keys are matched exactly. encoding/json struct decoding folds case,
// so records are decoded as raw objects instead.
const (
	keyTimestamp = "timestamp"
	keyEvent     = "event"
	keyStation   = "StationName"
)

// Parser classifies journal records by their event tag.
type Parser struct {
	DepartureTag string
	ArrivalTag   string
}

// NewParser creates a parser for the given departure and arrival tags.
func NewParser(departureTag, arrivalTag string) *Parser {
	return &Parser{DepartureTag: departureTag, ArrivalTag: arrivalTag}
}

// Parse decodes one line from file. Every failure is a *ParseError wrapping
// ErrMalformedRecord, ErrMissingTimestamp or ErrInvalidTimestamp.
func (p *Parser) Parse(file, line string) (models.Event, error) {
	var rec map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return models.Event{}, &ParseError{File: file, Line: strings.TrimSpace(line), Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
	}
	if rec == nil {
		return models.Event{}, &ParseError{File: file, Line: strings.TrimSpace(line), Err: fmt.Errorf("%w: not an object", ErrMalformedRecord)}
	}

	raw, ok := rec[keyTimestamp]
	if !ok || isEmptyValue(raw) {
		return models.Event{}, &ParseError{File: file, Line: strings.TrimSpace(line), Err: ErrMissingTimestamp}
	}
	var timestamp string
	if err := json.Unmarshal(raw, &timestamp); err != nil {
		return models.Event{}, &ParseError{File: file, Line: strings.TrimSpace(line), Err: fmt.Errorf("%w: %s is not a string", ErrInvalidTimestamp, raw)}
	}

	ts, err := ParseTimestamp(timestamp)
	if err != nil {
		return models.Event{}, &ParseError{File: file, Line: strings.TrimSpace(line), Err: err}
	}

	tag, _ := stringField(rec, keyEvent)
	station, _ := stringField(rec, keyStation)

	return models.Event{
		Timestamp: ts,
		Tag:       tag,
		Location:  station,
		Kind:      p.classify(tag),
	}, nil
}

// stringField returns rec[key] when it holds a JSON string.
func stringField(rec map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := rec[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// isEmptyValue reports whether raw is a falsy JSON value, which counts as a
// missing timestamp.
func isEmptyValue(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
