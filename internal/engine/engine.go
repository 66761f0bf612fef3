package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/roach88/remap/internal/compiler"
	"github.com/roach88/remap/internal/expr"
	"github.com/roach88/remap/internal/value"
)

// MaxLineSize is the longest input line Run accepts.
const MaxLineSize = 4 << 20

// Engine evaluates one compiled program record by record.
//
// Thread-safety model:
//   - Process and Run must be called from one goroutine at a time
//   - the Program may be shared with other engines
type Engine struct {
	program         *compiler.Program
	clock           *Clock
	ids             IDGenerator
	logger          *slog.Logger
	dropOnError     bool
	maxDropped      int
	timestampFields [][]string
	schema          []declaredField
}

// declaredField is a path whose kind the program was compiled against.
type declaredField struct {
	path *expr.Path
	kind value.Kind
}

// Option configures an Engine.
type Option func(*Engine)

// WithDropOnError makes failing records log a warning and be skipped
// instead of stopping the run.
func WithDropOnError(drop bool) Option {
	return func(e *Engine) {
		e.dropOnError = drop
	}
}

// WithMaxDropped stops the run once more than n records have been dropped.
// Zero, the default, means no limit.
func WithMaxDropped(n int) Option {
	return func(e *Engine) {
		e.maxDropped = n
	}
}

// WithTimestampFields names fields ("ts" or "request.ts") whose RFC 3339
// string values are converted to timestamps when records are decoded.
func WithTimestampFields(fields ...string) Option {
	return func(e *Engine) {
		for _, f := range fields {
			f = strings.TrimPrefix(strings.TrimSpace(f), ".")
			if f == "" {
				continue
			}
			e.timestampFields = append(e.timestampFields, strings.Split(f, "."))
		}
	}
}

// WithSchema checks every decoded record against the path kinds the
// program was compiled with. Paths declared as timestamp are converted
// from RFC 3339 strings first. A record that does not match is rejected
// as invalid before the program runs, so a program typed infallible
// cannot fail on it.
func WithSchema(schema map[string]value.Kind) Option {
	return func(e *Engine) {
		names := make([]string, 0, len(schema))
		for name := range schema {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			f := strings.TrimPrefix(strings.TrimSpace(name), ".")
			if f == "" {
				continue
			}
			segs := strings.Split(f, ".")
			kind := schema[name]
			if kind == value.KindTimestamp {
				e.timestampFields = append(e.timestampFields, segs)
			}
			e.schema = append(e.schema, declaredField{path: expr.NewPath(segs...), kind: kind})
		}
	}
}

// WithIDGenerator replaces the UUIDv7 record id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithClock replaces the sequence clock, e.g. to continue numbering.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine for program.
func New(program *compiler.Program, opts ...Option) *Engine {
	e := &Engine{
		program: program,
		clock:   NewClock(),
		ids:     UUIDv7Generator{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Output is the result of one record.
type Output struct {
	ID    string
	Seq   int64
	Value value.Value
}

// MarshalCanonical renders o as the canonical JSON object
// {"id":...,"seq":...,"value":...}.
func (o Output) MarshalCanonical() ([]byte, error) {
	return value.MarshalCanonical(map[string]any{
		"id":    o.ID,
		"seq":   o.Seq,
		"value": o.Value,
	})
}

// Stats summarizes a Run.
type Stats struct {
	Records int // non-blank input lines
	Emitted int // output lines written
	Dropped int // records skipped under WithDropOnError
}

// Process evaluates the program against record. Every call, failed or
// not, consumes one sequence number and one id.
func (e *Engine) Process(record value.Object) (Output, error) {
	out := Output{Seq: e.clock.Next(), ID: e.ids.Generate()}

	v, err := e.program.Resolve(expr.NewContext(record))
	if err != nil {
		return out, newRecordError(out.ID, err)
	}
	out.Value = v

	e.logger.Debug("record processed",
		"record_id", out.ID,
		"seq", out.Seq,
	)
	return out, nil
}

// Run processes newline-delimited JSON objects from r and writes one
// canonical JSON line per result to w. Blank lines are skipped.
//
// Cancellation is checked between records. On cancellation Run returns
// the stats so far and ctx.Err().
func (e *Engine) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	quota := &dropQuota{max: e.maxDropped}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	bw := bufio.NewWriter(w)

	e.logger.Info("engine starting", "drop_on_error", e.dropOnError)

	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			e.logger.Info("engine stopping: context cancelled")
			return stats, flushAnd(bw, err)
		}

		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		stats.Records++

		out, err := e.processLine(raw, line)
		if err != nil {
			if !e.dropOnError {
				e.logger.Error("record failed", "line", line, "error", err)
				return stats, flushAnd(bw, err)
			}
			stats.Dropped++
			e.logger.Warn("record dropped", "line", line, "error", err)
			if qerr := quota.Check(line); qerr != nil {
				e.logger.Error("drop quota exceeded", "dropped", stats.Dropped, "limit", e.maxDropped)
				return stats, flushAnd(bw, qerr)
			}
			continue
		}

		data, err := out.MarshalCanonical()
		if err != nil {
			return stats, flushAnd(bw, fmt.Errorf("encode record %s: %w", out.ID, err))
		}
		data = append(data, '\n')
		if _, err := bw.Write(data); err != nil {
			return stats, fmt.Errorf("write output: %w", err)
		}
		stats.Emitted++
	}
	if err := sc.Err(); err != nil {
		return stats, flushAnd(bw, fmt.Errorf("read input: %w", err))
	}

	e.logger.Info("engine stopped",
		"records", stats.Records,
		"emitted", stats.Emitted,
		"dropped", stats.Dropped,
	)
	return stats, flushAnd(bw, nil)
}

func (e *Engine) processLine(raw []byte, line int) (Output, error) {
	record, err := e.decode(raw)
	if err != nil {
		return Output{}, newInvalidRecordError(line, err)
	}
	out, err := e.Process(record)
	if err != nil {
		if re, ok := err.(*RuntimeError); ok {
			re.Line = line
		}
		return out, err
	}
	return out, nil
}

// decode parses one JSON object, applies the timestamp fields and checks
// the declared schema.
func (e *Engine) decode(raw []byte) (value.Object, error) {
	record, err := value.UnmarshalObject(raw)
	if err != nil {
		return nil, err
	}
	for _, path := range e.timestampFields {
		if err := convertTimestamp(record, path); err != nil {
			return nil, err
		}
	}
	if len(e.schema) > 0 {
		ctx := expr.NewContext(record)
		for _, d := range e.schema {
			v, _ := d.path.Resolve(ctx)
			if got := value.KindOf(v); !d.kind.Contains(got) {
				return nil, fmt.Errorf("field %q: declared %s, got %s", d.path.String(), d.kind, got)
			}
		}
	}
	return record, nil
}

// convertTimestamp replaces the string at path with the timestamp it
// names. Absent fields and non-string values are left alone.
func convertTimestamp(obj value.Object, path []string) error {
	for _, seg := range path[:len(path)-1] {
		next, ok := obj[seg].(value.Object)
		if !ok {
			return nil
		}
		obj = next
	}
	last := path[len(path)-1]
	s, ok := obj[last].(value.Bytes)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, string(s))
	if err != nil {
		return fmt.Errorf("field %q: invalid RFC 3339 timestamp %q", strings.Join(path, "."), string(s))
	}
	obj[last] = value.NewTimestamp(t)
	return nil
}

// flushAnd flushes bw and returns err, or the flush error if err is nil.
func flushAnd(bw *bufio.Writer, err error) error {
	if ferr := bw.Flush(); ferr != nil && err == nil {
		return fmt.Errorf("write output: %w", ferr)
	}
	return err
}
