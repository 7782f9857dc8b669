// Package script decodes YAML replay scripts and runs them against a debug
// context. A script is an ordered list of steps, each one an entry-point
// call (insert, control, push, pop, fetch, callback, enable, query).
package script

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/abyssdigger/dbgout"
	"gopkg.in/yaml.v3"
)

// Step operations
const (
	OpInsert   = "insert"
	OpControl  = "control"
	OpPush     = "push"
	OpPop      = "pop"
	OpFetch    = "fetch"
	OpCallback = "callback"
	OpEnable   = "enable"
	OpSync     = "sync"
	OpQuery    = "query"
)

var ErrUnknownOp = errors.New("unknown step op")

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one call. Fields not used by an op are ignored.
type Step struct {
	Op       string   `yaml:"op"`
	Source   string   `yaml:"source,omitempty"`
	Type     string   `yaml:"type,omitempty"`
	Severity string   `yaml:"severity,omitempty"`
	ID       uint32   `yaml:"id,omitempty"`
	IDs      []uint32 `yaml:"ids,omitempty"`
	Text     string   `yaml:"text,omitempty"`
	Length   *int     `yaml:"length,omitempty"`  // default: whole text
	Enabled  *bool    `yaml:"enabled,omitempty"` // control/callback/enable/sync, default true
	Count    int      `yaml:"count,omitempty"`   // fetch: 0 drains everything
	Size     *int     `yaml:"size,omitempty"`    // fetch: buffer size, default unlimited
	Param    string   `yaml:"param,omitempty"`

	// Error code the step is expected to record, e.g. INVALID_ENUM.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Decode reads a script, rejecting unknown fields.
func Decode(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &s, nil
}

// Load decodes the script at path in fsys.
func Load(fsys fs.FS, path string) (*Script, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the script back as YAML.
func Encode(w io.Writer, s *Script) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// FormatMessage renders a message as "[SEVERITY] source/type #id: text".
func FormatMessage(source dbgout.Source, msgType dbgout.MsgType, id uint32, severity dbgout.Severity, text string) string {
	return fmt.Sprintf("[%s] %v/%v #%d: %s", strings.ToUpper(severity.String()), source, msgType, id, text)
}

func parseErrorCode(name string) (dbgout.ErrorCode, error) {
	for i, n := range dbgout.ErrorCodeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return dbgout.ErrorCode(i), nil
		}
	}
	return dbgout.NO_ERROR, fmt.Errorf("%w: %q", dbgout.ErrUnknownName, name)
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func intOr(i *int, def int) int {
	if i == nil {
		return def
	}
	return *i
}
