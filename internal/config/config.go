// Package config loads the HCL configuration used by the dbgout command:
// the debug state settings and an ordered list of filter controls.
package config

import (
	"fmt"
	"io/fs"
	"math"

	"github.com/abyssdigger/dbgout"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Load reads and decodes a single config file from fsys.
func Load(fsys fs.FS, path string) (*Config, error) {
	fileBytes, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return Parse(fileBytes, path)
}

// Parse decodes config source; filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse error: %s", diags.Error())
	}
	var cfg Config
	decodeDiags := gohcl.DecodeBody(file.Body, nil, &cfg)
	if decodeDiags.HasErrors() {
		return nil, fmt.Errorf("decode error: %s", decodeDiags.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks names and ids of every control without applying them.
func (c *Config) Validate() error {
	for i := range c.Controls {
		if _, err := c.Controls[i].resolve(); err != nil {
			return err
		}
	}
	return nil
}

// Params merges the state block over the library defaults.
func (c *Config) Params() dbgout.Params {
	p := dbgout.DefaultParams()
	sb := c.State
	if sb == nil {
		return p
	}
	setIf(&p.LogCapacity, sb.LogCapacity)
	setIf(&p.GroupSlots, sb.MaxGroupDepth)
	setIf(&p.TextBudget, sb.TextBudget)
	setIf(&p.OverrideBudget, sb.OverrideBudget)
	setIf(&p.DebugOutput, sb.DebugOutput)
	setIf(&p.SyncOutput, sb.SyncOutput)
	setIf(&p.Diagnostics, sb.Diagnostics)
	return p
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Apply runs every control against ctx in file order and stops at the
// first rejected one.
func (c *Config) Apply(ctx *dbgout.Context) error {
	for i := range c.Controls {
		rc, err := c.Controls[i].resolve()
		if err != nil {
			return err
		}
		if err := ctx.DebugMessageControl(rc.source, rc.msgType, rc.severity, rc.ids, rc.enabled); err != nil {
			return fmt.Errorf("control %q: %w", c.Controls[i].Name, err)
		}
	}
	return nil
}

// NewContext builds a context from the config and applies its controls.
func (c *Config) NewContext(fallback dbgout.OutType) (*dbgout.Context, error) {
	ctx := dbgout.NewContextWithParams(c.Params(), fallback)
	if err := c.Apply(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

type resolvedControl struct {
	source   dbgout.Source
	msgType  dbgout.MsgType
	severity dbgout.Severity
	ids      []uint32
	enabled  bool
}

func (ctl *Control) resolve() (rc resolvedControl, err error) {
	if rc.source, err = dbgout.ParseSource(nameOr(ctl.Source)); err != nil {
		return rc, fmt.Errorf("control %q: source: %w", ctl.Name, err)
	}
	if rc.msgType, err = dbgout.ParseType(nameOr(ctl.Type)); err != nil {
		return rc, fmt.Errorf("control %q: type: %w", ctl.Name, err)
	}
	if rc.severity, err = dbgout.ParseSeverity(nameOr(ctl.Severity)); err != nil {
		return rc, fmt.Errorf("control %q: severity: %w", ctl.Name, err)
	}
	for _, id := range ctl.IDs {
		if id < 0 || int64(id) > math.MaxUint32 {
			return rc, fmt.Errorf("control %q: id %d out of range", ctl.Name, id)
		}
		rc.ids = append(rc.ids, uint32(id))
	}
	rc.enabled = ctl.Enabled
	return rc, nil
}

func nameOr(s *string) string {
	if s == nil {
		return dbgout.DONT_CARE_NAME
	}
	return *s
}
