package config

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Encode prints the effective configuration: the state block with every
// setting resolved, followed by the controls as written.
func Encode(cfg *Config) []byte {
	file := hclwrite.NewEmptyFile()
	body := file.Body()

	p := cfg.Params()
	sb := body.AppendNewBlock("state", nil).Body()
	sb.SetAttributeValue("log_capacity", cty.NumberIntVal(int64(p.LogCapacity)))
	sb.SetAttributeValue("max_group_depth", cty.NumberIntVal(int64(p.GroupSlots)))
	sb.SetAttributeValue("debug_output", cty.BoolVal(p.DebugOutput))
	sb.SetAttributeValue("sync_output", cty.BoolVal(p.SyncOutput))
	sb.SetAttributeValue("diagnostics", cty.BoolVal(p.Diagnostics))
	sb.SetAttributeValue("text_budget", cty.NumberIntVal(int64(p.TextBudget)))
	sb.SetAttributeValue("override_budget", cty.NumberIntVal(int64(p.OverrideBudget)))

	for _, ctl := range cfg.Controls {
		body.AppendNewline()
		b := body.AppendNewBlock("control", []string{ctl.Name}).Body()
		b.SetAttributeValue("source", cty.StringVal(nameOr(ctl.Source)))
		b.SetAttributeValue("type", cty.StringVal(nameOr(ctl.Type)))
		b.SetAttributeValue("severity", cty.StringVal(nameOr(ctl.Severity)))
		if len(ctl.IDs) > 0 {
			vals := make([]cty.Value, len(ctl.IDs))
			for i, id := range ctl.IDs {
				vals[i] = cty.NumberIntVal(int64(id))
			}
			b.SetAttributeValue("ids", cty.ListVal(vals))
		}
		b.SetAttributeValue("enabled", cty.BoolVal(ctl.Enabled))
	}
	return file.Bytes()
}

// Default returns a config holding only the library defaults.
func Default() *Config {
	return &Config{State: &StateBlock{}}
}
