package config

// Config is the decoded form of a dbgout.hcl file.
type Config struct {
	State    *StateBlock `hcl:"state,block"`
	Controls []Control   `hcl:"control,block"`
}

// StateBlock holds the debug state settings. Unset attributes keep the
// library defaults.
type StateBlock struct {
	LogCapacity    *int  `hcl:"log_capacity,optional"`
	MaxGroupDepth  *int  `hcl:"max_group_depth,optional"`
	DebugOutput    *bool `hcl:"debug_output,optional"`
	SyncOutput     *bool `hcl:"sync_output,optional"`
	Diagnostics    *bool `hcl:"diagnostics,optional"`
	TextBudget     *int  `hcl:"text_budget,optional"`
	OverrideBudget *int  `hcl:"override_budget,optional"`
}

// Control is one filter rule applied, in file order, after the context is
// created.
type Control struct {
	Name     string  `hcl:"name,label"`
	Source   *string `hcl:"source,optional"`   // default "dont_care"
	Type     *string `hcl:"type,optional"`     // default "dont_care"
	Severity *string `hcl:"severity,optional"` // default "dont_care"
	IDs      []int   `hcl:"ids,optional"`
	Enabled  bool    `hcl:"enabled"`
}
