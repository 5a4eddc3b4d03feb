package discovery

import (
	"fmt"
	"strings"
)

// TargetProfile describes the company investors are being qualified
// against. It feeds both the discovery prompt and the scoring rubric.
type TargetProfile struct {
	Company     string   `yaml:"company" mapstructure:"company"`
	Description string   `yaml:"description" mapstructure:"description"`
	Sectors     []string `yaml:"sectors" mapstructure:"sectors"`
	Stage       string   `yaml:"stage" mapstructure:"stage"`
	RaiseRange  string   `yaml:"raise_range" mapstructure:"raise_range"`
	Regions     []string `yaml:"regions" mapstructure:"regions"`
	Vertical    string   `yaml:"vertical" mapstructure:"vertical"`
}

// DefaultTargetProfile returns the baseline profile used when the config
// does not override it.
func DefaultTargetProfile() TargetProfile {
	return TargetProfile{
		Company:     "the company",
		Description: "an early-stage technology company digitizing industrial supply chains",
		Sectors:     []string{"AI", "SaaS", "manufacturing", "supply chain", "deep tech"},
		Stage:       "pre-seed/seed",
		RaiseRange:  "$250K-$2M",
		Regions:     []string{"emerging markets", "Southeast Asia", "Middle East", "Africa"},
		Vertical:    "industrial supply chain software",
	}
}

// withDefaults fills empty fields from DefaultTargetProfile.
func (t TargetProfile) withDefaults() TargetProfile {
	def := DefaultTargetProfile()
	if t.Company == "" {
		t.Company = def.Company
	}
	if t.Description == "" {
		t.Description = def.Description
	}
	if len(t.Sectors) == 0 {
		t.Sectors = def.Sectors
	}
	if t.Stage == "" {
		t.Stage = def.Stage
	}
	if t.RaiseRange == "" {
		t.RaiseRange = def.RaiseRange
	}
	if len(t.Regions) == 0 {
		t.Regions = def.Regions
	}
	if t.Vertical == "" {
		t.Vertical = def.Vertical
	}
	return t
}

// Summary renders the profile as a prompt block.
func (t TargetProfile) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s — %s\n", t.Company, t.Description)
	fmt.Fprintf(&b, "Stage: %s, raising %s\n", t.Stage, t.RaiseRange)
	fmt.Fprintf(&b, "Sectors: %s\n", strings.Join(t.Sectors, ", "))
	fmt.Fprintf(&b, "Markets: %s\n", strings.Join(t.Regions, ", "))
	fmt.Fprintf(&b, "Vertical: %s", t.Vertical)
	return b.String()
}
