package schema

import (
	"slices"
)

// ReservedKeywords may not be used as option ids.
var ReservedKeywords = []string{
	"old", "app", "changed", "file_hash", "binds", "types", "formats",
	"getter", "setter", "short_setting", "type", "bind", "nothing_changed",
	"changes_validated", "result", "max_progression", "properties", "defaults",
}

// Build validates a schema assembled in code and fills level defaults
// (panel name and actions, section services). Load runs the same checks.
func Build(version, i18n string, panels ...*Panel) (*Schema, error) {
	s := &Schema{Version: version, I18n: i18n, Panels: panels}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schema) validate() error {
	if s.Version != Version {
		return errorf("", "unsupported version %q: must be %q", s.Version, Version)
	}
	if len(s.Panels) == 0 {
		return errorf("", "no panels defined")
	}

	seenPanels := make(map[string]bool, len(s.Panels))
	for _, p := range s.Panels {
		if seenPanels[p.ID] {
			return errorf(p.ID, "duplicate panel id")
		}
		seenPanels[p.ID] = true
		if err := validatePanel(p); err != nil {
			return err
		}
	}
	return nil
}

func validatePanel(p *Panel) error {
	if err := validateID(p.ID, p.ID); err != nil {
		return err
	}
	if len(p.Name) == 0 {
		p.Name = English(capitalize(p.ID))
	}
	if p.Actions == nil {
		p.Actions = []Action{{ID: "apply", Label: English("Apply")}}
	}
	if p.Services == nil {
		p.Services = []string{}
	}
	if len(p.Sections) == 0 {
		return errorf(p.ID, "panel has no sections")
	}

	seen := make(map[string]bool, len(p.Sections))
	for _, sec := range p.Sections {
		key := p.ID + "." + sec.ID
		if seen[sec.ID] {
			return errorf(key, "duplicate section id")
		}
		seen[sec.ID] = true
		if err := validateSection(key, sec); err != nil {
			return err
		}
	}
	return nil
}

func validateSection(key string, sec *Section) error {
	if err := validateID(key, sec.ID); err != nil {
		return err
	}
	if sec.Services == nil {
		sec.Services = []string{}
	}
	if len(sec.Options) == 0 {
		return errorf(key, "section has no options")
	}

	seen := make(map[string]bool, len(sec.Options))
	for _, o := range sec.Options {
		optKey := key + "." + o.ID
		if seen[o.ID] {
			return errorf(optKey, "duplicate option id")
		}
		seen[o.ID] = true
		if err := validateOption(optKey, o); err != nil {
			return err
		}
	}
	return nil
}

func validateOption(key string, o *Option) error {
	if err := validateID(key, o.ID); err != nil {
		return err
	}
	if slices.Contains(ReservedKeywords, o.ID) {
		return errorf(key, "option id %q is a reserved keyword", o.ID)
	}
	if o.Type == "" {
		return errorf(key, "missing option type")
	}
	if o.Default != nil {
		if err := o.Rules().Validate(o.Default); err != nil {
			return &Error{Setting: key, Message: "invalid default", Err: err}
		}
	}
	return nil
}

func validateID(key, id string) error {
	if id == "" {
		return errorf(key, "empty id")
	}
	for _, r := range id {
		if r == '.' {
			return errorf(key, "id %q must not contain dots", id)
		}
	}
	return nil
}
