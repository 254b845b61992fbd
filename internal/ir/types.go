package ir

import json "github.com/goccy/go-json"

// Interface is the compiled form of one Stinger interface.
type Interface struct {
	IRVersion string   `json:"ir_version"`
	Format    string   `json:"format"`
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	InfoTopic string   `json:"info_topic"`
	Signals   []Signal `json:"signals"`
	SpecHash  string   `json:"spec_hash,omitempty"`
}

// Signal is one compiled signal.
type Signal struct {
	Name        string          `json:"name"`
	Topic       string          `json:"topic"`
	PayloadType string          `json:"payload_type"` // "arg_list" or "json_schema"
	Args        []Arg           `json:"args,omitempty"`
	Schema      json.RawMessage `json:"schema,omitempty"`
}

// Arg is one compiled signal argument.
type Arg struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Signal returns the signal called name.
func (i *Interface) Signal(name string) (Signal, bool) {
	for _, s := range i.Signals {
		if s.Name == name {
			return s, true
		}
	}
	return Signal{}, false
}
