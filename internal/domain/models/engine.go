package models

// JSONMap is a type alias for JSONB columns and pass-through payloads.
type JSONMap map[string]interface{}

// EngineStatus is the process-wide snapshot the UI polls. The automation
// engine owns its lifecycle; this core only defines the read/toggle contract.
type EngineStatus struct {
	Paused   bool           `json:"paused"`
	Counters map[string]int `json:"counters,omitempty"`
}

// Settings is an opaque configuration object passed through between the UI
// and the engine. Recognized keys (the core attaches no behavior to them):
//
//	debounce_ms              watcher debounce interval
//	max_concurrent           max concurrent rule executions
//	ignore_patterns          glob patterns excluded from scanning
//	log_retention_days       ledger retention horizon
//	date_format, time_format formatting tokens for rename placeholders
//	contents_max_bytes       content-extraction read limit
//	dry_run                  evaluate without executing
//	allow_permanent_delete   safety toggle for deletePermanently
type Settings struct {
	Values JSONMap `json:"values"`
}

// Merge overlays other on top of the receiver, returning the result without
// mutating either. Keys set to nil in other are removed.
func (s Settings) Merge(other JSONMap) Settings {
	merged := make(JSONMap, len(s.Values)+len(other))
	for k, v := range s.Values {
		merged[k] = v
	}
	for k, v := range other {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	return Settings{Values: merged}
}
