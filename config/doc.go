// Package config holds the initialization-time configuration for entities,
// coils and the derivation service.
//
// Every type follows the same layering: a DefaultX constructor, a Merge method
// that copies non-zero values from a loaded source over the defaults, and a
// Validate method run at the point of use. Configuration only lives until the
// domain object is built; coils and entities never hold on to it.
//
//	cfg := config.DefaultCoilConfig()
//	var loaded config.CoilConfig
//	json.Unmarshal(data, &loaded)
//	cfg.Merge(&loaded)
//	c, err := coil.New(cfg)
//
// # Bounded Scalars
//
// Consciousness and field resonance live in [0,1] and 0 is a legitimate
// value, so "merge if non-zero" would lose an explicit 0. Those fields are
// *float64 with a Nil suffix (ConsciousnessNil) and an accessor named after
// the field (Consciousness) that falls back to the default when unset:
//
//	{"turns": 6}                      // Consciousness() == 0.5
//	{"turns": 6, "consciousness": 0}  // Consciousness() == 0
//
// # Files
//
// LoadConfig reads JSON, or YAML when the file ends in .yaml or .yml.
package config
