// Package config defines the format-agnostic project configuration model.
// Loader implementations (HCL, YAML) and the interactive answers path all
// translate into the same Project value, so every downstream stage sees one
// representation regardless of where the configuration came from.
package config
