package engine

import "strings"

// DefaultDestinationTable is the system table entries land in when the
// deployment does not redirect them.
const DefaultDestinationTable = "system_audit_log"

// ColumnRef names one (table, column) pair in the platform's storage
// vocabulary.
type ColumnRef struct {
	Table  string `yaml:"table" json:"table"`
	Column string `yaml:"column" json:"column"`
}

// Config is the deployment-supplied audit policy. It is injected at
// recorder construction and read-only for the recorder's lifetime; the
// engine never reads the process environment at call time.
type Config struct {
	// EmitMessages controls whether entries carry the templated
	// human-readable sentence.
	EmitMessages bool `yaml:"emit_messages" envconfig:"AUDIT_EMIT_MESSAGES"`

	// ExcludedColumns are skipped before formatting is even attempted,
	// so an excluded column may carry a kind the formatter does not
	// support without causing a failure.
	ExcludedColumns []ColumnRef `yaml:"excluded_columns"`

	// DestinationTable overrides where the Postgres sink appends.
	DestinationTable string `yaml:"destination_table" envconfig:"AUDIT_DESTINATION_TABLE"`

	// MultiValueDelimiter joins the displays of multi-valued lookup
	// fields.
	MultiValueDelimiter string `yaml:"multi_value_delimiter" envconfig:"AUDIT_MULTI_VALUE_DELIMITER"`
}

// DefaultConfig is the policy used when a deployment supplies nothing.
func DefaultConfig() Config {
	return Config{
		EmitMessages:        true,
		DestinationTable:    DefaultDestinationTable,
		MultiValueDelimiter: ", ",
	}
}

// Excluded reports whether a (table, column) pair is suppressed by
// policy. Matching is case-insensitive to tolerate hand-edited config.
func (c Config) Excluded(table, column string) bool {
	for _, ref := range c.ExcludedColumns {
		if strings.EqualFold(ref.Table, table) && strings.EqualFold(ref.Column, column) {
			return true
		}
	}
	return false
}
