package telemetry

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel/log"
)

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"string", String("k", "v"), "k", "v"},
		{"int", Int("count", 42), "count", 42},
		{"int64", Int64("big", int64(1<<40)), "big", int64(1 << 40)},
		{"float64", Float64("ratio", 0.5), "ratio", 0.5},
		{"bool", Bool("enabled", true), "enabled", true},
		{"any", Any("anything", []int{1}), "anything", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("got key %q, want %q", tt.field.Key, tt.key)
			}
			if tt.value != nil && tt.field.Value != tt.value {
				t.Errorf("got value %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestErrField(t *testing.T) {
	err := errors.New("broken")
	field := Err(err)

	if field.Key != "error" {
		t.Errorf("got key %q, want %q", field.Key, "error")
	}
	if field.Value != err {
		t.Errorf("got value %v, want the original error", field.Value)
	}
}

func TestFieldToLogKeyValue(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  log.Value
	}{
		{"string", String("k", "v"), log.StringValue("v")},
		{"int", Int("k", 7), log.IntValue(7)},
		{"bool", Bool("k", false), log.BoolValue(false)},
		{"error renders its message", Err(errors.New("broken")), log.StringValue("broken")},
		{"unknown type falls back to fmt", Any("k", []string{"a", "b"}), log.StringValue("[a b]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := fieldToLogKeyValue(tt.field)
			if !kv.Value.Equal(tt.want) {
				t.Errorf("got %v, want %v", kv.Value, tt.want)
			}
		})
	}
}

func TestFieldsToLogKeyValuesEmpty(t *testing.T) {
	if got := fieldsToLogKeyValues(nil); got != nil {
		t.Errorf("got %v, want nil for empty input", got)
	}
}
