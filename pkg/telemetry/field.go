package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log"
)

// Field represents a key-value pair for structured logging and span
// attributes.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field.
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field under the "error" key.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any creates a field with any value type.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// fieldToLogKeyValue converts a Field to a log record attribute.
func fieldToLogKeyValue(field Field) log.KeyValue {
	switch v := field.Value.(type) {
	case string:
		return log.String(field.Key, v)
	case int:
		return log.Int(field.Key, v)
	case int64:
		return log.Int64(field.Key, v)
	case float64:
		return log.Float64(field.Key, v)
	case bool:
		return log.Bool(field.Key, v)
	case error:
		return log.String(field.Key, v.Error())
	default:
		return log.String(field.Key, fmt.Sprintf("%v", v))
	}
}

func fieldsToLogKeyValues(fields []Field) []log.KeyValue {
	if len(fields) == 0 {
		return nil
	}

	kvs := make([]log.KeyValue, len(fields))
	for i, field := range fields {
		kvs[i] = fieldToLogKeyValue(field)
	}
	return kvs
}

// fieldToAttribute converts a Field to a span attribute.
func fieldToAttribute(field Field) attribute.KeyValue {
	switch v := field.Value.(type) {
	case string:
		return attribute.String(field.Key, v)
	case int:
		return attribute.Int(field.Key, v)
	case int64:
		return attribute.Int64(field.Key, v)
	case float64:
		return attribute.Float64(field.Key, v)
	case bool:
		return attribute.Bool(field.Key, v)
	case error:
		return attribute.String(field.Key, v.Error())
	default:
		return attribute.String(field.Key, fmt.Sprintf("%v", v))
	}
}

func fieldsToAttributes(fields []Field) []attribute.KeyValue {
	if len(fields) == 0 {
		return nil
	}

	attrs := make([]attribute.KeyValue, len(fields))
	for i, field := range fields {
		attrs[i] = fieldToAttribute(field)
	}
	return attrs
}
