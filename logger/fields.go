package logger

import "time"

// Standard field keys.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"

	FieldTopic     = "topic"
	FieldPartition = "partition"
	FieldOffset    = "offset"
	FieldKey       = "key"
	FieldGroupID   = "group_id"
	FieldBatch     = "batch"
)

// Fields builds a field map from alternating key-value pairs.
//
//	log.Info("delivered", logger.Fields("topic", t, "offset", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// RecordFields creates the fields that locate a record in the log.
func RecordFields(topic string, partition int, offset int64) map[string]interface{} {
	return map[string]interface{}{
		FieldTopic:     topic,
		FieldPartition: partition,
		FieldOffset:    offset,
	}
}

// MergeWithError returns a copy of fields with the error added. fields is
// left untouched so it can be reused for later log lines.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	if err != nil {
		out[FieldError] = err.Error()
	}
	return out
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
