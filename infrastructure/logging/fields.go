package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for pack deployment logging.

// PackID adds a pack id field.
func PackID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("pack_id", id)
	}
}

// PackVersion adds a pack version field.
func PackVersion(v string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("pack_version", v)
	}
}

// Backend adds a storage backend field.
func Backend(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("backend", name)
	}
}

// Endpoint adds a platform endpoint field.
func Endpoint(path string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("endpoint", path)
	}
}

// Author adds a pack author field.
func Author(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("author", name)
	}
}

// Status adds an HTTP status code field.
func Status(code int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("status", code)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// Str adds an arbitrary string field.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}
