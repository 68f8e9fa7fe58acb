package client

import "net/url"

// Optional holds a value that may be absent. Unlike a zero value or an empty
// string, an absent Optional is left out of the request entirely.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v, even if v is the zero value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was provided.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was provided.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// ActiveDevice targets whichever device is currently active on the account.
var ActiveDevice = None[string]()

// OnDevice targets a specific device ID.
func OnDevice(id string) Optional[string] {
	return Some(id)
}

func deviceQuery(device Optional[string]) url.Values {
	query := url.Values{}
	if id, ok := device.Get(); ok {
		query.Set("device_id", id)
	}
	return query
}
