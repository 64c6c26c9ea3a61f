package interfaces

import "errors"

// ErrKeyNotFound is returned when a key is not found in the key/value store
var ErrKeyNotFound = errors.New("key not found")

// ErrNoCity is returned when a city-mode search is submitted without a city.
// It surfaces as a validation notice, never as a network call.
var ErrNoCity = errors.New("city mode requires a city")

// Geolocation capability failures. Each is reported distinctly so the UI
// can word the notice accordingly; none of them changes the origin.
var (
	ErrGeoUnsupported = errors.New("geolocation is not supported")
	ErrGeoDenied      = errors.New("geolocation permission denied")
	ErrGeoTimeout     = errors.New("geolocation timed out")
)
