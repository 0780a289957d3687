// Package service implements the use cases behind the HTTP API: the voice and
// text question pipeline, agricultural advice, plant scan diagnosis and
// administration. Services depend on store interfaces and small client
// interfaces, never on a concrete database or upstream API.
package service
