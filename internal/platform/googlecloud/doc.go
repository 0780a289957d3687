// Package googlecloud adapts the Google Speech-to-Text, Translation and
// Text-to-Speech REST APIs (google.golang.org/api) to the small interfaces
// the voice service needs. Client errors that retrying cannot fix are
// marked permanent so the resilience layer does not retry them.
package googlecloud
