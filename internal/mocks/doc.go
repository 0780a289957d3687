// Package mocks provides shared test doubles for the service and store
// interfaces used by the HTTP layer.
//
// Function-field mocks (MockJWTService, MockPasswordVerifier) suit table
// tests; testify mocks (MockFarmerStore and the service mocks) suit tests
// that assert on call arguments.
package mocks
