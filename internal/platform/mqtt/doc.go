// Package mqtt publishes summaries of answered farmer queries to an MQTT
// broker so extension officers can follow what farmers are asking about.
package mqtt
