// Package events decouples the request path from side effects.
//
// Services emit an Event after something noteworthy happens (a query was
// answered, a plant scan was uploaded); registered handlers react to it.
// Handlers live next to the infrastructure they drive: the task runner
// submits diagnosis jobs, the InfluxDB recorder writes analytics points and
// the MQTT publisher notifies extension officers.
package events
