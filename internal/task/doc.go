// Package task manages background job queuing, processing, and lifecycle.
// Plant scan diagnosis runs here so uploads return immediately; tasks are
// persisted before they are queued and recovered after a restart.
package task
