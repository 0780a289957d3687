// Package domain holds the AgriNathi entities: farmers, queries, plant scans,
// knowledge entries, weather readings and the languages and locales they are
// expressed in. Constructors validate their input; nothing here touches I/O.
package domain
