package model

// Package model defines domain data structures used across the app: work
// items parsed from the segment listing, the dataset directory namespace,
// per-clip task records and stage status enums.
