package platform

// Package platform contains filesystem and input glue: listing descriptor
// parsing, artifact verification, directory setup and partial output cleanup.
