// Package services implements the core pipeline operations: ingestion
// and chunking, evidence retrieval, grounded extraction, profile
// synthesis, and the icon intent pipeline. Services depend only on the
// driven ports, never on concrete adapters.
package services
