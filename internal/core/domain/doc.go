// Package domain contains the core business entities for ARP generation:
// sectioned documents, retrieval chunks, icon intent specs, and the
// Activity Risk Profile structures. Types here have no dependencies on
// adapters or external services.
package domain
