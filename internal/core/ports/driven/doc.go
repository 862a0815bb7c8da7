// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): sectioners, the search engine, LLM and
// image-rendering clients, and persistence stores.
package driven
