// Package pkg provides the core libraries for the Room Visualizer.
//
// # Overview
//
// The Room Visualizer composites flooring products into a customer's room
// photo via a remote generation backend and caches the results per product
// SKU. The pkg directory is organized by pipeline stage:
//
//  1. [catalog] - Product catalog loading and lookups
//  2. [asset] - Reference image resolution across candidate extensions
//  3. [aspect] - Aspect ratio negotiation for generation requests
//  4. [genclient] - HTTP client for the generation backend
//  5. [visualizer] - Artifact gallery (memory + durable store) and pipeline service
//  6. [store] - Durable artifact store backends (file, redis)
//  7. [export] - Branded download image composition
//  8. [prefs] - Per-user preferences (favorites)
//
// # Architecture
//
// The typical data flow for one visualization:
//
//	Room Photo + Product SKU
//	         ↓
//	    [visualizer] service (gallery lookup, miss -> generate)
//	         ↓
//	    [asset] package (resolve floor sample) + [aspect] package (negotiate ratio)
//	         ↓
//	    [genclient] package (multipart POST to the generation backend)
//	         ↓
//	    [visualizer] gallery (cache in memory, persist via [store])
//	         ↓
//	    [export] package (brand mark + info card) -> PNG download
//
// Supporting packages: [errors] for structured error codes, [httputil] for
// the shared HTTP client, [buildinfo] for version stamping.
package pkg
