// Package chatad builds and serves a searchable catalog of documents
// published on a research-consortium website. It discovers site URLs,
// classifies them into documents and pages, files documents into a fixed
// topical taxonomy, and serves the catalog to AI agents together with
// cached full-text retrieval.
//
// This package contains domain types, interfaces and the pure catalog
// logic, following Ben Johnson's Standard Package Layout. Implementations
// live in subdirectories named after their primary dependency (e.g.,
// firecrawl/, fs/, sqlite/, mcp/).
package chatad
