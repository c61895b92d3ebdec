// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Rewrite Pipeline
//
//   - rewrite.Gateway: turns a masked segment plus context into a Result (internal/rewrite/gateway.go)
//   - rewrite.LanguageModel: a single text generation call (internal/rewrite/gateway.go)
//   - rewrite.Retriever: looks up local context for a segment (internal/rewrite/gateway.go)
//   - daemon.Recorder: receives the outcome of every segment (internal/daemon/processor.go)
//   - daemon.NoteIndexer: told about notes that were rewritten (internal/daemon/processor.go)
//
// ## Data Access Interfaces
//
//   - knowledge.ChunkStore / knowledge.SourceStore: knowledge base storage (internal/knowledge)
//   - http.HistoryStore, http.KnowledgeStore: read models for the status API (internal/http/stores.go)
//
// ## Background Work
//
//   - tasks.KnowledgeIndexer, tasks.HistoryCleaner: task queue processors (internal/tasks)
//
// # Adding a New Model Provider
//
//  1. Implement rewrite.LanguageModel in internal/rewrite/<provider>.go
//  2. Map provider failures onto the errors in internal/rewrite/errors.go
//  3. Add a compile-time check in checks.go
//  4. Select it in entrypoint.App.NewProcessor
package interfaces
