// Package models defines domain entities and persistence interfaces for the mvx catalog admin client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external catalog API data
//   - [Movie] : Full movie record with reference data attached
//   - [MoviePage] : One page of a filtered movie listing with its total count
//   - [Studio], [Genre] : Read-only reference entities for selection controls
//   - [User], [AuthResponse] : Authentication payloads
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Session] : The locally stored login session (tokens + user identity)
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
