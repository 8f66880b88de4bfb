// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. TaskService:
//   - The submission and polling surface of the generation engine
//   - Validates requests, persists task rows inside a transaction, and emits
//     launch events without blocking on generation work
//
// 2. InputSource and ArtifactWriter:
//   - Adapt the store interfaces to the narrow surfaces the task engine
//     consumes for gathering prompt input and persisting finished artifacts
//
// 3. auth subpackage:
//   - JWT issuing/validation and bcrypt password verification used by the
//     login endpoint and the authentication middleware
//
// The service layer depends on domain entities and repository interfaces
// (from store), but never on specific infrastructure implementations.
package service
