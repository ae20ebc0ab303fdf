// Package services defines the [Catalog] and [Auth] interfaces for the external
// movie catalog API and implements them as plain REST clients.
//
// # Catalog Implementation
//
// [CatalogService] wraps every movie, studio, and genre endpoint. Authenticated
// requests use an [oauth2] transport built from the stored session token;
// create/edit submissions switch between JSON and multipart bodies depending on
// whether a poster file accompanies the payload.
//
// # Response Normalization
//
// The API is inconsistent about list shapes: some reference endpoints answer a
// bare array, others wrap it as {"items": [...]}. normalizeList resolves both
// shapes once, at this boundary, so no caller ever branches on response shape.
//
// # Auth Implementation
//
// [AuthService] covers login and register. It never carries a token: a 401 from
// login means bad credentials, while a 401 from any catalog endpoint means the
// stored session expired. [CatalogService] converts the latter into a single
// unauthorized hook invocation plus [shared.ErrSessionExpired]; the session
// layer clears the persisted session there, not at call sites.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : HTTP transport failure or non-2xx status
//   - [shared.ErrSessionExpired] : 401 on an authenticated catalog endpoint
//   - [shared.ErrAuthFailed] : rejected credentials on login
//   - [shared.ErrMovieNotFound] : 404 for a movie ID
//
// Non-2xx statuses additionally wrap [StatusError] so callers that need the
// code (404 mapping, tests) can use [errors.As].
package services
