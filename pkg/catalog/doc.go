// Package catalog is the client side of the concert collection backend.
//
// It defines the records shown in the card grid ([Item], [Page], [User]) and
// two [Source] implementations that supply them: [Client], which talks to the
// HTTP CRUD backend, and [MongoSource], which reads the backend's collections
// directly.
//
// # Fetching
//
// A collection page is requested with a page index and page size (defaults
// 0 and 10) and returned in the backend's page envelope:
//
//	page, err := client.Collection(ctx, "42", 0, 10)
//	owner, err := client.User(ctx, "42")
//
// [Client] caches responses through a [cache.Cache] and retries transient
// failures (network errors, 5xx) with exponential backoff. Callers that only
// need something to render use [LoadView], which logs failures and degrades
// to an empty list.
//
// # Editing
//
// [Editor] wraps the mutation endpoints used by the concert edit workflow:
// uploading a file, registering a song and updating a concert. The steps are
// independent calls with no compensating action; if song registration fails
// after the upload succeeded, the uploaded file is left on the backend and
// the returned error carries its URL.
package catalog
