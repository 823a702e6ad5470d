// Package http provides HTTP handlers and middleware for the reservation API.
//
// The router exposes the following endpoints:
//   - GET /rooms, POST /rooms, GET /rooms/{id}, PUT /rooms/{id}, DELETE /rooms/{id}:
//     room catalog endpoints exchanging the `roomDTO` payload defined in
//     room_handler.go. Listing is open to any caller while mutations require the
//     admin role.
//   - GET /rooms/{id}/availability?date=YYYY-MM-DD: returns the room's slot grid
//     for the given day, each slot carrying one of the statuses available,
//     booked, class, or maintenance.
//   - GET /rooms/{id}/blocks?from=&until=, POST /rooms/{id}/blocks,
//     DELETE /blocks/{id}: administrator controlled class and maintenance
//     windows exchanging the `blockDTO` payload.
//   - GET /bookings?room=&participant=&from=&until=, POST /bookings,
//     GET /bookings/{id}: reservation endpoints exchanging the `bookingDTO`
//     payload defined in booking_handler.go. Non staff callers only see
//     bookings they created or participate in.
//   - POST /bookings/{id}/transitions: applies a lifecycle action
//     ({"action":"approve"|"reject"|"cancel"|"request_key"|"issue_key"|
//     "complete"|"mark_overdue"}) on behalf of the calling principal.
//
// Caller identity arrives pre-authenticated from the gateway via the
// X-User-ID and X-User-Role headers; the PrincipalFromHeaders middleware
// translates them into an application.Principal.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
