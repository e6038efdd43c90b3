// Package server provides HTTP routing, middleware, and the Google sign-in flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Sign-In Flow
//
// [SignIn] runs the whole student authentication sequence: a temporary HTTP server starts on the
// redirect address (localhost:3000 by default), the browser opens to Google's consent page, the
// callback handler exchanges the authorization code, and the server shuts down. The resulting
// access token is the bearer token the classroom backend expects, and [FetchUserInfo] resolves
// the student's profile for the local session.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
