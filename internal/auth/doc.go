// Package auth provides authentication and authorisation for fleetops.
//
// It implements a three-role model (viewer, driver, admin) with:
//   - bcrypt password hashing
//   - HS256 bearer tokens carrying the username as subject, valid for 24 hours
//   - A static allow-list per protected action, checked with an exhaustive switch
//
// Every protected request re-resolves the token subject against the user
// store, so a token for a user that no longer exists is rejected.
package auth
