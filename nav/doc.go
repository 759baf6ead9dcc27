// Package nav holds the navigation state of the demo site: which demo is
// selected, which demos exist, and which renderer serves a path segment.
//
// A Holder is owned by the application root and handed to the menu and the
// content views. The router-change handler is its only writer; everything
// else reads it or subscribes to it. Observers run synchronously, in
// registration order, before Write returns.
package nav
