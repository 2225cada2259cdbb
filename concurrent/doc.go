// Package concurrent holds the start/stop plumbing shared by long-running
// components, such as the coroutine dispatcher.
package concurrent
