// Package common provides the helpers shared by every tool package:
// the instrumented handler wrapper, JSON and error results, and typed
// argument access.
package common
