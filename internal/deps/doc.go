// Package deps checks for the external binaries reelcaption shells out to
// and resolves their paths.
package deps
