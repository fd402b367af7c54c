// Package version reports the reststack build and the default User-Agent.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/reststack/version.Version=1.0.0"
package version
