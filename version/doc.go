// Package version reports the build identity of the yake binary.
//
// Version, commit, branch and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/yake/version.Version=1.2.0" ./cmd/yake
//
// Fields left empty fall back to the VCS settings the Go toolchain embeds.
package version
