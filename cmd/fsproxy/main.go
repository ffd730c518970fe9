// fsproxy is an authenticating translation proxy in front of the FAIRsharing
// metadata-registry API.
//
// It signs clients in to FAIRsharing with the credentials they supply, caches
// the issued tokens per account, and exposes the record search in two stable
// response shapes: the canonical one and a v0.3 compatibility one for older
// integrations.
//
// Usage:
//
//	# Start the proxy with the default configuration
//	fsproxy run
//
//	# Start with a custom configuration file
//	fsproxy run --config /etc/fsproxy/config.yml
//
//	# Run one record warming pass immediately
//	fsproxy warm
//
//	# Check FAIRsharing credentials and print the auth header value
//	fsproxy creds --username you@example.org --password secret --check
//
//	# Show version information
//	fsproxy version
package main

func main() {
	Execute()
}
