// Package icons implements the bounded, two-tier icon cache of the launch
// engine.
//
// The in-memory tier is an LRU index with a hard byte budget; the
// persistent tier stores pre-decoded, pre-scaled PNG files under the user
// cache directory so restarts skip the decode cost. Both tiers are keyed by
// the source's content fingerprint, invalidating automatically when the
// file changes, and both store the synthesized placeholder for unresolvable
// references so broken configuration entries stay cheap.
//
// Supported source formats: PNG and JPEG (stdlib), SVG (rasterized at the
// target size) and ICO containers.
package icons
