// Package clientip extracts real client IP addresses from HTTP requests.
//
// It handles the common proxy headers in priority order to determine the
// actual client address behind proxies, load balancers, or CDNs:
//
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry is the original client)
//  4. X-Real-IP (nginx and other proxies)
//  5. RemoteAddr (direct connection)
//
// All candidates are parsed and normalized; invalid and unspecified
// addresses are rejected so callers never see 0.0.0.0 as a client IP.
package clientip
