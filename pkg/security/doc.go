// Package security provides zero-trust URL validation for outbound
// network requests made by the HTTP connection adapter and http-request
// executor.
//
// # Overview
//
// SSRFProtection validates a URL against scheme, hostname, and IP-range
// rules before any HTTP connection is allowed, blocking localhost,
// private/link-local ranges, and cloud metadata endpoints by default.
//
// # Basic Usage
//
//	protection := security.NewSSRFProtection()
//	if err := protection.ValidateURL(targetURL); err != nil {
//	    return fmt.Errorf("URL not allowed: %w", err)
//	}
//
// # Configuration
//
//	protection := security.NewSSRFProtectionWithConfig(security.SSRFConfig{
//	    AllowedSchemes:     []string{"https"},
//	    BlockPrivateIPs:    true,
//	    BlockLocalhost:     true,
//	    BlockLinkLocal:     true,
//	    BlockCloudMetadata: true,
//	})
//
// # Threat Protection
//
//   - SSRF: private/loopback/link-local IP ranges and cloud metadata
//     endpoints (169.254.169.254 and friends) are rejected unless
//     explicitly allowed, matching pkg/config's AllowPrivateIPs-style
//     fields used in development presets.
//   - Scheme restriction: only configured schemes (http and https by
//     default) pass.
//
// # Thread Safety
//
// SSRFProtection holds no mutable state after construction and is safe
// for concurrent use.
package security
