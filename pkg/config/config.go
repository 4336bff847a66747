package config

import (
	"time"
)

// Config holds dataflow engine configuration: scheduler limits, connection
// subsystem security/backoff/buffer limits, and resource-table bounds. All
// configuration options are centralized here for easy management and
// validation. The scheduler reads MaxNodeExecutions and MaxSubflowDepth;
// no package of this module reads the other fields, so the behaviour their
// comments describe is not enforced.
type Config struct {
	// Scheduler limits
	MaxTickDuration      time.Duration // Maximum wall time for one tick before it is abandoned
	MaxNodeExecutionTime time.Duration // Maximum time a single executor may run within a tick
	MaxNodeExecutions    int           // Maximum executor invocations per tick, across subflow expansion (0 = unlimited)
	MaxNodes             int           // Maximum number of nodes in a flow
	MaxEdges             int           // Maximum number of edges in a flow
	MaxSubflowDepth       int          // Maximum nesting depth for subflow instances

	// HTTP connection adapter configuration
	HTTPTimeout         time.Duration // Timeout for HTTP requests
	MaxHTTPRedirects    int           // Maximum number of HTTP redirects to follow
	MaxResponseSize     int64         // Maximum size of HTTP response body (bytes)
	MaxHTTPCallsPerTick int           // Maximum HTTP calls allowed per tick (0 = unlimited)
	AllowedURLPatterns  []string      // Whitelist of allowed URL patterns (if empty, all external URLs allowed)

	// Zero Trust Security - Network Access Control
	// ALL NETWORK ACCESS IS DENIED BY DEFAULT (zero trust)
	// Use Allow* fields to explicitly permit access
	AllowHTTP          bool     // Explicitly allow HTTP requests (default: false for zero trust)
	AllowedDomains     []string // Whitelist of allowed domains for HTTP (empty = allow all domains when AllowHTTP is true)
	AllowPrivateIPs    bool     // Allow private IP ranges (10.x, 172.16.x, 192.168.x) - default: false (BLOCKED)
	AllowLocalhost     bool     // Allow localhost and loopback addresses - default: false (BLOCKED)
	AllowLinkLocal     bool     // Allow link-local addresses (169.254.x.x) - default: false (BLOCKED)
	AllowCloudMetadata bool     // Allow cloud metadata endpoints (169.254.169.254, etc.) - default: false (BLOCKED)

	// Connection subsystem: reconnection policy
	ReconnectBaseDelay   time.Duration // Base delay for the linear reconnect backoff (capped at attempt 5)
	MaxReconnectAttempts int           // 0 = unlimited

	// Connection subsystem: message buffer
	DefaultMessageTTL time.Duration // Default TTL for buffered messages if not specified (0 = no expiry)
	MaxBufferSize     int           // Maximum buffered messages per connection (oldest low-priority dropped first)
	MaxSendRetries    int           // Maximum re-enqueue attempts for a failed send before the message is dropped

	// Resource limits
	MaxStringLength int // Maximum length of string values (0 = unlimited)
	MaxArrayLength  int // Maximum length of array values (0 = unlimited)
}

// Default returns a Config with secure, production-ready default values.
func Default() *Config {
	return &Config{
		MaxTickDuration:      100 * time.Millisecond,
		MaxNodeExecutionTime: 30 * time.Second,
		MaxNodeExecutions:    0, // unlimited
		MaxNodes:             1000,
		MaxEdges:             5000,
		MaxSubflowDepth:      16,

		HTTPTimeout:         30 * time.Second,
		MaxHTTPRedirects:    10,
		MaxResponseSize:     10 * 1024 * 1024, // 10MB
		MaxHTTPCallsPerTick: 100,
		AllowedURLPatterns:  nil,

		// Zero Trust Security - DENY BY DEFAULT
		AllowHTTP:          false,
		AllowedDomains:     nil,
		AllowPrivateIPs:    false,
		AllowLocalhost:     false,
		AllowLinkLocal:     false,
		AllowCloudMetadata: false,

		ReconnectBaseDelay:   1 * time.Second,
		MaxReconnectAttempts: 0, // unlimited

		DefaultMessageTTL: 0, // no expiry
		MaxBufferSize:     1000,
		MaxSendRetries:    3,

		MaxStringLength: 0, // unlimited
		MaxArrayLength:  0, // unlimited
	}
}

// Development returns a Config optimized for development with relaxed limits.
func Development() *Config {
	cfg := Default()
	cfg.AllowHTTP = true           // Allow HTTP in development
	cfg.AllowPrivateIPs = true     // Allow private IPs
	cfg.AllowLocalhost = true      // Allow localhost
	cfg.AllowCloudMetadata = false // Still block cloud metadata (security best practice)
	cfg.MaxTickDuration = 500 * time.Millisecond
	return cfg
}

// Production returns a Config optimized for production with strict security.
func Production() *Config {
	cfg := Default()
	cfg.AllowHTTP = false          // Require HTTPS
	cfg.AllowPrivateIPs = false    // Block private IPs (DENY)
	cfg.AllowLocalhost = false     // Block localhost (DENY)
	cfg.AllowLinkLocal = false     // Block link-local (DENY)
	cfg.AllowCloudMetadata = false // Block cloud metadata (DENY)
	cfg.MaxTickDuration = 100 * time.Millisecond
	return cfg
}

// Testing returns a Config optimized for testing with minimal limits.
func Testing() *Config {
	cfg := Default()
	cfg.AllowHTTP = true           // Allow HTTP for test servers
	cfg.AllowPrivateIPs = true     // Allow private IPs
	cfg.AllowLocalhost = true      // Allow localhost
	cfg.AllowCloudMetadata = false // Still block cloud metadata (security best practice)
	cfg.MaxTickDuration = 1 * time.Second
	cfg.HTTPTimeout = 5 * time.Second
	cfg.ReconnectBaseDelay = 10 * time.Millisecond
	return cfg
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.MaxTickDuration < 0 {
		return ErrInvalidExecutionTime
	}
	if c.MaxNodeExecutionTime < 0 {
		return ErrInvalidNodeExecutionTime
	}
	if c.MaxNodes < 0 {
		return ErrInvalidMaxNodes
	}
	if c.MaxEdges < 0 {
		return ErrInvalidMaxEdges
	}
	if c.HTTPTimeout < 0 {
		return ErrInvalidHTTPTimeout
	}
	if c.MaxHTTPRedirects < 0 {
		return ErrInvalidMaxRedirects
	}
	if c.MaxResponseSize < 0 {
		return ErrInvalidMaxResponseSize
	}
	if c.ReconnectBaseDelay < 0 {
		return ErrInvalidBackoff
	}
	if c.MaxReconnectAttempts < 0 {
		return ErrInvalidMaxAttempts
	}
	if c.DefaultMessageTTL < 0 {
		return ErrInvalidCacheTTL
	}
	if c.MaxBufferSize < 0 {
		return ErrInvalidMaxCacheSize
	}
	if c.MaxStringLength < 0 {
		return ErrInvalidStringLength
	}
	if c.MaxArrayLength < 0 {
		return ErrInvalidArrayLength
	}
	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.AllowedURLPatterns != nil {
		clone.AllowedURLPatterns = make([]string, len(c.AllowedURLPatterns))
		copy(clone.AllowedURLPatterns, c.AllowedURLPatterns)
	}
	if c.AllowedDomains != nil {
		clone.AllowedDomains = make([]string, len(c.AllowedDomains))
		copy(clone.AllowedDomains, c.AllowedDomains)
	}
	return &clone
}
