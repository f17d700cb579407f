package config

import "time"

/* =========================
   UPSTREAM SERVICE
========================= */

const (
	// Public ProofPlay deployment
	DefaultAPIURL = "https://proofplay-sx3q.onrender.com"

	// Path template for the verification endpoint
	VerifyPathTemplate = "/games/%s/verify"

	DefaultHTTPTimeout = 15 * time.Second

	// Upper bound on a verification response body
	MaxResponseBytes = 1 << 20 // 1MB
)

/* =========================
   GAME DOMAIN
========================= */

const (
	BingoMin = 1
	BingoMax = 75
)

/* =========================
   CACHE TTL CONFIGURATION
========================= */

const (
	// Every seed revealed; only new draws can still be appended
	RevealedDrawsTTL = 10 * time.Minute

	// Draw data with pending reveals is refetched soon
	PendingDrawsTTL = 30 * time.Second

	// In-process cache cleanup interval
	MemoryCacheCleanup = 10 * time.Minute
)

/* =========================
   REDIS KEY PATTERNS
========================= */

const (
	RedisDrawsKey = "verify:draws:%s" // verify:draws:{gameId}
)

/* =========================
   POSTGRESQL CONFIGURATION
========================= */

const (
	MaxConns        = 25
	MinConns        = 2
	ConnMaxLifetime = 5 * time.Minute

	DefaultReportLimit = 20
	MaxReportLimit     = 100
)

/* =========================
   SERVER CONFIGURATION
========================= */

const (
	DefaultListenAddr  = "0.0.0.0:8080"
	DefaultConcurrency = 4

	// Allowed characters in a game id path segment
	GameIDPattern = `^[A-Za-z0-9_-]{1,64}$`
)

/* =========================
   WEBSOCKET CONFIGURATION
========================= */

const (
	WSWriteDeadline   = 10 * time.Second
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
)
