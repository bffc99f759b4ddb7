package redisx

import "time"

const (
	// Password-reset OTP: otp:reset:{email} -> 6-digit code.
	KeyResetOTP = "otp:reset:%s"

	// Reset OTP verified marker: otp:reset:verified:{email} -> "1".
	KeyResetOTPVerified = "otp:reset:verified:%s"

	// Phone-login OTP: otp:phone:{phone} -> 6-digit code.
	KeyPhoneOTP = "otp:phone:%s"

	// Cached order status: order_status:{order_id} -> {"status": "..."}.
	KeyOrderStatus = "order_status:%s"

	// Cached admin analytics payload: analytics:dashboard -> JSON blob.
	KeyAnalytics = "analytics:dashboard"

	// Dedup event processing: dedup:{service}:{event_id}.
	KeyDedup = "dedup:%s:%s"

	// Fixed-window rate limit counter: ratelimit:{ip}:{window}.
	KeyRateLimit = "ratelimit:%s:%d"
)

var (
	TTLOTP         = 10 * time.Minute
	TTLOTPVerified = 15 * time.Minute
	TTLStatusCache = 5 * time.Minute
	TTLAnalytics   = time.Minute
	TTLDedup       = 48 * time.Hour
)
