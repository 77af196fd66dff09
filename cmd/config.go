package cmd

import "time"

// Config carries server, database and dispatch policy settings. The policy
// values are deployment configuration, not domain constants; the defaults in
// main mirror the production tuning (10 km radius, 30 min recency, 3 min
// expiry, 8 per km, 10 penalty).
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	BroadcastRadiusKm float64
	RecencyWindow     time.Duration
	ExpiryWindow      time.Duration
	RatePerKm         float64
	NoResponsePenalty float64
	SweepCronSpec     string
}
