// Package redis provides Redis client initialization and health checking.
//
// It wraps the go-redis client with URL validation, retry logic, and
// connectivity verification. In this codebase Redis backs the shared rate
// limiter store; sessions live in PostgreSQL.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// # Rate limiting
//
// The returned client satisfies redis.UniversalClient and plugs directly into
// the rate limiter store:
//
//	limiter, err := ratelimiter.New(
//		ratelimiter.NewRedisStore(client, "ratelimit"),
//		ratelimiter.Config{Limit: 10, Window: time.Minute},
//	)
package redis
