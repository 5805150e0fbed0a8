// Package pg provides PostgreSQL connection management and the persistent
// stores backing sessions and CSRF tokens.
//
// It wraps the pgx driver with application-level retry logic, connection pool
// tuning, and embedded schema migrations applied through goose.
//
// # Connection
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, logger); err != nil {
//		log.Fatal(err)
//	}
//
// # Stores
//
// SessionStore and CSRFStore implement the session.Store and csrf.Store
// contracts. Both tables are swept by their owning components, so no external
// cron is required for cleanup:
//
//	sessions := session.NewManager(pg.NewSessionStore(pool))
//	guard := csrf.New(pg.NewCSRFStore(pool))
//
// Session id rotation updates the sessions row and every csrf_tokens
// association in a single transaction, so tokens issued before login remain
// valid after it.
//
// # Transactions
//
// WithTx attaches a pgx.Tx to a context; stores route queries through it when
// present. This lets a handler commit domain writes and session writes
// atomically:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx)
//
//	ctx = pg.WithTx(ctx, tx)
//	// ... domain writes and store calls share the transaction ...
//	return tx.Commit(ctx)
//
// # Health Checking
//
// Healthcheck returns a function suitable for readiness probes:
//
//	check := pg.Healthcheck(pool)
//	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
//		if err := check(r.Context()); err != nil {
//			http.Error(w, "database unhealthy", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	})
package pg
