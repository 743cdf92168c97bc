// Package superset is a typed client for the Apache Superset REST API.
//
// The client wraps the Superset security and dashboard endpoints with typed
// methods, maps JSON responses into Go values, and classifies failures into a
// small set of error kinds that callers can branch on with errors.As.
//
// Basic usage:
//
//	client, err := superset.New("https://superset.example.com")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := client.Auth().Authenticate(ctx, "admin", "secret"); err != nil {
//		log.Fatal(err)
//	}
//	dashboard, err := client.GetDashboard(ctx, "sales-overview")
//
// All state (tokens, cookies, default headers) lives on the client instance;
// nothing is persisted. The library performs no retries and no caching.
package superset
