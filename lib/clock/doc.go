// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the passage of time so the daemon's
// periodic work can be driven deterministically in tests.
//
// The display list stamps frames with Clock.Now, the output driver
// refreshes the panel from a Clock ticker, and the connection
// acceptor paces accept retries with Clock.After. Production wiring passes
// Real(); tests pass Fake() and step time with Advance:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	config := output.DriverConfig{RefreshInterval: 100 * time.Millisecond}
//	driver := output.NewDriver(list, backend, fake, logger, config)
//	go driver.Run(ctx)
//	fake.WaitForTimers(1)
//	fake.Advance(config.RefreshInterval)
//
// WaitForTimers closes the race between a goroutine registering its
// ticker and the test advancing past the deadline.
package clock
