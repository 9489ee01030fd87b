// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// scrapes per second allowed on the metrics endpoint
const (
	rateLimitMetrics = 5
	rateBurstMetrics = 10
)

// serve the registry on /metrics behind a rate limiter
func metricsHandler(registry *prometheus.Registry) http.Handler {
	limiter := rate.NewLimiter(rateLimitMetrics, rateBurstMetrics)
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		reservation := limiter.Reserve()
		if !reservation.OK() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		time.Sleep(reservation.Delay())
		handler.ServeHTTP(w, r)
	})
	return mux
}
