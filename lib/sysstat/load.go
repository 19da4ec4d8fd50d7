// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sysstat

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadAverage is the content of /proc/loadavg.
type LoadAverage struct {
	One     float64
	Five    float64
	Fifteen float64

	// Running and Total are the runnable and existing scheduling
	// entities.
	Running int
	Total   int
}

// ReadLoad reads /proc/loadavg.
func ReadLoad() (LoadAverage, error) {
	return readLoadFrom("/proc/loadavg")
}

func readLoadFrom(path string) (LoadAverage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadAverage{}, err
	}
	// "0.52 0.40 0.33 2/1234 5678"
	fields := strings.Fields(string(data))
	if len(fields) < 4 {
		return LoadAverage{}, fmt.Errorf("%s: %w", path, ErrMalformed)
	}

	var load LoadAverage
	averages := []*float64{&load.One, &load.Five, &load.Fifteen}
	for i, target := range averages {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return LoadAverage{}, fmt.Errorf("%s: load field %d: %w", path, i, ErrMalformed)
		}
		*target = value
	}

	running, total, ok := strings.Cut(fields[3], "/")
	if !ok {
		return LoadAverage{}, fmt.Errorf("%s: entity count %q: %w", path, fields[3], ErrMalformed)
	}
	if load.Running, err = strconv.Atoi(running); err != nil {
		return LoadAverage{}, fmt.Errorf("%s: running count: %w", path, ErrMalformed)
	}
	if load.Total, err = strconv.Atoi(total); err != nil {
		return LoadAverage{}, fmt.Errorf("%s: entity total: %w", path, ErrMalformed)
	}
	return load, nil
}
