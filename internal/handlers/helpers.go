// Copyright 2026 The Bean Machine Authors
// Licensed under the EUPL-1.2

package handlers

import "time"

func nowUTC() time.Time {
	return time.Now().UTC()
}
