package chart

import (
	"time"

	"ledger_dashboard/internal/app"
)

const (
	// fieldsPerSample is the width of one [timestamp, trackedPlayers, balance] triple
	fieldsPerSample = 3
	// SampleStride keeps one triple out of every SampleStride
	SampleStride = 3
)

// Decimate turns the flat /server response into chart samples, keeping the
// first triple and every SampleStride-th triple after it. A trailing partial
// triple is ignored. Timestamps are epoch milliseconds.
func Decimate(raw []float64) []app.ServerSample {
	count := len(raw) / fieldsPerSample
	samples := make([]app.ServerSample, 0, (count+SampleStride-1)/SampleStride)

	for i := 0; i < count; i += SampleStride {
		base := i * fieldsPerSample
		samples = append(samples, app.ServerSample{
			Date:              time.UnixMilli(int64(raw[base])),
			NumPlayersTracked: int(raw[base+1]),
			Balance:           raw[base+2],
		})
	}

	return samples
}
