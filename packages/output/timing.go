package output

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// maxRecordedMicros caps recorded durations at one minute.
const maxRecordedMicros = 60_000_000

// TimingSummary describes the distribution of case durations in a run.
type TimingSummary struct {
	Count int64
	Min   time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// timings records case durations in microseconds.
type timings struct {
	histogram *hdrhistogram.Histogram
}

func newTimings() *timings {
	// 1us to 60s range, 3 significant digits
	return &timings{histogram: hdrhistogram.New(1, maxRecordedMicros, 3)}
}

func (t *timings) record(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	if us > maxRecordedMicros {
		us = maxRecordedMicros
	}
	_ = t.histogram.RecordValue(us)
}

func (t *timings) summary() TimingSummary {
	if t.histogram.TotalCount() == 0 {
		return TimingSummary{}
	}
	micros := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return TimingSummary{
		Count: t.histogram.TotalCount(),
		Min:   micros(t.histogram.Min()),
		P50:   micros(t.histogram.ValueAtQuantile(50)),
		P95:   micros(t.histogram.ValueAtQuantile(95)),
		P99:   micros(t.histogram.ValueAtQuantile(99)),
		Max:   micros(t.histogram.Max()),
	}
}
