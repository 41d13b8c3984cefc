package scheduler

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/pawpal/core/model"
)

var statBuckets = []model.TimeOfDay{model.Morning, model.Afternoon, model.Evening, model.AnyTime}

// PlanStats summarises how a schedule spreads over the day.
type PlanStats struct {
	// BucketHours maps each bucket name to its scheduled hours.
	BucketHours map[string]float64
	// MeanBucketHours and StdDevBucketHours describe the load across the
	// four buckets; a high deviation means the day is lopsided.
	MeanBucketHours   float64
	StdDevBucketHours float64
	// PeakBucket is the bucket with the most scheduled time.
	PeakBucket string
	// Utilization is scheduled hours over available hours, 0 when the owner
	// has no time at all.
	Utilization float64
}

// Summarize computes PlanStats for d.
func Summarize(d *DailySchedule) PlanStats {
	hours := make([]float64, len(statBuckets))
	for _, e := range d.entries {
		for i, b := range statBuckets {
			if e.Task.PreferredTime == b {
				hours[i] += e.Task.DurationHours()
				break
			}
		}
	}
	ps := PlanStats{BucketHours: make(map[string]float64, len(statBuckets))}
	for i, b := range statBuckets {
		ps.BucketHours[b.Bucket()] = hours[i]
	}
	ps.MeanBucketHours = stat.Mean(hours, nil)
	ps.StdDevBucketHours = stat.StdDev(hours, nil)
	if floats.Sum(hours) > 0 {
		ps.PeakBucket = statBuckets[floats.MaxIdx(hours)].Bucket()
	}
	if avail := d.availableHours(); avail > 0 {
		ps.Utilization = d.TotalHours() / avail
	}
	return ps
}
