package scheduler

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/pawpal/core/model"
)

func TestSummarize(t *testing.T) {
	d := NewDailySchedule(time.Now(), mustOwner(t, 4), nil)
	d.AddTask(mustTask(t, "Walk", "walk", 60, 5, model.WithPreferredTime(model.Morning)), "")
	d.AddTask(mustTask(t, "Feed", "feeding", 60, 5, model.WithPreferredTime(model.Morning)), "")

	st := Summarize(d)
	assert.Equal(t, 2.0, st.BucketHours["morning"])
	assert.Equal(t, 0.0, st.BucketHours["evening"])
	assert.Len(t, st.BucketHours, 4)
	assert.InDelta(t, 0.5, st.MeanBucketHours, 1e-9)
	assert.InDelta(t, 1.0, st.StdDevBucketHours, 1e-9)
	assert.Equal(t, "morning", st.PeakBucket)
	assert.InDelta(t, 0.5, st.Utilization, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	st := Summarize(NewDailySchedule(time.Now(), mustOwner(t, 0), nil))
	assert.Equal(t, "", st.PeakBucket)
	assert.Equal(t, 0.0, st.Utilization)
	assert.False(t, math.IsNaN(st.StdDevBucketHours))
}
