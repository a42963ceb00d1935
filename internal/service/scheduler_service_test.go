package service

import (
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestBuildDailySpec(t *testing.T) {
	is := is.New(t)

	spec, err := buildDailySpec("09:00")
	is.NoErr(err)
	is.Equal(spec, "0 0 9 * * *")

	spec, err = buildDailySpec("23:59")
	is.NoErr(err)
	is.Equal(spec, "0 59 23 * * *")

	for _, bad := range []string{"9", "24:00", "09:60", "ab:cd", "09:00:00"} {
		_, err := buildDailySpec(bad)
		is.True(err != nil)
	}
}

func TestSchedulerService_Interval(t *testing.T) {
	is := is.New(t)

	s := NewSchedulerService(time.Local)

	_, err := s.ScheduleInterval(0, func() {})
	is.True(err != nil)

	var mu sync.Mutex
	runs := 0
	_, err = s.ScheduleInterval(time.Second, func() {
		mu.Lock()
		runs++
		mu.Unlock()
	})
	is.NoErr(err)

	s.Start()
	time.Sleep(2500 * time.Millisecond)
	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	is.True(runs >= 1)
}
