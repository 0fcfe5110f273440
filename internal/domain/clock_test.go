package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock(t *testing.T) {
	now := SystemClock.Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(TimestampPrecision), "sub-microsecond digits survive")
	assert.Equal(t, now, now.Truncate(TimestampPrecision))
}

func TestFixedClock(t *testing.T) {
	clock := FixedClock(fixedNow)
	assert.Equal(t, fixedNow, clock.Now())
	assert.Equal(t, fixedNow, clock.Now())
}
