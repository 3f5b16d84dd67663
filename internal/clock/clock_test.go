package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReal_Now(t *testing.T) {
	before := time.Now()
	got := Real{}.Now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestFake_Advance(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f := NewFake(start)
	tk := f.NewTicker(time.Second)
	defer tk.Stop()

	f.Advance(500 * time.Millisecond)
	select {
	case <-tk.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	f.Advance(500 * time.Millisecond)
	select {
	case got := <-tk.C():
		assert.Equal(t, start.Add(time.Second), got)
	default:
		t.Fatal("ticker did not fire after one period")
	}
	assert.Equal(t, start.Add(time.Second), f.Now())
}

func TestFake_StoppedTickerIsSilent(t *testing.T) {
	f := NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	tk := f.NewTicker(time.Second)
	tk.Stop()

	f.Advance(5 * time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFake_Set(t *testing.T) {
	f := NewFake(time.Time{})
	target := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
	f.Set(target)
	require.Equal(t, target, f.Now())
}
