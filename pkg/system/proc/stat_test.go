package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPUStat(t *testing.T) {
	snap, err := ParseCPUStat("cpu 100 50 75 200 25 10 15 5 0 0\ncpu0 100 50 75 200 25 10 15 5 0 0\n")
	require.NoError(t, err)

	assert.Equal(t, uint64(100), snap.Total.User)
	assert.Equal(t, uint64(50), snap.Total.Nice)
	assert.Equal(t, uint64(75), snap.Total.System)
	assert.Equal(t, uint64(200), snap.Total.Idle)
	assert.Equal(t, uint64(5), snap.Total.Steal)

	require.Len(t, snap.Cores, 1)
	assert.Equal(t, 0, snap.Cores[0].Index)
	assert.Equal(t, snap.Total, snap.Cores[0].CPUTimes)
}

func TestParseCPUStat_FullFile(t *testing.T) {
	raw := "cpu  2255 34 2290 22625563 6290 127 456 0 0 0\n" +
		"cpu0 1132 34 1441 11311718 3675 127 438 0 0 0\n" +
		"cpu1 1123 0 849 11313845 2614 0 18 0 0 0\n" +
		"intr 114930548 113199788 3 0 5 263 0 4 [...]\n" +
		"ctxt 1990473\n" +
		"btime 1062191376\n" +
		"processes 2915\n" +
		"procs_running 1\n" +
		"procs_blocked 0\n"
	snap, err := ParseCPUStat(raw)
	require.NoError(t, err)

	assert.Equal(t, uint64(2255), snap.Total.User)
	require.Len(t, snap.Cores, 2)
	assert.Equal(t, 0, snap.Cores[0].Index)
	assert.Equal(t, 1, snap.Cores[1].Index)
	assert.Equal(t, uint64(1123), snap.Cores[1].User)
}

func TestParseCPUStat_ShortTrailingFieldsDefaultZero(t *testing.T) {
	// Pre-2.6.24 kernels stop at iowait.
	snap, err := ParseCPUStat("cpu 10 20 30 40 50\n")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), snap.Total.IOWait)
	assert.Zero(t, snap.Total.IRQ)
	assert.Zero(t, snap.Total.GuestNice)
}

func TestParseCPUStat_OutOfOrderCores(t *testing.T) {
	snap, err := ParseCPUStat("cpu 1 2 3 4\ncpu1 5 6 7 8\ncpu0 9 10 11 12\n")
	require.NoError(t, err)
	require.Len(t, snap.Cores, 2)
	// File order defines slice order; Index stays authoritative.
	assert.Equal(t, 1, snap.Cores[0].Index)
	assert.Equal(t, 0, snap.Cores[1].Index)
}

func TestParseCPUStat_Failures(t *testing.T) {
	_, err := ParseCPUStat("")
	assert.ErrorIs(t, err, ErrNoCPU)

	_, err = ParseCPUStat("intr 1 2 3\nctxt 42\n")
	assert.ErrorIs(t, err, ErrNoCPU)

	_, err = ParseCPUStat("cpu 1 2 3\n")
	assert.ErrorIs(t, err, ErrShortCPU)
}

func TestCPUTimes_ActiveTotal(t *testing.T) {
	times := CPUTimes{User: 100, Nice: 50, System: 75, Idle: 200, IOWait: 25, IRQ: 10, SoftIRQ: 15, Steal: 5}
	assert.Equal(t, uint64(255), times.Active())
	assert.Equal(t, uint64(480), times.Total())
}
