package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeClass(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"small size gets minimum", 1, 1024},
		{"exactly 1024", 1024, 1024},
		{"just over 1024", 1025, 2048},
		{"exact multiple", 2048, 2048},
		{"odd number", 1500, 2048},
		{"zero", 0, 1024},
		{"negative", -1, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sizeClass(tt.input))
		})
	}
}

func TestGetPutFloat32(t *testing.T) {
	buf := GetFloat32(1500)
	require.Len(t, buf, 1500)
	assert.GreaterOrEqual(t, cap(buf), 1500)

	buf[0] = 42
	PutFloat32(buf)
	PutFloat32(nil)

	again := GetFloat32(1500)
	assert.Len(t, again, 1500)
	PutFloat32(again)
}

func TestGetBoolIsZeroed(t *testing.T) {
	buf := GetBool(2000)
	require.Len(t, buf, 2000)
	buf[7] = true
	buf[1999] = true
	PutBool(buf)

	again := GetBool(2000)
	require.Len(t, again, 2000)
	for i, v := range again {
		require.False(t, v, "index %d not cleared", i)
	}
	PutBool(again)
	PutBool(nil)
}

func TestGetInt32IsZeroed(t *testing.T) {
	buf := GetInt32(3000)
	require.Len(t, buf, 3000)
	buf[0] = -5
	buf[2999] = 9
	PutInt32(buf)

	again := GetInt32(3000)
	require.Len(t, again, 3000)
	for i, v := range again {
		require.Zero(t, v, "index %d not cleared", i)
	}
	PutInt32(again)
	PutInt32(nil)
}

func TestConcurrentAccess(t *testing.T) {
	const goroutines = 50
	const iterations = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				f := GetFloat32(1500)
				assert.Len(t, f, 1500)
				b := GetBool(900)
				assert.Len(t, b, 900)
				PutBool(b)
				PutFloat32(f)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkGetFloat32(b *testing.B) {
	for i := 0; i < b.N; i++ {
		buf := GetFloat32(2000)
		PutFloat32(buf)
	}
}
