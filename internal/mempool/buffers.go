package mempool

import (
	"sync"
)

// Sized pools for the scratch buffers the detection post-processing and
// tensor packing paths churn through: float32 tensor data, bool bitmaps,
// and int32 label maps.

var (
	float32Pools sync.Map // key: size class (int), value: *sync.Pool
	boolPools    sync.Map
	int32Pools   sync.Map
)

// sizeClass rounds n up to the next 1024 bucket to reduce churn.
func sizeClass(n int) int {
	if n <= 1024 {
		return 1024
	}
	const step = 1024
	r := (n + step - 1) / step
	return r * step
}

// GetFloat32 retrieves a []float32 buffer of at least n elements from the
// pool. The returned slice has length n but may have larger capacity.
// The caller must return it via PutFloat32 when done.
func GetFloat32(n int) []float32 {
	cls := sizeClass(n)
	pAny, _ := float32Pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]float32, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]float32, cls)[:n]
	}
	buf, ok := p.Get().([]float32)
	if !ok || cap(buf) < cls {
		buf = make([]float32, cls)
	}
	return buf[:cap(buf)][:n]
}

// PutFloat32 returns a buffer to the pool. Nil slices are ignored.
func PutFloat32(buf []float32) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := float32Pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]float32, cls) }})
	if p, ok := pAny.(*sync.Pool); ok {
		p.Put(buf[:cap(buf)]) //nolint:staticcheck
	}
}

// GetBool retrieves a zeroed []bool buffer of at least n elements.
// The caller must return it via PutBool when done.
func GetBool(n int) []bool {
	cls := sizeClass(n)
	pAny, _ := boolPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]bool, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]bool, cls)[:n]
	}
	buf, ok := p.Get().([]bool)
	if !ok || cap(buf) < cls {
		buf = make([]bool, cls)
	}
	buf = buf[:cap(buf)][:n]
	// Bitmaps are reused across images and need a clean state.
	for i := range buf {
		buf[i] = false
	}
	return buf
}

// PutBool returns a buffer to the pool. Nil slices are ignored.
func PutBool(buf []bool) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := boolPools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]bool, cls) }})
	if p, ok := pAny.(*sync.Pool); ok {
		p.Put(buf[:cap(buf)]) //nolint:staticcheck
	}
}

// GetInt32 retrieves a zeroed []int32 buffer of at least n elements,
// used for connected-component label maps.
func GetInt32(n int) []int32 {
	cls := sizeClass(n)
	pAny, _ := int32Pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]int32, cls) }})
	p, ok := pAny.(*sync.Pool)
	if !ok {
		return make([]int32, cls)[:n]
	}
	buf, ok := p.Get().([]int32)
	if !ok || cap(buf) < cls {
		buf = make([]int32, cls)
	}
	buf = buf[:cap(buf)][:n]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// PutInt32 returns a buffer to the pool. Nil slices are ignored.
func PutInt32(buf []int32) {
	if buf == nil {
		return
	}
	cls := sizeClass(cap(buf))
	pAny, _ := int32Pools.LoadOrStore(cls, &sync.Pool{New: func() any { return make([]int32, cls) }})
	if p, ok := pAny.(*sync.Pool); ok {
		p.Put(buf[:cap(buf)]) //nolint:staticcheck
	}
}
