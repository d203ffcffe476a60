package httpclient

import (
	"bytes"
	"sync"
)

// maxPooledBufferSize keeps oversized buffers out of the pool.
const maxPooledBufferSize = 4 << 20

// bufferPool reuses body read buffers across fetches
type bufferPool struct {
	pool sync.Pool
}

func newBufferPool(initialCapacity int) *bufferPool {
	return &bufferPool{
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, initialCapacity))
			},
		},
	}
}

func (bp *bufferPool) Get() *bytes.Buffer {
	return bp.pool.Get().(*bytes.Buffer)
}

func (bp *bufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	bp.pool.Put(buf)
}

var bodyBuffers = newBufferPool(32 << 10)
