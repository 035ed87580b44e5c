// pool.go - Only for internal buffer reuse
package iso8583

import "sync"

var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, DefaultBufferSize/2)
		return &buf
	},
}

// getBuffer returns an empty pack buffer.
func getBuffer() []byte {
	buf := bufferPool.Get().(*[]byte)
	return (*buf)[:0]
}

// putBuffer recycles buf. Nothing may reference buf afterwards.
func putBuffer(buf []byte) {
	if cap(buf) <= DefaultBufferSize { // Don't pool huge buffers
		b := buf[:0]
		bufferPool.Put(&b)
	}
}
