package generic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_GetGenerates(t *testing.T) {
	calls := 0
	p := NewPool(func() *bytes.Buffer {
		calls++
		return new(bytes.Buffer)
	})
	assert.NotNil(t, p.Get())
	assert.GreaterOrEqual(t, calls, 1)
}

func TestResetPool_ResetsOnPut(t *testing.T) {
	p := NewResetPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)
	buf := p.Get()
	buf.WriteString("frame")
	p.Put(buf)
	assert.Zero(t, buf.Len())
}
