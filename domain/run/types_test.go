package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("S/N,CLIENT\n1,Corporate\n"))
	b := Fingerprint([]byte("S/N,CLIENT\n1,Corporate\n"))
	c := Fingerprint([]byte("S/N,CLIENT\n1,Retail\n"))

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
