package util

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/grapevine-zk/grapevine/crypto/field"
)

func TestRandomBytesLength(t *testing.T) {
	c := qt.New(t)
	b := RandomBytes(16)
	c.Assert(b, qt.HasLen, 16)
}

func TestRandom32(t *testing.T) {
	c := qt.New(t)
	a := Random32()
	b := Random32()
	c.Assert(a, qt.Not(qt.DeepEquals), b)
}

func TestRandomHexLength(t *testing.T) {
	c := qt.New(t)
	s := RandomHex(8)
	c.Assert(len(s), qt.Equals, 16)
}

func TestRandomIntWithinBounds(t *testing.T) {
	c := qt.New(t)
	for i := 0; i < 50; i++ {
		n := RandomInt(10, 20)
		c.Assert(n >= 10 && n < 20, qt.IsTrue)
	}
}

func TestTrimHex(t *testing.T) {
	c := qt.New(t)
	c.Assert(TrimHex("0xdeadbeef"), qt.Equals, "deadbeef")
	c.Assert(TrimHex("0XDEADBEEF"), qt.Equals, "DEADBEEF")
	c.Assert(TrimHex("deadbeef"), qt.Equals, "deadbeef")
}

func TestBigToFFMatchesFieldReduce(t *testing.T) {
	c := qt.New(t)
	over := new(big.Int).Add(field.Modulus, big.NewInt(5))
	c.Assert(BigToFF(over).Cmp(field.Reduce(over)), qt.Equals, 0)
}
