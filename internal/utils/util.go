package utils

import (
	"math"

	"github.com/cockroachdb/errors"
)

// ErrNotPowerOfTwo is returned from CheckPow2 if the number being tested is not a power of two
var ErrNotPowerOfTwo = errors.New("number must be a power of two")

type Number interface {
	~int | ~uint | ~uint32
}

func CheckPow2[T Number](number T, name string) error {
	if number == 0 || number&(number-1) != 0 {
		return errors.Wrapf(ErrNotPowerOfTwo, "%s is %d", name, number)
	}
	return nil
}

// ScaleDimension multiplies a dimension by scale, truncating toward zero and never returning less than 1
func ScaleDimension(value int, scale float32) int {
	scaled := int(math.Floor(float64(float32(value) * scale)))
	if scaled < 1 {
		return 1
	}
	return scaled
}
