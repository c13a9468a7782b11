package session

import (
	"errors"
	"fmt"
)

// Slider limits for both adjustment parameters.
const (
	MinParam = -100
	MaxParam = 100
)

// ErrParamRange is returned for a brightness or contrast outside
// [MinParam, MaxParam].
var ErrParamRange = errors.New("parameter out of range")

// Params are the user-controlled adjustment parameters.
type Params struct {
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
}

// DefaultParams returns the initial slider positions, both zero.
func DefaultParams() Params {
	return Params{}
}

// Validate checks both parameters against the slider range.
func (p Params) Validate() error {
	if err := checkRange("brightness", p.Brightness); err != nil {
		return err
	}
	return checkRange("contrast", p.Contrast)
}

func checkRange(name string, v int) error {
	if v < MinParam || v > MaxParam {
		return fmt.Errorf("%w: %s must be in [%d, %d], got %d", ErrParamRange, name, MinParam, MaxParam, v)
	}
	return nil
}
