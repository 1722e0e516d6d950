package config_test

import (
	"errors"
	"fmt"

	"go.trai.ch/zerr"
)

// metadata flattens every metadata value in an error chain into strings.
func metadata(err error) []string {
	var values []string
	for err != nil {
		var z *zerr.Error
		if !errors.As(err, &z) {
			break
		}
		for _, v := range z.Metadata() {
			values = append(values, fmt.Sprint(v))
		}
		err = z.Unwrap()
	}
	return values
}
