// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/formstate/fieldpath"
	"github.com/z5labs/formstate/internal/try"
)

// Json is a [Source] whose values are parsed from JSON.
type Json struct {
	r io.Reader
}

// FromJson returns a [Source] which applies the JSON document read from r.
// If r is also an [io.Closer] it will be closed once read.
//
// Numbers are decoded as float64.
func FromJson(r io.Reader) Json {
	return Json{r: r}
}

// InvalidJsonError occurs if the underlying io.Reader contains invalid JSON.
type InvalidJsonError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// Apply implements the [Source] interface.
func (src Json) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	var v any
	err = json.Unmarshal(b, &v)
	if err != nil {
		return InvalidJsonError{Cause: err}
	}
	if v == nil {
		return nil
	}
	return setAll(store, fieldpath.Root(), fieldpath.Normalize(v))
}
