// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"fmt"
	"io"

	"github.com/z5labs/formstate/fieldpath"
	"github.com/z5labs/formstate/internal/try"

	"gopkg.in/yaml.v3"
)

// Yaml is a [Source] whose values are parsed from YAML.
type Yaml struct {
	r io.Reader
}

// FromYaml returns a [Source] which applies the YAML document read from r.
// If r is also an [io.Closer] it will be closed once read.
func FromYaml(r io.Reader) Yaml {
	return Yaml{r: r}
}

// InvalidYamlError occurs if the underlying io.Reader contains invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// Apply implements the [Source] interface.
func (src Yaml) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	var v any
	err = yaml.Unmarshal(b, &v)
	if err != nil {
		return InvalidYamlError{Cause: err}
	}
	if v == nil {
		return nil
	}
	return setAll(store, fieldpath.Root(), fieldpath.Normalize(v))
}
