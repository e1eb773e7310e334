// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package source

import (
	"os"
	"strings"

	"github.com/z5labs/formstate/fieldpath"
)

// Env is a [Source] whose values are string leaves taken from
// environment variables sharing a common prefix.
type Env struct {
	prefix  string
	environ func() []string
}

// FromEnv returns a [Source] which applies every environment variable
// starting with prefix. The rest of the variable name is split on "__"
// into property keys, e.g. FORM_USER__NAME sets USER.NAME for prefix "FORM_".
func FromEnv(prefix string) Env {
	return Env{
		prefix:  prefix,
		environ: os.Environ,
	}
}

// Apply implements the [Source] interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(k, src.prefix)
		if !ok || name == "" {
			continue
		}

		p := fieldpath.Root()
		for _, key := range strings.Split(name, "__") {
			p = p.WithProperty(key)
		}
		err := store.Set(p, v)
		if err != nil {
			return err
		}
	}
	return nil
}
