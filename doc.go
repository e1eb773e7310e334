// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package formstate is a reactive form state engine.
//
// A form is a single, immutable value root made of objects (map[string]any),
// arrays ([]any) and leaves, plus a state tree mirroring its shape which
// records the validation errors and blurred flag of every location.
//
// The module is organized into the following packages:
//
//   - fieldpath: Locations within a value root and the immutable get/set over them
//   - statetree: Per location errors, blurred flags and change subscriptions
//   - field: Handles bound to a single location of a form
//   - validate: Composable validators and external schemas run as a single pass
//   - validate/jsonschema: JSON Schema documents as external schemas
//   - source: Layered initial values read from YAML, JSON, templates and the environment
//   - form: The form itself, tying values, state, validation and submission together
//
// # Basic Usage
//
// Create a form with an initial value and a validator:
//
//	f, err := form.New(
//	    form.InitialValue(map[string]any{"email": ""}),
//	    form.Validator(validate.Object{
//	        Fields: map[string]validate.Validator{
//	            "email": validate.Message(func(value, _ any) string {
//	                if value == "" {
//	                    return "Email is required"
//	                }
//	                return ""
//	            }),
//	        },
//	    }),
//	)
//
// Bind to a location and react to its changes:
//
//	email := f.Field().Property("email")
//	remove := email.SubscribeToErrors(func() {
//	    fmt.Println(email.Errors())
//	})
//	defer remove()
//
// Submit the form, which validates it first. The outcome is reported
// through [form.Form.Submission]:
//
//	f.Submit(ctx, func(ctx context.Context, data any) error {
//	    return save(ctx, data)
//	})
//
// # Command Line
//
// The formcheck command validates YAML or JSON documents against a JSON Schema
// using the same engine, see cmd/formcheck.
package formstate
