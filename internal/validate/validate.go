// Package validate checks listings and property records against the JSON
// schemas the store accepts.
package validate

import (
	"bytes"
	"embed"
	"encoding/json"
	"io/fs"
	"path"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sells-group/realtor-intake/internal/model"
)

// ErrInvalid is returned when a document does not satisfy its schema.
var ErrInvalid = eris.New("validate: document does not match schema")

//go:embed schemas/*.json
var schemaFS embed.FS

const baseURL = "https://realtor-intake.local/schemas/"

var (
	compileOnce sync.Once
	compileErr  error
	listingSch  *jsonschema.Schema
	recordSch   *jsonschema.Schema
)

func compile() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		// Register every file first so $ref between schemas resolves.
		compileErr = fs.WalkDir(schemaFS, "schemas", func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := schemaFS.ReadFile(p)
			if err != nil {
				return err
			}
			return compiler.AddResource(baseURL+path.Base(p), bytes.NewReader(data))
		})
		if compileErr != nil {
			compileErr = eris.Wrap(compileErr, "validate: load schemas")
			return
		}

		if listingSch, compileErr = compiler.Compile(baseURL + "listing.json"); compileErr != nil {
			compileErr = eris.Wrap(compileErr, "validate: compile listing schema")
			return
		}
		if recordSch, compileErr = compiler.Compile(baseURL + "property_record.json"); compileErr != nil {
			compileErr = eris.Wrap(compileErr, "validate: compile property record schema")
		}
	})
	return compileErr
}

// Listing validates an extracted or hand-edited listing.
func Listing(l *model.Listing) error {
	if err := compile(); err != nil {
		return err
	}
	return check(listingSch, l)
}

// Record validates a property record before it is stored.
func Record(rec *model.PropertyRecord) error {
	if err := compile(); err != nil {
		return err
	}
	return check(recordSch, rec)
}

// JSON validates a raw listing document, as received from a client.
func JSON(data []byte) error {
	if err := compile(); err != nil {
		return err
	}
	doc, err := decode(data)
	if err != nil {
		return eris.Wrapf(ErrInvalid, "validate: malformed json: %v", err)
	}
	if err := listingSch.Validate(doc); err != nil {
		return eris.Wrapf(ErrInvalid, "validate: %v", err)
	}
	return nil
}

func check(sch *jsonschema.Schema, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrap(err, "validate: marshal")
	}
	doc, err := decode(data)
	if err != nil {
		return eris.Wrap(err, "validate: decode")
	}
	if err := sch.Validate(doc); err != nil {
		return eris.Wrapf(ErrInvalid, "validate: %v", err)
	}
	return nil
}

// decode keeps numbers as json.Number so integer keywords are checked exactly.
func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
