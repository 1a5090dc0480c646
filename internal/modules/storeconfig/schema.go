package storeconfig

import (
	_ "embed"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const scheduleSchemaURL = "https://storefront.schemas.local/delivery/schedule.schema.json"

//go:embed schedule.schema.json
var scheduleSchemaJSON string

// scheduleSchema is compiled once; the document is a constant, so failure is
// a programming error.
var scheduleSchema = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(scheduleSchemaURL, strings.NewReader(scheduleSchemaJSON)); err != nil {
		panic("storeconfig: schedule schema load failed: " + err.Error())
	}
	return c.MustCompile(scheduleSchemaURL)
}()
