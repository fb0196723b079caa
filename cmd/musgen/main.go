// Command musgen regenerates core/records_mus.gen.go, the MUS serializers for
// the records kept in the entity store. Run it from the module root or core/.
package main

import (
	"os"
	"reflect"
	"strings"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/chronicle/core"
)

const output = "./core/records_mus.gen.go"

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}

	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/chronicle/core"),
	)
	if err != nil {
		panic(err)
	}

	if err := g.AddDefinedType(reflect.TypeFor[core.ID]()); err != nil {
		panic(err)
	}
	if err := g.AddDefinedType(reflect.TypeFor[core.Kind]()); err != nil {
		panic(err)
	}

	// Timestamps keep microsecond precision and decode as UTC.
	micro := typeops.WithTimeUnit(typeops.MicroUTC)
	// Embedding components are fixed-width; varint gains nothing on floats
	// with full mantissas.
	rawFloats := typeops.WithElem(typeops.WithNumEncoding(typeops.Raw))

	err = g.AddStruct(reflect.TypeFor[core.Entity](),
		structops.WithField(),          // Id
		structops.WithField(),          // Name
		structops.WithField(),          // Aliases
		structops.WithField(),          // Description
		structops.WithField(rawFloats), // Embedding
		structops.WithField(),          // Kind
		structops.WithField(micro),     // InsertedAt
		structops.WithField(micro),     // UpdatedAt
	)
	if err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(output, bs, 0644); err != nil {
		panic(err)
	}
}
