// Command schemagen writes the JSON schema of the iconify configuration.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/macropower/iconify/api/v1beta1/configs"
)

const module = "github.com/macropower/iconify"

var (
	outFile = flag.String("o", "schema.json", "Output file for the generated schema")
	rootDir = flag.String("root", "../../..", "Module root, used to read Go doc comments")
)

func main() {
	flag.Parse()

	out, err := filepath.Abs(*outFile)
	if err != nil {
		log.Fatalf("resolve output path: %v", err)
	}

	err = os.Chdir(*rootDir)
	if err != nil {
		log.Fatalf("change to module root: %v", err)
	}

	r := &jsonschema.Reflector{}

	err = r.AddGoComments(module, "./")
	if err != nil {
		log.Fatalf("read Go comments: %v", err)
	}

	s := r.Reflect(configs.New())
	s.ID = jsonschema.ID(configs.SchemaURL)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Fatalf("marshal JSON schema: %v", err)
	}

	err = os.WriteFile(out, append(data, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
